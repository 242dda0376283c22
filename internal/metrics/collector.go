// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"sync"
	"time"
)

// Operation names recorded by the assistant.
const (
	OpChatCompletion = "chat_completion"
	OpShowcase       = "showcase_generation"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Failures    int64   `json:"failures"`
	TotalTimeMs int64   `json:"totalTimeMs"`
	AvgTimeMs   float64 `json:"avgTimeMs"`
	MinTimeMs   int64   `json:"minTimeMs"`
	MaxTimeMs   int64   `json:"maxTimeMs"`
}

// Collector aggregates per-operation timings. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	ops   map[string]*OperationMetrics
	since time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		ops:   make(map[string]*OperationMetrics),
		since: time.Now(),
	}
}

// Record adds one completed operation. failed operations still count toward
// the timing aggregates since the time was spent either way.
func (c *Collector) Record(op string, d time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: d, MaxTime: d}
		c.ops[op] = m
	}

	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += d
	if d < m.MinTime {
		m.MinTime = d
	}
	if d > m.MaxTime {
		m.MaxTime = d
	}
}

// Snapshot returns computed stats per operation plus the collection start.
func (c *Collector) Snapshot() (map[string]OperationSnapshot, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]OperationSnapshot, len(c.ops))
	for name, m := range c.ops {
		snap := OperationSnapshot{
			Count:       m.Count,
			Failures:    m.Failures,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			MinTimeMs:   m.MinTime.Milliseconds(),
			MaxTimeMs:   m.MaxTime.Milliseconds(),
		}
		if m.Count > 0 {
			snap.AvgTimeMs = float64(m.TotalTime.Milliseconds()) / float64(m.Count)
		}
		out[name] = snap
	}
	return out, c.since
}
