package chat

import (
	"context"
	"time"
)

// Clock abstracts wall-clock pacing so tests can simulate time instead of
// waiting on real delays.
type Clock interface {
	Now() time.Time
	// Sleep suspends until d elapses or ctx is canceled.
	Sleep(ctx context.Context, d time.Duration) error
	// AfterFunc schedules f to run after d. Stop cancels a not-yet-fired task.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled task.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// SystemClock returns the real-time Clock used outside of tests.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
