package chat

import (
	"log/slog"
	"sync"

	"github.com/shopai/shopchat/internal/catalog"
)

// EventType identifies a conversation state change.
type EventType string

const (
	EventMessage    EventType = "message"
	EventTyping     EventType = "typing"
	EventProcessing EventType = "processing"
)

// Event is a conversation state change delivered to subscribed views.
type Event struct {
	Type       EventType
	Message    *catalog.Message // set for EventMessage
	Typing     bool
	Processing bool
}

// Conversation is the state store for one chat: the append-only ordered
// message log, the two pending-reply flags, and the single pending follow-up
// task. It is the only component that mutates the log; views read snapshots.
type Conversation struct {
	mu         sync.Mutex
	messages   []catalog.Message
	processing bool // network round-trip outstanding
	typing     bool // reveal pacing delay in progress

	// stopFollowUp cancels the pending follow-up timer, if any. At most one
	// follow-up task exists system-wide; any append or flag change cancels it.
	stopFollowUp func() bool

	subs   []chan Event
	logger *slog.Logger
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// SetLogger sets the logger used for subscriber diagnostics.
func (c *Conversation) SetLogger(l *slog.Logger) {
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

// Append adds a message to the log. Append order is reveal order. Any pending
// follow-up is canceled first.
func (c *Conversation) Append(msg catalog.Message) {
	c.mu.Lock()
	c.cancelFollowUpLocked()
	c.messages = append(c.messages, msg)
	c.publishLocked(Event{Type: EventMessage, Message: &msg})
	c.mu.Unlock()
}

// Messages returns an ordered snapshot of the log.
func (c *Conversation) Messages() []catalog.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]catalog.Message, len(c.messages))
	copy(snapshot, c.messages)
	return snapshot
}

// Last returns the most recent message, or nil for an empty log.
func (c *Conversation) Last() *catalog.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	msg := c.messages[len(c.messages)-1]
	return &msg
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Processing reports whether a completion round-trip is outstanding.
func (c *Conversation) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// Typing reports whether a reveal pacing delay is in progress.
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// SetProcessing sets the awaiting-completion flag, canceling any pending
// follow-up on change.
func (c *Conversation) SetProcessing(v bool) {
	c.mu.Lock()
	if c.processing != v {
		c.cancelFollowUpLocked()
		c.processing = v
		c.publishLocked(Event{Type: EventProcessing, Processing: v, Typing: c.typing})
	}
	c.mu.Unlock()
}

// SetTyping sets the typing flag, canceling any pending follow-up on change.
func (c *Conversation) SetTyping(v bool) {
	c.mu.Lock()
	if c.typing != v {
		c.cancelFollowUpLocked()
		c.typing = v
		c.publishLocked(Event{Type: EventTyping, Typing: v, Processing: c.processing})
	}
	c.mu.Unlock()
}

// AdmitSend atomically checks the single-flight condition and, when clear,
// marks the conversation as awaiting completion. Returns false when a send
// must be rejected because a reveal or round-trip is already in flight.
func (c *Conversation) AdmitSend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing || c.typing {
		return false
	}
	c.cancelFollowUpLocked()
	c.processing = true
	c.publishLocked(Event{Type: EventProcessing, Processing: true})
	return true
}

// BeginFollowUp atomically checks that no round-trip or reveal is in flight
// and claims the conversation for a follow-up reveal by raising the typing
// flag. Returns false when a send won the race; the caller must not reveal.
func (c *Conversation) BeginFollowUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing || c.typing {
		return false
	}
	c.cancelFollowUpLocked()
	c.typing = true
	c.publishLocked(Event{Type: EventTyping, Typing: true})
	return true
}

// ArmFollowUp registers stop as the cancel handle for a newly scheduled
// follow-up task, canceling any previously pending one first.
func (c *Conversation) ArmFollowUp(stop func() bool) {
	c.mu.Lock()
	c.cancelFollowUpLocked()
	c.stopFollowUp = stop
	c.mu.Unlock()
}

// CancelFollowUp cancels the pending follow-up task, if any.
func (c *Conversation) CancelFollowUp() {
	c.mu.Lock()
	c.cancelFollowUpLocked()
	c.mu.Unlock()
}

func (c *Conversation) cancelFollowUpLocked() {
	if c.stopFollowUp != nil {
		c.stopFollowUp()
		c.stopFollowUp = nil
	}
}

// Subscribe returns a channel of conversation events for a view to render
// from. Slow subscribers drop events rather than block the engine.
func (c *Conversation) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

func (c *Conversation) publishLocked(e Event) {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, ch := range c.subs {
		select {
		case ch <- e:
		default:
			logger.Warn("conversation subscriber lagging, dropping event", "type", e.Type)
		}
	}
}
