package chat

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopai/shopchat/internal/catalog"
)

// Reveal pacing constants. The per-bubble typing delay grows with text length
// so the reveal reads as a human typing, clamped to keep long replies moving.
const (
	perRuneDelay   = 30 * time.Millisecond
	minTypingDelay = 1000 * time.Millisecond
	maxTypingDelay = 3000 * time.Millisecond
	interBubbleGap = 600 * time.Millisecond
	followUpDwell  = 15 * time.Second
)

// Reply is a normalized assistant turn: the raw multi-bubble text and the
// products returned alongside it.
type Reply struct {
	Text     string
	Products []catalog.Product
}

// Completer produces assistant replies. Implementations never fail: terminal
// upstream errors are converted into apology replies with no products.
type Completer interface {
	SendTurn(ctx context.Context, text, image, priorContext string) Reply
}

// TypingDelay computes the pacing delay for a segment of the given rune
// length: clamp(length*30ms, 1s, 3s).
func TypingDelay(textLen int) time.Duration {
	d := time.Duration(textLen) * perRuneDelay
	if d < minTypingDelay {
		return minTypingDelay
	}
	if d > maxTypingDelay {
		return maxTypingDelay
	}
	return d
}

// Engine orchestrates a conversation: send admission, the remote completion,
// the paced multi-bubble reveal, and the unsolicited follow-up. All reveal
// work for one response runs sequentially on the calling goroutine; the
// single-flight flags reject overlapping sends.
type Engine struct {
	conv      *Conversation
	completer Completer
	clock     Clock
	phrases   []string
	dwell     time.Duration
	logger    *slog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock substitutes the pacing clock (deterministic tests).
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithRand substitutes the follow-up phrase RNG (deterministic tests).
func WithRand(r *rand.Rand) EngineOption {
	return func(e *Engine) { e.rand = r }
}

// WithFollowUpPhrases sets the candidate phrases for unsolicited follow-ups.
// Phrases carry their own bubble delimiter and re-enter the reveal pipeline.
func WithFollowUpPhrases(phrases []string) EngineOption {
	return func(e *Engine) { e.phrases = phrases }
}

// WithFollowUpDwell overrides the idle period before a follow-up fires.
func WithFollowUpDwell(d time.Duration) EngineOption {
	return func(e *Engine) { e.dwell = d }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine bound to a conversation and a completer.
func NewEngine(conv *Conversation, completer Completer, opts ...EngineOption) *Engine {
	e := &Engine{
		conv:      conv,
		completer: completer,
		clock:     SystemClock(),
		dwell:     followUpDwell,
		logger:    slog.Default(),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	conv.SetLogger(e.logger)
	return e
}

// Conversation returns the engine's conversation store.
func (e *Engine) Conversation() *Conversation {
	return e.conv
}

// Send runs one user turn end to end: admission, optimistic user bubble,
// remote completion, paced reveal. It blocks until the reveal finishes and
// returns false when the send was rejected (empty content, or a round-trip
// or reveal already in flight). Rejected sends are dropped, not queued.
func (e *Engine) Send(ctx context.Context, text, image string) bool {
	if strings.TrimSpace(text) == "" && image == "" {
		return false
	}

	// Prior assistant text grounds the next turn.
	var priorContext string
	if last := e.conv.Last(); last != nil && last.Role == catalog.RoleModel {
		priorContext = last.Text
	}

	if !e.conv.AdmitSend() {
		e.logger.Debug("send rejected, reveal in flight")
		return false
	}

	e.conv.Append(catalog.Message{
		ID:        uuid.NewString(),
		Role:      catalog.RoleUser,
		Text:      text,
		Image:     image,
		Timestamp: e.clock.Now(),
	})

	reply := e.completer.SendTurn(ctx, text, image, priorContext)
	e.reveal(ctx, reply.Text, reply.Products)
	return true
}

// reveal plays a reply back as paced bubbles: typing indicator, length-scaled
// delay, append, short pause, next bubble. Segments appear strictly in split
// order. Afterwards a follow-up may be scheduled.
func (e *Engine) reveal(ctx context.Context, raw string, products []catalog.Product) {
	bubbles := Distribute(raw, products)

	// The network round-trip is done by the time the reveal starts.
	e.conv.SetProcessing(false)

	for i, b := range bubbles {
		e.conv.SetTyping(true)
		if err := e.clock.Sleep(ctx, TypingDelay(utf8.RuneCountInString(b.Text))); err != nil {
			e.conv.SetTyping(false)
			return
		}
		e.conv.SetTyping(false)

		e.conv.Append(catalog.Message{
			ID:        uuid.NewString(),
			Role:      catalog.RoleModel,
			Text:      b.Text,
			Products:  b.Products,
			Timestamp: e.clock.Now(),
		})

		if i < len(bubbles)-1 {
			if err := e.clock.Sleep(ctx, interBubbleGap); err != nil {
				return
			}
		}
	}

	e.maybeScheduleFollowUp()
}

// maybeScheduleFollowUp arms the single dwell timer when the newest message
// is a product recommendation. Any later append or flag change disarms it.
func (e *Engine) maybeScheduleFollowUp() {
	if len(e.phrases) == 0 {
		return
	}

	last := e.conv.Last()
	if last == nil || last.Role != catalog.RoleModel || len(last.Products) == 0 {
		return
	}
	if e.conv.Processing() || e.conv.Typing() {
		return
	}

	timer := e.clock.AfterFunc(e.dwell, e.fireFollowUp)
	e.conv.ArmFollowUp(timer.Stop)
}

// fireFollowUp synthesizes an unsolicited assistant turn from a random
// phrase, run through the same reveal pipeline with no products.
func (e *Engine) fireFollowUp() {
	// The timer races with a send that just started; claiming the typing
	// flag under the conversation lock decides the winner.
	if !e.conv.BeginFollowUp() {
		return
	}

	e.randMu.Lock()
	phrase := e.phrases[e.rand.Intn(len(e.phrases))]
	e.randMu.Unlock()

	e.logger.Info("sending follow-up nudge")
	e.reveal(context.Background(), phrase, nil)
}
