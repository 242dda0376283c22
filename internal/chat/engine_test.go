package chat

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopai/shopchat/internal/catalog"
)

// fakeClock records pacing calls instead of sleeping.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, timer)
	return timer
}

// fire runs the most recently scheduled timer if it was not stopped.
func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	if len(c.timers) == 0 {
		c.mu.Unlock()
		t.Fatal("no timer scheduled")
	}
	timer := c.timers[len(c.timers)-1]
	c.mu.Unlock()

	if timer.stopped {
		t.Fatal("timer already stopped")
	}
	timer.f()
}

func (c *fakeClock) recordedSleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// fakeCompleter returns a canned reply and records what it was asked.
type fakeCompleter struct {
	reply     Reply
	lastText  string
	lastPrior string
}

func (f *fakeCompleter) SendTurn(_ context.Context, text, _, priorContext string) Reply {
	f.lastText = text
	f.lastPrior = priorContext
	return f.reply
}

func newTestEngine(completer Completer, clock Clock, opts ...EngineOption) (*Engine, *Conversation) {
	conv := NewConversation()
	all := append([]EngineOption{
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
	}, opts...)
	return NewEngine(conv, completer, all...), conv
}

func TestTypingDelay(t *testing.T) {
	tests := []struct {
		textLen int
		want    time.Duration
	}{
		{0, 1 * time.Second},    // clamped up
		{10, 1 * time.Second},   // 300ms clamped up
		{50, 1500 * time.Millisecond},
		{100, 3 * time.Second},  // exactly at cap
		{500, 3 * time.Second},  // clamped down
	}

	for _, tt := range tests {
		if got := TypingDelay(tt.textLen); got != tt.want {
			t.Errorf("TypingDelay(%d) = %v, want %v", tt.textLen, got, tt.want)
		}
	}
}

func TestSendRevealsBubblesInOrder(t *testing.T) {
	clock := newFakeClock()
	products := []catalog.Product{{ID: "p1", Name: "Echo Dot"}, {ID: "p2", Name: "Kindle"}}
	completer := &fakeCompleter{reply: Reply{
		Text:     "contexto|||primeiro item|||segundo item",
		Products: products,
	}}
	engine, conv := newTestEngine(completer, clock)

	if !engine.Send(context.Background(), "quero ofertas", "") {
		t.Fatal("Send rejected")
	}

	msgs := conv.Messages()
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want user + 3 bubbles", len(msgs))
	}

	if msgs[0].Role != catalog.RoleUser || msgs[0].Text != "quero ofertas" {
		t.Errorf("first message should be the user turn, got %+v", msgs[0])
	}

	wantTexts := []string{"contexto", "primeiro item", "segundo item"}
	wantProducts := []int{0, 1, 1}
	for i, msg := range msgs[1:] {
		if msg.Role != catalog.RoleModel {
			t.Errorf("bubble %d role = %q", i, msg.Role)
		}
		if msg.Text != wantTexts[i] {
			t.Errorf("bubble %d text = %q, want %q", i, msg.Text, wantTexts[i])
		}
		if len(msg.Products) != wantProducts[i] {
			t.Errorf("bubble %d carries %d products, want %d", i, len(msg.Products), wantProducts[i])
		}
	}

	// Pacing: a typing delay per bubble with the inter-bubble gap between.
	sleeps := clock.recordedSleeps()
	want := []time.Duration{
		TypingDelay(len("contexto")), interBubbleGap,
		TypingDelay(len("primeiro item")), interBubbleGap,
		TypingDelay(len("segundo item")),
	}
	if len(sleeps) != len(want) {
		t.Fatalf("got %d sleeps %v, want %d", len(sleeps), sleeps, len(want))
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}

	// Both flags must be clear after the reveal.
	if conv.Processing() || conv.Typing() {
		t.Error("flags should be clear after reveal")
	}
}

func TestSendRejectsEmptyContent(t *testing.T) {
	clock := newFakeClock()
	engine, conv := newTestEngine(&fakeCompleter{reply: Reply{Text: "oi"}}, clock)

	if engine.Send(context.Background(), "   ", "") {
		t.Error("whitespace-only send should be rejected")
	}
	if conv.Len() != 0 {
		t.Errorf("rejected send appended %d messages", conv.Len())
	}

	// An image alone is enough content.
	if !engine.Send(context.Background(), "", "data:image/jpeg;base64,x") {
		t.Error("image-only send should be accepted")
	}
}

func TestSendRejectedWhileInFlight(t *testing.T) {
	clock := newFakeClock()
	engine, conv := newTestEngine(&fakeCompleter{reply: Reply{Text: "oi"}}, clock)

	// Simulate a round-trip already outstanding.
	if !conv.AdmitSend() {
		t.Fatal("first admission should pass")
	}
	if engine.Send(context.Background(), "segunda", "") {
		t.Error("overlapping send should be rejected")
	}
	if conv.Len() != 0 {
		t.Error("rejected send must not append the user message")
	}
}

func TestPriorContextFromLastModelMessage(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{Text: "resposta um"}}
	engine, _ := newTestEngine(completer, clock)

	engine.Send(context.Background(), "primeira", "")
	if completer.lastPrior != "" {
		t.Errorf("first turn has no prior context, got %q", completer.lastPrior)
	}

	engine.Send(context.Background(), "segunda", "")
	if completer.lastPrior != "resposta um" {
		t.Errorf("prior context = %q, want last assistant text", completer.lastPrior)
	}
}

func TestFollowUpFiresAfterRecommendation(t *testing.T) {
	clock := newFakeClock()
	phrases := []string{"E aí?|||Gostou?"}
	completer := &fakeCompleter{reply: Reply{
		Text:     "olha este",
		Products: []catalog.Product{{ID: "p1"}},
	}}
	engine, conv := newTestEngine(completer, clock, WithFollowUpPhrases(phrases))

	engine.Send(context.Background(), "quero um presente", "")

	clock.mu.Lock()
	timerCount := len(clock.timers)
	dwell := clock.timers[0].d
	clock.mu.Unlock()
	if timerCount != 1 {
		t.Fatalf("got %d timers, want exactly 1", timerCount)
	}
	if dwell != followUpDwell {
		t.Errorf("dwell = %v, want %v", dwell, followUpDwell)
	}

	before := conv.Len()
	clock.fire(t)

	msgs := conv.Messages()
	if len(msgs) != before+2 {
		t.Fatalf("follow-up phrase should reveal as 2 bubbles, got %d new", len(msgs)-before)
	}
	for _, msg := range msgs[before:] {
		if msg.Role != catalog.RoleModel {
			t.Errorf("follow-up role = %q", msg.Role)
		}
		if len(msg.Products) != 0 {
			t.Error("follow-up must not carry products")
		}
	}
}

func TestNoFollowUpWithoutProducts(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{Text: "sem produtos aqui"}}
	engine, _ := newTestEngine(completer, clock, WithFollowUpPhrases([]string{"oi"}))

	engine.Send(context.Background(), "olá", "")

	clock.mu.Lock()
	defer clock.mu.Unlock()
	if len(clock.timers) != 0 {
		t.Errorf("no follow-up should be scheduled, got %d timers", len(clock.timers))
	}
}

func TestFollowUpCanceledByNextSend(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{
		Text:     "olha",
		Products: []catalog.Product{{ID: "p1"}},
	}}
	engine, _ := newTestEngine(completer, clock, WithFollowUpPhrases([]string{"oi"}))

	engine.Send(context.Background(), "primeira", "")

	clock.mu.Lock()
	first := clock.timers[0]
	clock.mu.Unlock()

	engine.Send(context.Background(), "segunda", "")

	if !first.stopped {
		t.Error("pending follow-up should be canceled by the next send")
	}
}

func TestFollowUpCanceledExplicitly(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{
		Text:     "olha",
		Products: []catalog.Product{{ID: "p1"}},
	}}
	engine, conv := newTestEngine(completer, clock, WithFollowUpPhrases([]string{"oi"}))

	engine.Send(context.Background(), "primeira", "")
	conv.CancelFollowUp()

	clock.mu.Lock()
	defer clock.mu.Unlock()
	if !clock.timers[0].stopped {
		t.Error("CancelFollowUp should stop the timer")
	}
}

// admitOnLogHandler attempts a send admission the moment the follow-up
// announces itself, mimicking a user hitting enter just as the dwell timer
// fires.
type admitOnLogHandler struct {
	conv     *Conversation
	seen     bool
	admitted bool
}

func (h *admitOnLogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *admitOnLogHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.seen && strings.Contains(r.Message, "follow-up") {
		h.seen = true
		h.admitted = h.conv.AdmitSend()
	}
	return nil
}

func (h *admitOnLogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *admitOnLogHandler) WithGroup(string) slog.Handler      { return h }

func TestFollowUpClaimBlocksConcurrentSend(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{
		Text:     "olha",
		Products: []catalog.Product{{ID: "p1"}},
	}}
	conv := NewConversation()
	handler := &admitOnLogHandler{conv: conv}
	engine := NewEngine(conv, completer,
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
		WithFollowUpPhrases([]string{"gostou?"}),
		WithLogger(slog.New(handler)),
	)

	engine.Send(context.Background(), "primeira", "")
	clock.fire(t)

	if !handler.seen {
		t.Fatal("follow-up never announced itself")
	}
	if handler.admitted {
		t.Error("send admitted while the follow-up reveal held the claim")
	}
	if conv.Processing() || conv.Typing() {
		t.Error("flags should be clear after the follow-up reveal")
	}
	if !conv.AdmitSend() {
		t.Error("admission should succeed once the follow-up reveal finished")
	}
}

func TestSubscribeReceivesRevealEvents(t *testing.T) {
	clock := newFakeClock()
	completer := &fakeCompleter{reply: Reply{Text: "a|||b"}}
	conv := NewConversation()
	events := conv.Subscribe()
	engine := NewEngine(conv, completer,
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
	)

	engine.Send(context.Background(), "oi", "")

	var types []EventType
	for {
		select {
		case ev := <-events:
			types = append(types, ev.Type)
			continue
		default:
		}
		break
	}

	// processing(on), user message, processing(off), then per bubble
	// typing(on), typing(off), message.
	want := []EventType{
		EventProcessing, EventMessage, EventProcessing,
		EventTyping, EventTyping, EventMessage,
		EventTyping, EventTyping, EventMessage,
	}
	if len(types) != len(want) {
		t.Fatalf("got events %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, types[i], want[i])
		}
	}
}
