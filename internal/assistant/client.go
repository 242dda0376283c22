// Package assistant is the completion client: it owns the persistent chat
// session, turns raw model output into normalized replies, and shields the
// conversation flow from every upstream failure mode.
package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shopai/shopchat/internal/catalog"
	"github.com/shopai/shopchat/internal/chat"
	"github.com/shopai/shopchat/internal/llm"
	"github.com/shopai/shopchat/internal/metrics"
	"github.com/tmc/langchaingo/llms"
)

// Generator produces completions. Satisfied by *llm.Model; faked in tests.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateMessages(ctx context.Context, messages []llms.MessageContent) (string, error)
}

// Cache is the key-value persistence the showcase reads through.
type Cache interface {
	Get(ctx context.Context, key string) (payload []byte, ts time.Time, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte, ts time.Time) error
}

// Client wraps the model with session state, response normalization, and the
// showcase cache.
type Client struct {
	model        Generator
	cache        Cache
	logger       *slog.Logger
	showcaseSize int
	showcaseTTL  time.Duration
	now          func() time.Time
	stats        *metrics.Collector

	// The chat session is the turn history, created lazily on first use and
	// reused for the process lifetime. The engine's single-flight rule is
	// what makes one session safe.
	mu      sync.Mutex
	history []llms.MessageContent
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithShowcaseSize sets the requested showcase batch size.
func WithShowcaseSize(n int) Option {
	return func(c *Client) { c.showcaseSize = n }
}

// WithShowcaseTTL sets the showcase cache time-to-live.
func WithShowcaseTTL(d time.Duration) Option {
	return func(c *Client) { c.showcaseTTL = d }
}

// WithNow substitutes the time source (cache TTL tests).
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a completion client over the given model and cache.
func NewClient(model Generator, cache Cache, opts ...Option) *Client {
	c := &Client{
		model:        model,
		cache:        cache,
		logger:       slog.Default(),
		showcaseSize: 10,
		showcaseTTL:  24 * time.Hour,
		now:          time.Now,
		stats:        metrics.NewCollector(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSession returns a client sharing this one's model, cache and settings
// but with its own empty turn history. Used to isolate concurrent
// conversations.
func (c *Client) NewSession() *Client {
	return &Client{
		model:        c.model,
		cache:        c.cache,
		logger:       c.logger,
		showcaseSize: c.showcaseSize,
		showcaseTTL:  c.showcaseTTL,
		now:          c.now,
		stats:        c.stats,
	}
}

// Metrics returns the runtime statistics collector shared by all sessions
// branched from this client.
func (c *Client) Metrics() *metrics.Collector {
	return c.stats
}

// SendTurn sends one conversational turn and returns a normalized reply.
// It never fails: quota exhaustion maps to the rate-limit apology, any other
// unrecovered error to the technical-hiccup apology, both with no products.
func (c *Client) SendTurn(ctx context.Context, text, image, priorContext string) chat.Reply {
	finalText := text
	if finalText == "" {
		finalText = "Olá"
	}
	if priorContext != "" {
		finalText = fmt.Sprintf("(Contexto Visual anterior: %q)\n\nResposta do Usuário: %s", priorContext, text)
	}
	finalText += styleReminder

	parts := []llms.ContentPart{llms.TextPart(finalText)}
	if image != "" {
		if data, err := decodeImage(image); err == nil {
			parts = append(parts, llms.BinaryPart("image/jpeg", data))
		} else {
			c.logger.Warn("dropping unreadable image attachment", "error", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		c.history = []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, SystemInstruction),
		}
	}

	turn := append(sliceClone(c.history), llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: parts,
	})

	start := time.Now()
	raw, err := c.model.GenerateMessages(ctx, turn)
	c.stats.Record(metrics.OpChatCompletion, time.Since(start), err != nil)
	if err != nil {
		c.logger.Error("chat completion failed", "error", err)
		if llm.IsQuotaError(err) {
			return chat.Reply{Text: RateLimitMessage}
		}
		return chat.Reply{Text: HiccupMessage}
	}

	// Failed turns are not kept; the session only accumulates exchanges the
	// user actually saw answered.
	c.history = append(turn, llms.TextParts(llms.ChatMessageTypeAI, raw))

	return c.parseReply(raw)
}

// parseReply extracts the structured reply from raw model output. The model
// can wrap the JSON in prose; only the first top-level {...} span is parsed.
// No JSON at all degrades to a plain-text reply with no products.
func (c *Client) parseReply(raw string) chat.Reply {
	span, found := extractObject(raw)
	if !found {
		return chat.Reply{Text: raw}
	}

	wire, err := decodeReply(span)
	if err != nil {
		c.logger.Error("failed to parse extracted reply JSON", "error", err)
		return chat.Reply{Text: HiccupMessage}
	}

	products := make([]catalog.Product, 0, len(wire.Products))
	for i, p := range wire.Products {
		products = append(products, normalizeProduct(p, i+utf8.RuneCountInString(p.Name)))
	}

	return chat.Reply{Text: wire.Message, Products: products}
}

func decodeImage(image string) ([]byte, error) {
	// Data URLs arrive as "data:image/jpeg;base64,<payload>".
	payload := image
	if idx := strings.IndexByte(image, ','); idx >= 0 {
		payload = image[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

func sliceClone(msgs []llms.MessageContent) []llms.MessageContent {
	out := make([]llms.MessageContent, len(msgs))
	copy(out, msgs)
	return out
}
