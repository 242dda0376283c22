// Package server exposes the conversation engine to web clients over a
// websocket, mirroring the reveal pacing server-side: typing indicator
// frames, then one frame per bubble.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopai/shopchat/internal/affiliate"
	"github.com/shopai/shopchat/internal/assistant"
	"github.com/shopai/shopchat/internal/catalog"
	"github.com/shopai/shopchat/internal/chat"
)

// Server serves the websocket chat surface.
type Server struct {
	addr         string
	newCompleter func() chat.Completer
	showcase     *assistant.Client
	rewriter     *affiliate.Rewriter
	logger       *slog.Logger
	upgrader     websocket.Upgrader
}

// New creates a server. newCompleter is called once per connection so each
// client gets its own chat session.
func New(addr string, newCompleter func() chat.Completer, showcase *assistant.Client, rewriter *affiliate.Rewriter, logger *slog.Logger) *Server {
	return &Server{
		addr:         addr,
		newCompleter: newCompleter,
		showcase:     showcase,
		rewriter:     rewriter,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 20, // user image uploads arrive base64-inline
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/statsz", s.handleStats)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// handleStats dumps the model operation statistics as JSON.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	ops, since := s.showcase.Metrics().Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"since":      since,
		"operations": ops,
	}); err != nil {
		s.logger.Warn("stats encode failed", "error", err)
	}
}

// inboundFrame is a client request.
type inboundFrame struct {
	Type    string `json:"type"` // "send" | "showcase"
	Message string `json:"message,omitempty"`
	Image   string `json:"image,omitempty"` // base64 data URL
}

// outboundFrame is a server push.
type outboundFrame struct {
	Type       string        `json:"type"` // "typing" | "processing" | "message" | "showcase" | "rejected"
	Typing     bool          `json:"typing,omitempty"`
	Processing bool          `json:"processing,omitempty"`
	Message    *wireMessage  `json:"message,omitempty"`
	Products   []wireProduct `json:"products,omitempty"`
}

type wireMessage struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Text      string        `json:"text"`
	Products  []wireProduct `json:"products,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type wireProduct struct {
	catalog.Product
	BuyURL string `json:"buyUrl"`
}

// handleWS runs one conversation per connection. There is no cross-session
// state; closing the socket drops the conversation.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conv := chat.NewConversation()
	engine := chat.NewEngine(conv, s.newCompleter(),
		chat.WithFollowUpPhrases(assistant.FollowUpPhrases),
		chat.WithLogger(s.logger),
	)

	// gorilla allows a single concurrent writer; all pushes funnel through
	// outbound.
	outbound := make(chan outboundFrame, 64)
	events := conv.Subscribe()
	go s.pumpEvents(ctx, events, outbound)
	go s.writeLoop(ctx, conn, outbound)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		switch frame.Type {
		case "send":
			go func(text, image string) {
				if !engine.Send(ctx, text, image) {
					select {
					case outbound <- outboundFrame{Type: "rejected"}:
					case <-ctx.Done():
					}
				}
			}(frame.Message, frame.Image)

		case "showcase":
			go func() {
				products := s.showcase.FetchShowcase(ctx)
				select {
				case outbound <- outboundFrame{Type: "showcase", Products: s.wireProducts(products)}:
				case <-ctx.Done():
				}
			}()

		default:
			s.logger.Debug("ignoring unknown frame type", "type", frame.Type)
		}
	}
}

func (s *Server) pumpEvents(ctx context.Context, events <-chan chat.Event, outbound chan<- outboundFrame) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			frame := s.frameFor(ev)
			select {
			case outbound <- frame:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) frameFor(ev chat.Event) outboundFrame {
	switch ev.Type {
	case chat.EventTyping:
		return outboundFrame{Type: "typing", Typing: ev.Typing}
	case chat.EventProcessing:
		return outboundFrame{Type: "processing", Processing: ev.Processing}
	case chat.EventMessage:
		msg := ev.Message
		return outboundFrame{Type: "message", Message: &wireMessage{
			ID:   msg.ID,
			Role: string(msg.Role),
			// Web clients render in-text links as anchors.
			Text: s.rewriter.RewriteTextWith(msg.Text, func(u string) string {
				return `<a href="` + u + `" target="_blank" rel="noopener noreferrer">` + u + `</a>`
			}),
			Products:  s.wireProducts(msg.Products),
			Timestamp: msg.Timestamp,
		}}
	default:
		return outboundFrame{Type: string(ev.Type)}
	}
}

func (s *Server) wireProducts(products []catalog.Product) []wireProduct {
	if len(products) == 0 {
		return nil
	}
	out := make([]wireProduct, 0, len(products))
	for _, p := range products {
		out = append(out, wireProduct{Product: p, BuyURL: s.rewriter.Link(p.ProductURL)})
	}
	return out
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, outbound <-chan outboundFrame) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-outbound:
			if err := conn.WriteJSON(frame); err != nil {
				s.logger.Warn("websocket write failed", "error", err)
				return
			}
		}
	}
}
