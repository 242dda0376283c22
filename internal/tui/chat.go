// Package tui renders the shopping chat in the terminal: the showcase strip,
// the paced conversation log with a typing indicator, and the composer.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopai/shopchat/internal/affiliate"
	"github.com/shopai/shopchat/internal/catalog"
	"github.com/shopai/shopchat/internal/chat"
	"github.com/shopai/shopchat/internal/wishlist"
)

// SuggestionChips are the canned openers cycled into the composer with tab.
var SuggestionChips = []string{
	"Ofertas do dia",
	"Celulares baratos",
	"Presente para mãe",
	"Tênis de corrida",
}

// Theme holds the color scheme for the chat display.
type Theme struct {
	User    lipgloss.Color
	Model   lipgloss.Color
	Price   lipgloss.Color
	Hint    lipgloss.Color
	Heart   lipgloss.Color
	Divider lipgloss.Color
}

var defaultTheme = Theme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Model:   lipgloss.Color("#D787AF"), // pink
	Price:   lipgloss.Color("#00D787"), // green
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Heart:   lipgloss.Color("#FF005F"), // red
	Divider: lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) modelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Model).Bold(true)
}

func (t Theme) priceStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Price)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) heartStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Heart)
}

// eventMsg carries a conversation state change into the update loop.
type eventMsg chat.Event

// sendDoneMsg signals that a send sequence finished (or was rejected).
type sendDoneMsg struct{ accepted bool }

// chatModel is the bubbletea model for the conversation view.
type chatModel struct {
	engine   *chat.Engine
	conv     *chat.Conversation
	list     *wishlist.Wishlist
	rewriter *affiliate.Rewriter
	events   <-chan chat.Event
	showcase []catalog.Product

	input      textinput.Model
	spin       spinner.Model
	theme      Theme
	width      int
	chipIdx    int
	processing bool
	typing     bool
	quitting   bool
}

// NewChat creates the chat model.
func NewChat(engine *chat.Engine, list *wishlist.Wishlist, rewriter *affiliate.Rewriter, showcase []catalog.Product) tea.Model {
	input := textinput.New()
	input.Placeholder = "Pergunte sobre um produto... (tab: sugestões)"
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	return chatModel{
		engine:   engine,
		conv:     engine.Conversation(),
		list:     list,
		rewriter: rewriter,
		events:   engine.Conversation().Subscribe(),
		showcase: showcase,
		input:    input,
		spin:     spin,
		theme:    defaultTheme,
		width:    80,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(m.waitEvent(), m.spin.Tick)
}

// waitEvent blocks on the conversation event channel as a command.
func (m chatModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-m.events)
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.processing || m.typing {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.send(text)

		case "tab":
			m.input.SetValue(SuggestionChips[m.chipIdx%len(SuggestionChips)])
			m.chipIdx++
			return m, nil

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.toggleWishlist(int(msg.String()[0] - '1'))
			return m, nil
		}

	case eventMsg:
		switch msg.Type {
		case chat.EventProcessing:
			m.processing = msg.Processing
			m.typing = msg.Typing
		case chat.EventTyping:
			m.typing = msg.Typing
			m.processing = msg.Processing
		}
		return m, m.waitEvent()

	case sendDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send runs the full send-and-reveal sequence off the update loop.
func (m chatModel) send(text string) tea.Cmd {
	return func() tea.Msg {
		accepted := m.engine.Send(context.Background(), text, "")
		return sendDoneMsg{accepted: accepted}
	}
}

// toggleWishlist flips membership for the nth product of the latest
// recommendation bubble.
func (m chatModel) toggleWishlist(n int) {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == catalog.RoleModel && len(msgs[i].Products) > 0 {
			if n < len(msgs[i].Products) {
				m.list.Toggle(context.Background(), msgs[i].Products[n])
			}
			return
		}
	}
}

func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	if m.quitting {
		return m.theme.hintStyle().Render("Até a próxima! 👋\n")
	}

	var b strings.Builder

	b.WriteString(m.theme.modelStyle().Render("✨ Vivi — sua consultora de compras"))
	b.WriteString("\n")
	b.WriteString(m.renderShowcase())
	b.WriteString("\n")

	for _, msg := range m.conv.Messages() {
		b.WriteString(m.renderMessage(msg))
	}

	if m.processing {
		b.WriteString(m.spin.View() + m.theme.hintStyle().Render(" Vivi está pensando...") + "\n")
	} else if m.typing {
		b.WriteString(m.spin.View() + m.theme.hintStyle().Render(" Vivi está digitando...") + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(m.theme.hintStyle().Render("enter: enviar · 1-9: favoritar produto · esc: sair"))
	b.WriteString("\n")

	return b.String()
}

// renderShowcase draws a compact strip of the storefront trends.
func (m chatModel) renderShowcase() string {
	if len(m.showcase) == 0 {
		return ""
	}
	limit := 3
	if len(m.showcase) < limit {
		limit = len(m.showcase)
	}

	var b strings.Builder
	b.WriteString(m.theme.hintStyle().Render("Em alta hoje:"))
	b.WriteString("\n")
	for _, p := range m.showcase[:limit] {
		line := fmt.Sprintf("  • %s — %s", p.Name, m.theme.priceStyle().Render(p.PriceEstimate))
		if p.Rating > 0 {
			line += m.theme.hintStyle().Render(fmt.Sprintf(" (★ %.1f · %d avaliações)", p.Rating, p.ReviewCount))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m chatModel) renderMessage(msg catalog.Message) string {
	var b strings.Builder

	switch msg.Role {
	case catalog.RoleUser:
		b.WriteString(m.theme.userStyle().Render("Você: "))
	default:
		b.WriteString(m.theme.modelStyle().Render("Vivi: "))
	}
	b.WriteString(m.rewriter.RewriteText(msg.Text))
	b.WriteString("\n")

	for i, p := range msg.Products {
		heart := " "
		if m.list.Contains(p.ID) {
			heart = m.theme.heartStyle().Render("♥")
		}
		b.WriteString(fmt.Sprintf("   %s [%d] %s\n", heart, i+1, p.Name))
		b.WriteString("       " + m.theme.priceStyle().Render(p.PriceEstimate))
		if p.Pitch != "" {
			b.WriteString(m.theme.hintStyle().Render(" · " + p.Pitch))
		}
		b.WriteString("\n")
		b.WriteString("       " + m.theme.hintStyle().Render(m.rewriter.Link(p.ProductURL)) + "\n")
	}

	return b.String()
}

// Run starts the interactive chat UI and blocks until exit.
func Run(engine *chat.Engine, list *wishlist.Wishlist, rewriter *affiliate.Rewriter, showcase []catalog.Product) error {
	p := tea.NewProgram(NewChat(engine, list, rewriter, showcase))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
