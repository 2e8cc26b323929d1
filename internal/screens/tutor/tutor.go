// Package tutor is the chat screen for the AI tutor.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/studyview"
	"github.com/lennai/lennai/internal/ui/theme"
)

type turnDoneMsg struct {
	seq  int
	Turn *chat.Turn
	Err  error
}

// ChatScreen shows the active conversation and sends new questions.
type ChatScreen struct {
	orch   *chat.Orchestrator
	input  components.TextInput
	scroll int
	reveal bool
	errMsg string
	notice string

	// sent numbers send commands; waiting is the one still outstanding.
	sent    int
	waiting int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen over orch. The orchestrator outlives the
// screen so the conversation survives navigation.
func New(orch *chat.Orchestrator) *ChatScreen {
	return &ChatScreen{
		orch:  orch,
		input: components.NewTextInput("", "Ask about any nursing topic...", 2000),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Focus()
}

func (c *ChatScreen) Title() string {
	if t := c.orch.Title(); t != "" {
		return "Tutor · " + t
	}
	return "Tutor Chat"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: "Switch view"},
		{Key: "Ctrl+R", Description: "Answers"},
		{Key: "Ctrl+N", Description: "New session"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		c.handleTurn(msg)
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return c, c.send()
		case "tab":
			c.cycleView()
			return c, nil
		case "ctrl+r":
			c.reveal = !c.reveal
			return c, nil
		case "ctrl+n":
			c.orch.NewSession()
			c.waiting = 0
			c.scroll = 0
			c.errMsg = ""
			c.notice = "Started a new session."
			return c, nil
		case "pgup":
			c.scroll += 5
			return c, nil
		case "pgdown":
			c.scroll = max(0, c.scroll-5)
			return c, nil
		}
	}

	// The input is read-only while a reply is pending.
	if _, ok := msg.(tea.KeyMsg); ok && c.busy() {
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) busy() bool {
	return c.waiting != 0 || c.orch.Busy()
}

func (c *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return nil
	}
	if c.busy() {
		c.notice = "The tutor is still answering."
		return nil
	}
	c.input.Reset()
	c.errMsg = ""
	c.notice = ""
	c.scroll = 0
	c.sent++
	c.waiting = c.sent
	seq, orch := c.sent, c.orch
	return func() tea.Msg {
		turn, err := orch.Send(context.Background(), text)
		return turnDoneMsg{seq: seq, Turn: turn, Err: err}
	}
}

func (c *ChatScreen) handleTurn(msg turnDoneMsg) {
	if msg.seq == c.waiting {
		c.waiting = 0
	}
	if msg.Err != nil {
		var perr *chat.PersistenceError
		if errors.As(msg.Err, &perr) {
			c.errMsg = "Could not start a session. Check your connection and try again."
			return
		}
		c.errMsg = msg.Err.Error()
		return
	}
	turn := msg.Turn
	if turn == nil || turn.Discarded {
		return
	}
	if turn.Err != nil {
		c.notice = "Press Enter on the same question to retry."
	}
	if len(turn.Warnings) > 0 {
		c.notice = "This conversation was not fully saved."
	}
}

// cycleView advances the view of the latest tutor reply with content.
func (c *ChatScreen) cycleView() {
	msgs := c.orch.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role == chat.RoleTutor && m.Payload != nil {
			_ = c.orch.SetView(m.ID, studyview.Next(c.orch.View(m.ID)))
			c.scroll = 0
			return
		}
	}
}

func (c *ChatScreen) View(width, height int) string {
	cw := min(width-4, 100)

	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(cw).
		Render(c.input.View())

	var status string
	switch {
	case c.busy():
		status = theme.Hint.Render("Tutor is thinking...")
	case c.errMsg != "":
		status = theme.ErrorText.Render(c.errMsg)
	case c.notice != "":
		status = theme.Hint.Render(c.notice)
	}

	avail := height - lipgloss.Height(input) - 2
	body := c.renderConversation(cw)
	lines := strings.Split(body, "\n")
	end := len(lines) - c.scroll
	if end < 0 {
		end = 0
	}
	start := max(0, end-avail)
	visible := strings.Join(lines[start:end], "\n")
	visible = lipgloss.NewStyle().Height(max(avail, 0)).Render(visible)

	out := lipgloss.JoinVertical(lipgloss.Left, visible, status, input)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
}

func (c *ChatScreen) renderConversation(cw int) string {
	msgs := c.orch.Messages()
	if len(msgs) == 0 {
		return theme.Hint.Width(cw).Render(
			"Ask a question to start a session. Each answer comes with an overview, slides, flashcards and a practice quiz.")
	}

	var blocks []string
	for _, m := range msgs {
		switch {
		case m.Role == chat.RoleUser:
			who := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("You")
			blocks = append(blocks, who+"\n"+lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(m.Content))
		case m.Failed:
			blocks = append(blocks, theme.ErrorText.Width(cw).Render("⚠ "+m.Content))
		case m.Payload != nil:
			v := c.orch.View(m.ID)
			body := studyview.Render(m.Payload, v, cw-4)
			if v == chat.ViewQuiz {
				body = studyview.Quiz(m.Payload.PracticeQuestions, cw-4, c.reveal)
			}
			blocks = append(blocks, studyview.Tabs(v)+"\n"+lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Padding(0, 1).
				Width(cw).
				Render(body))
		default:
			blocks = append(blocks, lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(m.Content))
		}
	}
	if n := len(msgs); n > 0 {
		blocks = append(blocks, lipgloss.NewStyle().Foreground(theme.Border).Render(fmt.Sprintf("── %d messages ──", n)))
	}
	return strings.Join(blocks, "\n\n")
}
