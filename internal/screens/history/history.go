// Package history lists past tutoring sessions and reopens one.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/store"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions []store.ChatSession
	Err      error
}

type restoredMsg struct {
	Err error
}

// HistoryScreen displays the user's stored sessions, newest first.
type HistoryScreen struct {
	orch      *chat.Orchestrator
	open      func() screen.Screen
	sessions  []store.ChatSession
	selected  int
	loaded    bool
	restoring bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. open builds the chat screen shown once a
// session has been restored into orch.
func New(orch *chat.Orchestrator, open func() screen.Screen) *HistoryScreen {
	return &HistoryScreen{
		orch: orch,
		open: open,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	orch := s.orch
	return func() tea.Msg {
		sessions, err := orch.ListSessions(context.Background())
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Study History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case restoredMsg:
		s.restoring = false
		if msg.Err != nil {
			s.errMsg = "Could not open that session: " + msg.Err.Error()
			return s, nil
		}
		next := s.open()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.restoring {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.restoring = true
			s.errMsg = ""
			id := s.sessions[s.selected].ID
			orch := s.orch
			return s, func() tea.Msg {
				return restoredMsg{Err: orch.Restore(context.Background(), id)}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return layout.RenderNotice("Loading sessions...", theme.TextDim, width)
	}
	if s.errMsg != "" && len(s.sessions) == 0 {
		return layout.RenderNotice("Error: "+s.errMsg, theme.Error, width)
	}
	if len(s.sessions) == 0 {
		return layout.RenderNotice("No sessions yet. Ask the tutor something!", theme.TextDim, width)
	}

	var b strings.Builder
	b.WriteString("\n")

	maxVisible := max(height-6, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.sessions))

	for i := start; i < end; i++ {
		sess := s.sessions[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		subject := sess.Subject
		if subject == "" {
			subject = "General"
		}
		line := fmt.Sprintf("%s%s  %-40s  %s",
			prefix, sess.CreatedAt.Format("Jan 02, 2006"), sess.Title, subject)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if end < len(s.sessions) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(s.sessions)-end)))
	}
	if s.restoring {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(theme.Hint.Render("Opening session...")))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(theme.ErrorText.Render(s.errMsg)))
	}
	return b.String()
}
