// Package rewardvault shows reward totals and the game log.
package rewardvault

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/store"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

type eventsLoadedMsg struct {
	Records []store.RewardEventRecord
	Err     error
}

// filters cycle with Tab.
var filters = []struct {
	label string
	game  rewards.Game
}{
	{"All games", ""},
	{"Sequence", rewards.GameSequence},
	{"Label", rewards.GameLabel},
}

// VaultScreen displays a user's points, streak and finished games.
type VaultScreen struct {
	repo         store.RewardRepo
	userID       string
	events       []store.RewardEventRecord
	filter       int
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*VaultScreen)(nil)
var _ screen.KeyHintProvider = (*VaultScreen)(nil)

// New creates a VaultScreen for userID.
func New(repo store.RewardRepo, userID string) *VaultScreen {
	return &VaultScreen{repo: repo, userID: userID}
}

func (s *VaultScreen) Init() tea.Cmd {
	return s.load()
}

func (s *VaultScreen) load() tea.Cmd {
	repo, userID := s.repo, s.userID
	return func() tea.Msg {
		records, err := repo.QueryRewardEvents(context.Background(), userID, store.QueryOpts{})
		return eventsLoadedMsg{Records: records, Err: err}
	}
}

func (s *VaultScreen) Title() string {
	return "Rewards"
}

func (s *VaultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *VaultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Records
		}
		s.loaded = true
		return s, nil

	case screen.RewardsChangedMsg:
		return s, s.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.filter = (s.filter + 1) % len(filters)
			s.scrollOffset = 0
		case "shift+tab":
			s.filter = (s.filter - 1 + len(filters)) % len(filters)
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *VaultScreen) filtered() []store.RewardEventRecord {
	game := filters[s.filter].game
	if game == "" {
		return s.events
	}
	var out []store.RewardEventRecord
	for _, e := range s.events {
		if e.Game == string(game) {
			out = append(out, e)
		}
	}
	return out
}

func (s *VaultScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderNotice("Error: "+s.errMsg, theme.Error, width)
	}
	if !s.loaded {
		return layout.RenderNotice("Loading rewards...", theme.TextDim, width)
	}

	totals := rewards.Summarize(s.events)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(fmt.Sprintf("%s    %s    %s",
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("◆ %d points", totals.Points)),
		lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(fmt.Sprintf("★ %d streak", totals.Streak)),
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%d of %d games won", totals.Wins, totals.Games)),
	)))
	b.WriteString("\n\n")

	var tabs []string
	for i, f := range filters {
		if i == s.filter {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(f.label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.label))
		}
	}
	b.WriteString(center(strings.Join(tabs, "     ")))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))))
	b.WriteString("\n\n")

	list := s.filtered()
	if len(list) == 0 {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No games played yet"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(list))
	for _, e := range list[start:end] {
		result, style := "lost", lipgloss.NewStyle().Foreground(theme.TextDim)
		if e.Won {
			result, style = fmt.Sprintf("won +%d", e.Points), lipgloss.NewStyle().Foreground(theme.Success)
		}
		line := fmt.Sprintf("  %-9s %3d/%-3d  %-10s %s",
			e.Game, e.Score, e.Total, result, e.Timestamp.Format("Jan 02, 2006"))
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")
	}
	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}
	return b.String()
}
