// Package hub is the role-scoped main menu shown after sign-in.
package hub

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/config"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/games"
	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/quiz"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/screens/examguide"
	"github.com/lennai/lennai/internal/screens/history"
	"github.com/lennai/lennai/internal/screens/labelgame"
	"github.com/lennai/lennai/internal/screens/lecturer"
	"github.com/lennai/lennai/internal/screens/materiallab"
	"github.com/lennai/lennai/internal/screens/placeholder"
	"github.com/lennai/lennai/internal/screens/practice"
	"github.com/lennai/lennai/internal/screens/rewardvault"
	"github.com/lennai/lennai/internal/screens/sequencegame"
	"github.com/lennai/lennai/internal/screens/tutor"
	"github.com/lennai/lennai/internal/store"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
)

// topicPoolLimit caps how many stored sessions feed the quiz topic pool.
const topicPoolLimit = 20

// Services are the collaborators the hub wires into its feature screens.
type Services struct {
	Identity identity.Service

	// Gateway is nil when no LLM provider is configured.
	Gateway content.Gateway

	Sessions store.SessionRepo
	Rewards  store.RewardRepo

	// Uploader stores analysed materials remotely. Nil keeps them local.
	Uploader materiallab.Uploader

	Config config.Config
}

type totalsLoadedMsg struct {
	Totals rewards.Totals
	Err    error
}

// HubScreen is the main menu of a signed-in user.
type HubScreen struct {
	user       *identity.User
	svc        Services
	orch       *chat.Orchestrator
	rewardSvc  *rewards.Service
	menu       components.Menu
	menuLabels []string
	totals     rewards.Totals
}

var _ screen.Screen = (*HubScreen)(nil)
var _ screen.KeyHintProvider = (*HubScreen)(nil)

// New creates the hub for user.
func New(user *identity.User, svc Services) *HubScreen {
	h := &HubScreen{
		user: user,
		svc:  svc,
	}
	if svc.Rewards != nil {
		h.rewardSvc = rewards.NewService(svc.Rewards, user.ID)
	}
	if svc.Gateway != nil && svc.Sessions != nil {
		h.orch = chat.NewOrchestrator(svc.Gateway, svc.Sessions, user.ID,
			chat.WithHistoryWindow(svc.Config.HistoryWindow))
	}

	var items []components.MenuItem
	if user.IsLecturer() {
		items = h.lecturerItems()
	} else {
		items = h.studentItems()
	}
	items = append(items, components.MenuItem{Label: "SIGN OUT", Action: h.signOut})

	for _, it := range items {
		h.menuLabels = append(h.menuLabels, it.Label)
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HubScreen) studentItems() []components.MenuItem {
	gen := h.svc.Gateway
	threshold := h.svc.Config.SequenceWinThreshold
	if threshold <= 0 {
		threshold = games.DefaultWinThreshold
	}

	return []components.MenuItem{
		{Label: "TUTOR CHAT", Description: "Ask anything and get a structured study unit", Action: h.openChat("Tutor Chat", func() screen.Screen {
			return tutor.New(h.orch)
		})},
		{Label: "STUDY HISTORY", Description: "Reopen a past tutoring session", Action: h.openChat("Study History", func() screen.Screen {
			return history.New(h.orch, func() screen.Screen { return tutor.New(h.orch) })
		})},
		{Label: "MATERIAL LAB", Description: "Turn lecture notes or slides into a study unit", Action: h.open("Material Lab", func() screen.Screen {
			return materiallab.New(gen, h.svc.Uploader, h.user.ID)
		})},
		{Label: "EXAM GUIDE", Description: "High-yield outline for a topic", Action: h.open("Exam Guide", func() screen.Screen {
			return examguide.New(gen)
		})},
		{Label: "PRACTICE QUIZ", Description: "Five questions drawn from what you have studied", Action: h.openChat("Practice Quiz", func() screen.Screen {
			engine := quiz.NewEngine(gen, quiz.WithDifficulty(h.svc.Config.QuizDifficulty))
			return practice.New(engine, h.topicPool)
		})},
		{Label: "SEQUENCE GAME", Description: "Put the steps of a process in order", Action: h.open("Sequence Game", func() screen.Screen {
			return sequencegame.New(games.NewSequence(gen, h.rewarder()), threshold)
		})},
		{Label: "LABEL GAME", Description: "Match each structure to its label", Action: h.open("Label Game", func() screen.Screen {
			return labelgame.New(games.NewLabel(gen, h.rewarder()))
		})},
		{Label: "REWARDS", Description: "Points, streak and game history", Action: func() tea.Cmd {
			if h.svc.Rewards == nil {
				return router.Navigate(placeholder.New("Rewards"))
			}
			return router.Navigate(rewardvault.New(h.svc.Rewards, h.user.ID))
		}},
	}
}

func (h *HubScreen) lecturerItems() []components.MenuItem {
	gen := h.svc.Gateway
	return []components.MenuItem{
		{Label: "LECTURER HUB", Description: "Notes, lesson plans and question banks", Action: h.open("Lecturer Hub", func() screen.Screen {
			return lecturer.New(gen)
		})},
		{Label: "EXAM GUIDE", Description: "High-yield outline for a topic", Action: h.open("Exam Guide", func() screen.Screen {
			return examguide.New(gen)
		})},
	}
}

// open navigates to the screen built by build, or to a placeholder when
// content generation is not configured.
func (h *HubScreen) open(title string, build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if h.svc.Gateway == nil {
			return router.Navigate(placeholder.New(title))
		}
		return router.Navigate(build())
	}
}

// openChat is open for features that also need the session store.
func (h *HubScreen) openChat(title string, build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if h.orch == nil {
			return router.Navigate(placeholder.New(title))
		}
		return router.Navigate(build())
	}
}

// rewarder returns the reward ledger, or nil when there is none. A nil
// *rewards.Service must not be stored in the interface.
func (h *HubScreen) rewarder() games.Rewarder {
	if h.rewardSvc == nil {
		return nil
	}
	return h.rewardSvc
}

func (h *HubScreen) topicPool(ctx context.Context) ([]quiz.Topic, error) {
	return quiz.PoolFromSessions(ctx, h.svc.Sessions, h.user.ID, topicPoolLimit)
}

func (h *HubScreen) signOut() tea.Cmd {
	svc := h.svc.Identity
	return func() tea.Msg {
		if svc != nil {
			if err := svc.Logout(context.Background()); err != nil {
				slog.Warn("sign out failed", "error", err)
			}
		}
		return screen.SignedOutMsg{}
	}
}

func (h *HubScreen) loadTotals() tea.Cmd {
	if h.rewardSvc == nil || h.user.IsLecturer() {
		return h.statsCmd()
	}
	svc := h.rewardSvc
	return func() tea.Msg {
		t, err := svc.Totals(context.Background())
		return totalsLoadedMsg{Totals: t, Err: err}
	}
}

func (h *HubScreen) statsCmd() tea.Cmd {
	stats := layout.HeaderStats{Name: firstName(h.user.FullName)}
	if !h.user.IsLecturer() {
		stats.Points = h.totals.Points
		stats.Streak = h.totals.Streak
	}
	return func() tea.Msg { return screen.HeaderStatsMsg{Stats: stats} }
}

func (h *HubScreen) Init() tea.Cmd {
	return h.loadTotals()
}

func (h *HubScreen) Title() string {
	if h.user.IsLecturer() {
		return "Lecturer Home"
	}
	return "Home"
}

func (h *HubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// User returns the signed-in user.
func (h *HubScreen) User() *identity.User {
	return h.user
}

// Totals returns the last loaded reward totals.
func (h *HubScreen) Totals() rewards.Totals {
	return h.totals
}

func (h *HubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case totalsLoadedMsg:
		if msg.Err != nil {
			slog.Warn("reward totals not loaded", "user_id", h.user.ID, "error", msg.Err)
		} else {
			h.totals = msg.Totals
		}
		return h, h.statsCmd()

	case screen.RewardsChangedMsg:
		return h, h.loadTotals()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HubScreen) View(width, height int) string {
	termHeight := height + 8
	compact := layout.IsCompact(width, termHeight) || termHeight < 34
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, RenderMascot(mascotFor(h.user.IsLecturer(), h.totals.Streak)))
	}
	sections = append(sections, renderProfile(h.user, cw))
	if !h.user.IsLecturer() {
		sections = append(sections, renderStatsBar(h.totals, cw, compact))
	}
	if h.svc.Gateway == nil {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
