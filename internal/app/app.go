// Package app hosts the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/screens/auth"
	"github.com/lennai/lennai/internal/screens/hub"
	"github.com/lennai/lennai/internal/screens/welcome"
	"github.com/lennai/lennai/internal/ui/layout"
)

// Options are the dependencies of the TUI.
type Options struct {
	Services hub.Services

	// SkipWelcome starts directly at sign-in or the hub.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    hub.Services
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel creates an AppModel. user is the remembered sign-in, or nil.
func newAppModel(opts Options, user *identity.User) AppModel {
	m := AppModel{svc: opts.Services}
	entry := func() screen.Screen {
		if user != nil {
			return hub.New(user, m.svc)
		}
		return m.signIn()
	}
	if opts.SkipWelcome {
		m.router = router.New(entry())
	} else {
		m.router = router.New(welcome.New(entry))
	}
	return m
}

func (m AppModel) signIn() screen.Screen {
	svc := m.svc
	return auth.New(svc.Identity, func(u *identity.User) screen.Screen {
		return hub.New(u, svc)
	})
}

func (m AppModel) Init() tea.Cmd {
	if s := m.router.Active(); s != nil {
		return s.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.HeaderStatsMsg:
		m.stats = msg.Stats
		return m, nil

	case screen.RewardsChangedMsg:
		return m, m.router.Broadcast(msg)

	case screen.SignedOutMsg:
		m.stats = layout.HeaderStats{}
		return m, m.router.Reset(m.signIn())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Back()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run restores any remembered sign-in and starts the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	var user *identity.User
	if opts.Services.Identity != nil {
		u, err := opts.Services.Identity.ActiveUser(ctx)
		if err != nil {
			slog.Warn("restore sign-in failed", "error", err)
		}
		user = u
	}

	p := tea.NewProgram(newAppModel(opts, user), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
