package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/config"
	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/screens/auth"
	"github.com/lennai/lennai/internal/screens/hub"
	"github.com/lennai/lennai/internal/screens/welcome"
	"github.com/lennai/lennai/internal/ui/layout"
)

type nopIdentity struct{}

func (nopIdentity) Login(context.Context, string, string) (*identity.User, error) { return nil, nil }
func (nopIdentity) Register(context.Context, identity.RegisterInput) error        { return nil }
func (nopIdentity) ActiveUser(context.Context) (*identity.User, error)            { return nil, nil }
func (nopIdentity) Logout(context.Context) error                                  { return nil }

type stubScreen struct {
	capturing bool
	seen      []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return "stub" }
func (s *stubScreen) Title() string        { return "Stub" }
func (s *stubScreen) CapturingInput() bool { return s.capturing }

var ada = &identity.User{ID: "u1", FullName: "Ada Obi", Role: identity.RoleStudent}

func options() Options {
	return Options{
		Services: hub.Services{
			Identity: nopIdentity{},
			Config:   config.Config{HistoryWindow: 5, QuizDifficulty: "Exam-level", SequenceWinThreshold: 100},
		},
		SkipWelcome: true,
	}
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsAtWelcome(t *testing.T) {
	opts := options()
	opts.SkipWelcome = false
	m := newAppModel(opts, nil)
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("active = %T, want welcome", m.router.Active())
	}
}

func TestStartsAtSignInWithoutUser(t *testing.T) {
	m := newAppModel(options(), nil)
	if _, ok := m.router.Active().(*auth.AuthScreen); !ok {
		t.Errorf("active = %T, want auth", m.router.Active())
	}
}

func TestRemembersSignIn(t *testing.T) {
	m := newAppModel(options(), ada)
	h, ok := m.router.Active().(*hub.HubScreen)
	if !ok {
		t.Fatalf("active = %T, want hub", m.router.Active())
	}
	if h.User().ID != "u1" {
		t.Errorf("hub user = %+v", h.User())
	}
}

func TestSignedOutResetsToSignIn(t *testing.T) {
	m := newAppModel(options(), ada)
	m, _ = update(m, screen.HeaderStatsMsg{Stats: layout.HeaderStats{Name: "Ada", Points: 100}})
	m, _ = update(m, router.PushScreenMsg{Screen: &stubScreen{}})

	m, _ = update(m, screen.SignedOutMsg{})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
	if _, ok := m.router.Active().(*auth.AuthScreen); !ok {
		t.Errorf("active = %T, want auth", m.router.Active())
	}
	if m.stats != (layout.HeaderStats{}) {
		t.Errorf("stats = %+v, want cleared", m.stats)
	}
}

func TestHeaderStats(t *testing.T) {
	m := newAppModel(options(), nil)
	m, _ = update(m, screen.HeaderStatsMsg{Stats: layout.HeaderStats{Name: "Ada", Points: 300, Streak: 3}})
	if m.stats.Points != 300 || m.stats.Streak != 3 {
		t.Errorf("stats = %+v", m.stats)
	}
}

func TestEscPopsScreen(t *testing.T) {
	m := newAppModel(options(), ada)
	m, _ = update(m, router.PushScreenMsg{Screen: &stubScreen{}})

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscGoesToCapturingScreen(t *testing.T) {
	m := newAppModel(options(), ada)
	s := &stubScreen{capturing: true}
	m, _ = update(m, router.PushScreenMsg{Screen: s})

	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("capturing screen should keep Esc")
	}
	if m.router.Depth() != 2 || len(s.seen) != 1 {
		t.Errorf("depth = %d, seen = %v", m.router.Depth(), s.seen)
	}
}

func TestRewardsChangedReachesEveryScreen(t *testing.T) {
	m := newAppModel(options(), ada)
	below, above := &stubScreen{}, &stubScreen{}
	m, _ = update(m, router.PushScreenMsg{Screen: below})
	m, _ = update(m, router.PushScreenMsg{Screen: above})

	update(m, screen.RewardsChangedMsg{})
	for i, s := range []*stubScreen{below, above} {
		if len(s.seen) != 1 {
			t.Errorf("screen %d saw %v", i, s.seen)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(options(), nil)
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
