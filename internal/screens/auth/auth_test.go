package auth

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
)

type fakeIdentity struct {
	user       *identity.User
	loginErr   error
	registered []identity.RegisterInput
}

func (f *fakeIdentity) Login(_ context.Context, email, _ string) (*identity.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u := *f.user
	u.Email = email
	return &u, nil
}

func (f *fakeIdentity) Register(_ context.Context, in identity.RegisterInput) error {
	f.registered = append(f.registered, in)
	return nil
}

func (f *fakeIdentity) ActiveUser(context.Context) (*identity.User, error) { return nil, nil }
func (f *fakeIdentity) Logout(context.Context) error                         { return nil }

type stubScreen struct{ user *identity.User }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "hub" }
func (s *stubScreen) Title() string                           { return "Hub" }

func newAuth(svc identity.Service) *AuthScreen {
	return New(svc, func(u *identity.User) screen.Screen { return &stubScreen{user: u} })
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func TestLoginSuccessResetsToHub(t *testing.T) {
	svc := &fakeIdentity{user: &identity.User{ID: "u1", Role: identity.RoleStudent}}
	a := newAuth(svc)
	a.inputs[fieldEmail].SetValue("ada@example.com")
	a.inputs[fieldPassword].SetValue("secret1")
	a.focus = 1

	_, cmd := a.Update(enter())
	if cmd == nil {
		t.Fatal("expected login command")
	}
	if !a.busy {
		t.Error("screen should be busy while signing in")
	}

	_, cmd = a.Update(cmd())
	if cmd == nil {
		t.Fatal("expected navigation after login")
	}
	reset, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatal("expected ResetScreenMsg")
	}
	hub := reset.Screen.(*stubScreen)
	if hub.user.ID != "u1" || hub.user.Email != "ada@example.com" {
		t.Errorf("unexpected user handed over: %+v", hub.user)
	}
}

func TestLoginRequiresFields(t *testing.T) {
	a := newAuth(&fakeIdentity{})
	a.focus = 1

	_, cmd := a.Update(enter())
	if cmd != nil {
		t.Error("no request should be sent for an empty form")
	}
	if a.errMsg != "Email and password are required" {
		t.Errorf("errMsg = %q", a.errMsg)
	}
}

func TestLoginFailureShowsMessage(t *testing.T) {
	a := newAuth(&fakeIdentity{loginErr: &identity.AuthError{Kind: identity.KindInvalidCredentials}})
	a.inputs[fieldEmail].SetValue("ada@example.com")
	a.inputs[fieldPassword].SetValue("wrong")
	a.focus = 1

	_, cmd := a.Update(enter())
	a.Update(cmd())

	if a.errMsg != "Invalid login credentials" {
		t.Errorf("errMsg = %q", a.errMsg)
	}
	if a.busy {
		t.Error("busy should clear after a failure")
	}
}

func TestEnterAdvancesFocus(t *testing.T) {
	a := newAuth(&fakeIdentity{})
	a.Update(enter())
	if a.focus != 1 {
		t.Errorf("focus = %d, want 1", a.focus)
	}
}

func TestToggleMode(t *testing.T) {
	a := newAuth(&fakeIdentity{})
	a.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if a.Mode() != ModeRegister {
		t.Fatal("ctrl+r should open the registration form")
	}
	if len(a.fields()) != 7 {
		t.Errorf("register form has %d fields, want 7", len(a.fields()))
	}
	a.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if a.Mode() != ModeLogin {
		t.Error("ctrl+r should return to sign in")
	}
}

func fillRegister(a *AuthScreen) {
	a.setMode(ModeRegister)
	a.inputs[fieldName].SetValue("Ada Okafor")
	a.inputs[fieldEmail].SetValue("Ada@Example.com")
	a.inputs[fieldPassword].SetValue("secret1")
	a.inputs[fieldConfirm].SetValue("secret1")
	a.inputs[fieldSchool].SetValue("Lagos School of Nursing")
	a.inputs[fieldCourse].SetValue("BSc Nursing")
	a.focus = len(a.fields()) - 1
}

func TestRegisterValidatesLocally(t *testing.T) {
	svc := &fakeIdentity{}
	a := newAuth(svc)
	fillRegister(a)
	a.inputs[fieldConfirm].SetValue("different")

	_, cmd := a.Update(enter())
	if cmd != nil {
		t.Error("invalid form should not be sent")
	}
	if a.errMsg != "Passwords do not match" {
		t.Errorf("errMsg = %q", a.errMsg)
	}
	if len(svc.registered) != 0 {
		t.Error("service should not be called")
	}
}

func TestRegisterSuccessReturnsToLogin(t *testing.T) {
	svc := &fakeIdentity{}
	a := newAuth(svc)
	fillRegister(a)
	a.focus = 4
	a.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	a.focus = len(a.fields()) - 1

	_, cmd := a.Update(enter())
	if cmd == nil {
		t.Fatal("expected register command")
	}
	a.Update(cmd())

	if len(svc.registered) != 1 {
		t.Fatalf("registered %d users, want 1", len(svc.registered))
	}
	if svc.registered[0].Role != identity.RoleLecturer {
		t.Errorf("role = %q, want lecturer", svc.registered[0].Role)
	}
	if a.Mode() != ModeLogin {
		t.Error("expected sign-in form after registering")
	}
	if got := a.inputs[fieldEmail].Value(); got != "ada@example.com" {
		t.Errorf("email prefilled as %q", got)
	}
	if a.notice == "" {
		t.Error("expected a confirmation notice")
	}
}

func TestRoleToggleRenamesCourse(t *testing.T) {
	a := newAuth(&fakeIdentity{})
	a.setMode(ModeRegister)
	a.focus = 4
	a.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	if a.role != identity.RoleLecturer {
		t.Fatalf("role = %q", a.role)
	}
	if a.inputs[fieldCourse].Label != "Department" {
		t.Errorf("label = %q", a.inputs[fieldCourse].Label)
	}
}
