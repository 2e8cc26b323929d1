// Package auth is the sign-in and registration screen.
package auth

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Form field indexes. Login uses fieldEmail and fieldPassword only.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldRole
	fieldSchool
	fieldCourse
	fieldCount
)

type loginDoneMsg struct {
	User *identity.User
	Err  error
}

type registerDoneMsg struct {
	Email string
	Err   error
}

// AuthScreen collects credentials and signs the user in.
type AuthScreen struct {
	svc        identity.Service
	onSignedIn func(*identity.User) screen.Screen

	mode   Mode
	inputs [fieldCount]components.TextInput
	role   identity.Role
	focus  int
	busy   bool
	errMsg string
	notice string
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)
var _ screen.InputCapturer = (*AuthScreen)(nil)

// New creates an AuthScreen. onSignedIn builds the screen shown after a
// successful login.
func New(svc identity.Service, onSignedIn func(*identity.User) screen.Screen) *AuthScreen {
	a := &AuthScreen{
		svc:        svc,
		onSignedIn: onSignedIn,
		role:       identity.RoleStudent,
	}
	a.inputs[fieldName] = components.NewTextInput("Full name", "Ada Okafor", 80)
	a.inputs[fieldEmail] = components.NewTextInput("Email", "you@school.edu", 120)
	a.inputs[fieldPassword] = components.NewPasswordInput("Password")
	a.inputs[fieldConfirm] = components.NewPasswordInput("Confirm password")
	a.inputs[fieldSchool] = components.NewTextInput("School", "School of Nursing", 120)
	a.inputs[fieldCourse] = components.NewTextInput("Course", "BSc Nursing", 120)
	a.setMode(ModeLogin)
	return a
}

func (a *AuthScreen) Init() tea.Cmd {
	return nil
}

func (a *AuthScreen) Title() string {
	if a.mode == ModeRegister {
		return "Create Account"
	}
	return "Sign In"
}

func (a *AuthScreen) CapturingInput() bool {
	return true
}

func (a *AuthScreen) KeyHints() []layout.KeyHint {
	other := "Register"
	if a.mode == ModeRegister {
		other = "Sign in"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: other},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Mode returns the active form.
func (a *AuthScreen) Mode() Mode {
	return a.mode
}

func (a *AuthScreen) fields() []int {
	if a.mode == ModeLogin {
		return []int{fieldEmail, fieldPassword}
	}
	return []int{fieldName, fieldEmail, fieldPassword, fieldConfirm, fieldRole, fieldSchool, fieldCourse}
}

func (a *AuthScreen) setMode(m Mode) {
	a.mode = m
	a.errMsg = ""
	a.focus = 0
	a.refocus()
}

func (a *AuthScreen) refocus() tea.Cmd {
	var cmd tea.Cmd
	active := a.fields()[a.focus]
	for i := range a.inputs {
		if i == active {
			cmd = a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
	return cmd
}

func (a *AuthScreen) move(delta int) tea.Cmd {
	n := len(a.fields())
	a.focus = (a.focus + delta + n) % n
	return a.refocus()
}

func (a *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		a.busy = false
		if msg.Err != nil {
			a.errMsg = msg.Err.Error()
			return a, nil
		}
		next := a.onSignedIn(msg.User)
		return a, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }

	case registerDoneMsg:
		a.busy = false
		if msg.Err != nil {
			a.errMsg = msg.Err.Error()
			return a, nil
		}
		a.setMode(ModeLogin)
		a.inputs[fieldEmail].SetValue(msg.Email)
		a.inputs[fieldPassword].Reset()
		a.focus = 1
		a.notice = "Account created. Please sign in."
		return a, a.refocus()

	case tea.KeyMsg:
		if a.busy {
			return a, nil
		}
		switch msg.String() {
		case "ctrl+r":
			if a.mode == ModeLogin {
				a.setMode(ModeRegister)
			} else {
				a.setMode(ModeLogin)
			}
			a.notice = ""
			return a, a.refocus()
		case "tab", "down":
			return a, a.move(1)
		case "shift+tab", "up":
			return a, a.move(-1)
		case "enter":
			if a.focus < len(a.fields())-1 {
				return a, a.move(1)
			}
			return a, a.submit()
		}
		if a.fields()[a.focus] == fieldRole {
			switch msg.String() {
			case "left", "right", "space", "h", "l":
				a.toggleRole()
			}
			return a, nil
		}
	}

	active := a.fields()[a.focus]
	if active == fieldRole {
		return a, nil
	}
	var cmd tea.Cmd
	a.inputs[active], cmd = a.inputs[active].Update(msg)
	return a, cmd
}

func (a *AuthScreen) toggleRole() {
	if a.role == identity.RoleStudent {
		a.role = identity.RoleLecturer
		a.inputs[fieldCourse].Label = "Department"
	} else {
		a.role = identity.RoleStudent
		a.inputs[fieldCourse].Label = "Course"
	}
}

func (a *AuthScreen) submit() tea.Cmd {
	a.errMsg = ""
	a.notice = ""
	svc := a.svc

	if a.mode == ModeLogin {
		email := strings.TrimSpace(a.inputs[fieldEmail].Value())
		password := a.inputs[fieldPassword].Value()
		if email == "" || password == "" {
			a.errMsg = "Email and password are required"
			return nil
		}
		a.busy = true
		return func() tea.Msg {
			user, err := svc.Login(context.Background(), email, password)
			return loginDoneMsg{User: user, Err: err}
		}
	}

	in := identity.RegisterInput{
		FullName:        a.inputs[fieldName].Value(),
		Email:           a.inputs[fieldEmail].Value(),
		Password:        a.inputs[fieldPassword].Value(),
		ConfirmPassword: a.inputs[fieldConfirm].Value(),
		Role:            a.role,
		School:          a.inputs[fieldSchool].Value(),
		Course:          a.inputs[fieldCourse].Value(),
	}
	if err := in.Validate(); err != nil {
		a.errMsg = err.Error()
		return nil
	}
	a.busy = true
	return func() tea.Msg {
		err := svc.Register(context.Background(), in)
		return registerDoneMsg{Email: in.Email, Err: err}
	}
}

func (a *AuthScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	var parts []string
	parts = append(parts, theme.Heading.Render(a.Title()), "")
	for i, f := range a.fields() {
		if f == fieldRole {
			parts = append(parts, a.renderRole(i == a.focus), "")
			continue
		}
		parts = append(parts, a.inputs[f].View(), "")
	}

	switch {
	case a.busy:
		parts = append(parts, theme.Hint.Render("Please wait..."))
	case a.errMsg != "":
		parts = append(parts, theme.ErrorText.Width(cw).Render(a.errMsg))
	case a.notice != "":
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render(a.notice))
	}

	return components.Centered(components.Panel(strings.Join(parts, "\n"), cw), width, height)
}

func (a *AuthScreen) renderRole(focused bool) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if focused {
		label = label.Foreground(theme.Primary).Bold(true)
	}
	opt := func(r identity.Role) string {
		if a.role == r {
			return theme.Selected.Render("● " + string(r))
		}
		return theme.Unselected.Render("○ " + string(r))
	}
	return label.Render("I am a") + "\n" + opt(identity.RoleStudent) + "   " + opt(identity.RoleLecturer)
}
