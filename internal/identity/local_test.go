package identity

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/lennai/lennai/internal/store"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewLocal(s.UserRepo(), WithBcryptCost(bcrypt.MinCost))
}

func validInput() RegisterInput {
	return RegisterInput{
		FullName:        "Ada Obi",
		Email:           "Ada@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            RoleLecturer,
		School:          "Lagos University Teaching Hospital",
		Course:          "Nursing",
	}
}

func TestLocal_RegisterLoginRestoreLogout(t *testing.T) {
	ctx := context.Background()
	l := newLocal(t)

	if err := l.Register(ctx, validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := l.ActiveUser(ctx)
	if err != nil || u != nil {
		t.Fatalf("ActiveUser before login = %v, %v; want nil, nil", u, err)
	}

	u, err = l.Login(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.FullName != "Ada Obi" || u.Role != RoleLecturer || u.Email != "ada@example.com" {
		t.Errorf("user = %+v", u)
	}
	if !u.IsLecturer() {
		t.Error("expected lecturer")
	}

	restored, err := l.ActiveUser(ctx)
	if err != nil {
		t.Fatalf("ActiveUser: %v", err)
	}
	if restored == nil || restored.ID != u.ID {
		t.Fatalf("restored = %+v, want id %s", restored, u.ID)
	}

	if err := l.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	restored, err = l.ActiveUser(ctx)
	if err != nil || restored != nil {
		t.Fatalf("ActiveUser after logout = %v, %v", restored, err)
	}
}

func TestLocal_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	l := newLocal(t)
	if err := l.Register(ctx, validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := l.Register(ctx, validInput())
	if !IsKind(err, KindDuplicate) {
		t.Fatalf("second Register = %v, want duplicate", err)
	}
}

func TestLocal_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	l := newLocal(t)
	if err := l.Register(ctx, validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "nope"},
		{"unknown email", "bob@example.com", "secret1"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Login(ctx, tt.email, tt.password)
			if !IsKind(err, KindInvalidCredentials) {
				t.Errorf("Login = %v, want invalid credentials", err)
			}
		})
	}
}

func TestRegisterInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   string
	}{
		{"password mismatch", func(in *RegisterInput) { in.ConfirmPassword = "other" }, "Passwords do not match"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "A valid email is required"},
		{"lecturer without department", func(in *RegisterInput) { in.Course = " " }, "Please select your department"},
		{"student without course", func(in *RegisterInput) { in.Course, in.Role = "", RoleStudent }, "Please select your course"},
		{"unknown role", func(in *RegisterInput) { in.Role = "admin" }, "Role must be student or lecturer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if !IsKind(err, KindInvalidInput) {
				t.Fatalf("Validate = %v, want invalid input", err)
			}
			if err.Error() != tt.want {
				t.Errorf("message = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRegisterInput_DefaultsToStudent(t *testing.T) {
	in := validInput()
	in.Role = ""
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Role != RoleStudent {
		t.Errorf("Role = %q, want student", in.Role)
	}
	if in.Email != "ada@example.com" {
		t.Errorf("Email = %q, want normalized", in.Email)
	}
}

func TestRequireLecturer(t *testing.T) {
	if err := RequireLecturer(nil); !IsKind(err, KindNotSignedIn) {
		t.Errorf("nil user: %v", err)
	}
	if err := RequireLecturer(&User{Role: RoleStudent}); !IsKind(err, KindForbidden) {
		t.Errorf("student: %v", err)
	}
	if err := RequireLecturer(&User{Role: RoleLecturer}); err != nil {
		t.Errorf("lecturer: %v", err)
	}
}

func TestAuthError_Messages(t *testing.T) {
	err := &AuthError{Kind: KindProfileNotProvisioned}
	if err.Error() != ProfileNotProvisionedMessage {
		t.Errorf("Error() = %q", err.Error())
	}
	err = &AuthError{Kind: KindInvalidCredentials, Message: "Email not confirmed"}
	if err.Error() != "Email not confirmed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
