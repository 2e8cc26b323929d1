package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lennai/lennai/internal/store"
)

// Local is a Service backed by the sqlite user table.
type Local struct {
	users store.UserRepo
	cost  int
}

// LocalOption configures a Local service.
type LocalOption func(*Local)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) LocalOption {
	return func(l *Local) { l.cost = cost }
}

// NewLocal creates a Local service over users.
func NewLocal(users store.UserRepo, opts ...LocalOption) *Local {
	l := &Local{users: users, cost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Local) Register(ctx context.Context, in RegisterInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), l.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = l.users.CreateUser(ctx, store.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         string(in.Role),
		School:       in.School,
		Course:       in.Course,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return &AuthError{Kind: KindDuplicate}
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (l *Local) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &AuthError{Kind: KindInvalidCredentials}
	}
	u, err := l.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if u == nil {
		return nil, &AuthError{Kind: KindInvalidCredentials}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, &AuthError{Kind: KindInvalidCredentials}
	}
	if err := l.users.SaveAuthState(ctx, store.AuthState{UserID: u.ID, Email: u.Email}); err != nil {
		return nil, fmt.Errorf("save sign-in: %w", err)
	}
	return fromStore(u), nil
}

func (l *Local) ActiveUser(ctx context.Context) (*User, error) {
	st, err := l.users.LoadAuthState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sign-in: %w", err)
	}
	if st == nil {
		return nil, nil
	}
	u, err := l.users.UserByID(ctx, st.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	return fromStore(u), nil
}

func (l *Local) Logout(ctx context.Context) error {
	return l.users.ClearAuthState(ctx)
}

func fromStore(u *store.User) *User {
	return &User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      Role(u.Role),
		School:    u.School,
		Course:    u.Course,
		CreatedAt: u.CreatedAt,
	}
}
