package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// authStateRow is the single row id of the auth_state table.
const authStateRow = 1

type userRepo struct {
	db *sql.DB
}

var userColumns = []string{"id", "email", "password_hash", "full_name", "role", "school", "course", "created_at"}

func (r *userRepo) CreateUser(ctx context.Context, u User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	query, args := sqlite.Insert(usersTable.Name).
		Columns(userColumns...).
		Values(u.ID, strings.ToLower(u.Email), u.PasswordHash, u.FullName, u.Role, u.School, u.Course, u.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) UserByEmail(ctx context.Context, email string) (*User, error) {
	return r.userWhere(ctx, entsql.EQ("email", strings.ToLower(email)))
}

func (r *userRepo) UserByID(ctx context.Context, id string) (*User, error) {
	return r.userWhere(ctx, entsql.EQ("id", id))
}

func (r *userRepo) userWhere(ctx context.Context, p *entsql.Predicate) (*User, error) {
	query, args := sqlite.Select(userColumns...).
		From(entsql.Table(usersTable.Name)).
		Where(p).
		Limit(1).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.School, &u.Course, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) SaveAuthState(ctx context.Context, st AuthState) error {
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}
	query, args := sqlite.Insert(authStateTable.Name).
		Columns("id", "user_id", "email", "access_token", "refresh_token", "updated_at").
		Values(authStateRow, st.UserID, st.Email, st.AccessToken, st.RefreshToken, st.UpdatedAt).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save auth state: %w", err)
	}
	return nil
}

func (r *userRepo) LoadAuthState(ctx context.Context) (*AuthState, error) {
	query, args := sqlite.Select("user_id", "email", "access_token", "refresh_token", "updated_at").
		From(entsql.Table(authStateTable.Name)).
		Where(entsql.EQ("id", authStateRow)).
		Query()

	var st AuthState
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&st.UserID, &st.Email, &st.AccessToken, &st.RefreshToken, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load auth state: %w", err)
	}
	return &st, nil
}

func (r *userRepo) ClearAuthState(ctx context.Context) error {
	query, args := sqlite.Delete(authStateTable.Name).
		Where(entsql.EQ("id", authStateRow)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear auth state: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
