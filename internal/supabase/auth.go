package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/store"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type profileRow struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	School    string    `json:"school"`
	Course    string    `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

func (p profileRow) user() *identity.User {
	role := identity.Role(p.Role)
	if role == "" {
		role = identity.RoleStudent
	}
	return &identity.User{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      role,
		School:    p.School,
		Course:    p.Course,
		CreatedAt: p.CreatedAt,
	}
}

// Register signs the account up. The profile row is created by a
// database trigger from the user metadata sent here.
func (c *Client) Register(ctx context.Context, in identity.RegisterInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data": map[string]string{
			"fullName": in.FullName,
			"role":     string(in.Role),
			"school":   in.School,
			"course":   in.Course,
		},
	}
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.anonKey).
		SetError(&apiError{}).
		SetBody(body).
		Post("/auth/v1/signup")
	if err := check("signup", resp, err); err != nil {
		return authError(err, identity.KindInvalidInput)
	}
	return nil
}

// Login exchanges credentials for a session and loads the profile.
func (c *Client) Login(ctx context.Context, email, password string) (*identity.User, error) {
	var tok tokenResponse
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.anonKey).
		SetError(&apiError{}).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": strings.TrimSpace(email), "password": password}).
		SetResult(&tok).
		Post("/auth/v1/token")
	if err := check("sign in", resp, err); err != nil {
		return nil, authError(err, identity.KindInvalidCredentials)
	}

	sess := &authSession{
		userID:       tok.User.ID,
		email:        tok.User.Email,
		accessToken:  tok.AccessToken,
		refreshToken: tok.RefreshToken,
	}
	c.setSession(sess)

	u, err := c.profile(ctx, sess.userID)
	if err != nil {
		slog.Warn("profile fetch failed", "user_id", sess.userID, "error", err)
		return nil, &identity.AuthError{Kind: identity.KindProfileNotProvisioned}
	}
	if u == nil {
		return nil, &identity.AuthError{Kind: identity.KindProfileNotProvisioned}
	}

	if c.tokens != nil {
		err := c.tokens.SaveAuthState(ctx, store.AuthState{
			UserID:       sess.userID,
			Email:        sess.email,
			AccessToken:  sess.accessToken,
			RefreshToken: sess.refreshToken,
		})
		if err != nil {
			return nil, fmt.Errorf("save sign-in: %w", err)
		}
	}
	return u, nil
}

// ActiveUser restores the remembered session, refreshing the access
// token once if it has expired.
func (c *Client) ActiveUser(ctx context.Context) (*identity.User, error) {
	sess := c.currentSession()
	if sess == nil && c.tokens != nil {
		st, err := c.tokens.LoadAuthState(ctx)
		if err != nil {
			return nil, fmt.Errorf("load sign-in: %w", err)
		}
		if st != nil && st.AccessToken != "" {
			sess = &authSession{
				userID:       st.UserID,
				email:        st.Email,
				accessToken:  st.AccessToken,
				refreshToken: st.RefreshToken,
			}
			c.setSession(sess)
		}
	}
	if sess == nil {
		return nil, nil
	}

	u, err := c.profile(ctx, sess.userID)
	var he *HTTPError
	if errors.As(err, &he) && he.Status == http.StatusUnauthorized && sess.refreshToken != "" {
		if rerr := c.refresh(ctx, sess.refreshToken); rerr != nil {
			slog.Warn("session refresh failed", "error", rerr)
			return nil, nil
		}
		u, err = c.profile(ctx, sess.userID)
	}
	if err != nil {
		slog.Warn("profile fetch failed", "user_id", sess.userID, "error", err)
		return nil, nil
	}
	return u, nil
}

func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	var tok tokenResponse
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.anonKey).
		SetError(&apiError{}).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&tok).
		Post("/auth/v1/token")
	if err := check("refresh", resp, err); err != nil {
		return err
	}
	sess := &authSession{
		userID:       tok.User.ID,
		email:        tok.User.Email,
		accessToken:  tok.AccessToken,
		refreshToken: tok.RefreshToken,
	}
	c.setSession(sess)
	if c.tokens == nil {
		return nil
	}
	return c.tokens.SaveAuthState(ctx, store.AuthState{
		UserID:       sess.userID,
		Email:        sess.email,
		AccessToken:  sess.accessToken,
		RefreshToken: sess.refreshToken,
	})
}

// Logout revokes the session remotely and forgets it locally. A failed
// revocation is logged, not returned.
func (c *Client) Logout(ctx context.Context) error {
	if c.currentSession() != nil {
		resp, err := c.request(ctx).Post("/auth/v1/logout")
		if err := check("sign out", resp, err); err != nil {
			slog.Warn("remote sign out failed", "error", err)
		}
	}
	c.setSession(nil)
	if c.tokens == nil {
		return nil
	}
	return c.tokens.ClearAuthState(ctx)
}

// profile returns the profile row for userID, or nil if it does not
// exist yet.
func (c *Client) profile(ctx context.Context, userID string) (*identity.User, error) {
	var rows []profileRow
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{"id": "eq." + userID, "select": "*"}).
		SetResult(&rows).
		Get("/rest/v1/profiles")
	if err := check("fetch profile", resp, err); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].user(), nil
}

// authError maps a 4xx GoTrue response to an identity.AuthError.
func authError(err error, fallback identity.Kind) error {
	var he *HTTPError
	if !errors.As(err, &he) || he.Status >= 500 {
		return err
	}
	kind := fallback
	msg := strings.ToLower(he.Message)
	switch {
	case he.Code == "user_already_exists" || strings.Contains(msg, "already registered"):
		kind = identity.KindDuplicate
	case he.Code == "invalid_credentials" || strings.Contains(msg, "invalid login credentials"):
		kind = identity.KindInvalidCredentials
	}
	return &identity.AuthError{Kind: kind, Message: he.Message}
}

var _ identity.Service = (*Client)(nil)
