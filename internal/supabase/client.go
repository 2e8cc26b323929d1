// Package supabase adapts a hosted Supabase project to the identity,
// session store and material upload contracts. It talks to the GoTrue,
// PostgREST and Storage HTTP APIs directly.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lennai/lennai/internal/store"
)

// ErrNotConfigured is returned by New when the project URL or anon key is
// missing.
var ErrNotConfigured = errors.New("supabase url and anon key are required")

// TokenStore remembers the signed-in session between runs.
// store.UserRepo satisfies it.
type TokenStore interface {
	SaveAuthState(ctx context.Context, st store.AuthState) error
	LoadAuthState(ctx context.Context) (*store.AuthState, error)
	ClearAuthState(ctx context.Context) error
}

// Config locates a Supabase project.
type Config struct {
	URL     string
	AnonKey string

	// Timeout bounds each HTTP request. Zero means 30 seconds.
	Timeout time.Duration
}

// Client is a Supabase project client. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	anonKey string
	tokens  TokenStore
	now     func() time.Time

	mu      sync.Mutex
	session *authSession
}

type authSession struct {
	userID       string
	email        string
	accessToken  string
	refreshToken string
}

// New creates a client. tokens may be nil, in which case sign-ins last
// for the life of the process.
func New(cfg Config, tokens TokenStore) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.URL, "/")
	h := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Accept", "application/json")
	return &Client{http: h, baseURL: base, anonKey: cfg.AnonKey, tokens: tokens, now: time.Now}, nil
}

// request starts a request authorized as the signed-in user, or as the
// anonymous role when nobody is signed in.
func (c *Client) request(ctx context.Context) *resty.Request {
	token := c.anonKey
	c.mu.Lock()
	if c.session != nil {
		token = c.session.accessToken
	}
	c.mu.Unlock()
	return c.http.R().SetContext(ctx).SetAuthToken(token).SetError(&apiError{})
}

func (c *Client) currentSession() *authSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(s *authSession) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// apiError covers the error bodies of GoTrue, PostgREST and Storage.
type apiError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorName        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorName} {
		if s != "" {
			return s
		}
	}
	return ""
}

// HTTPError is a non-2xx response from the project.
type HTTPError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("supabase %s: status %d: %s", e.Op, e.Status, e.Message)
}

// check converts a transport error or an error status into an error.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("supabase %s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	he := &HTTPError{Op: op, Status: resp.StatusCode()}
	if ae, ok := resp.Error().(*apiError); ok && ae != nil {
		he.Code = ae.ErrorCode
		he.Message = ae.text()
	}
	if he.Message == "" {
		he.Message = strings.TrimSpace(resp.String())
	}
	return he
}
