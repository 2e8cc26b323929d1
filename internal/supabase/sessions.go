package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lennai/lennai/internal/store"
)

// The hosted schema names the tutor sender "ai".
const remoteSenderTutor = "ai"

type sessionRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Subject   *string   `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

func (r sessionRow) session() store.ChatSession {
	s := store.ChatSession{ID: r.ID, UserID: r.UserID, Title: r.Title, CreatedAt: r.CreatedAt}
	if r.Subject != nil {
		s.Subject = *r.Subject
	}
	return s
}

type messageRow struct {
	ID        string          `json:"id,omitempty"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Message   string          `json:"message"`
	Sender    string          `json:"sender"`
	Metadata  json.RawMessage `json:"metadata"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

func (r messageRow) message(seq int64) store.ChatMessage {
	m := store.ChatMessage{
		ID:        r.ID,
		SessionID: r.SessionID,
		UserID:    r.UserID,
		Sender:    localSender(r.Sender),
		Content:   r.Message,
		Metadata:  emptyToNil(r.Metadata),
		Sequence:  seq,
	}
	if r.Timestamp != nil {
		m.CreatedAt = *r.Timestamp
	}
	return m
}

func remoteSender(s string) string {
	if s == store.SenderTutor {
		return remoteSenderTutor
	}
	return s
}

func localSender(s string) string {
	if s == remoteSenderTutor {
		return store.SenderTutor
	}
	return s
}

// emptyToNil drops the "{}" and null placeholders the table defaults to.
func emptyToNil(raw json.RawMessage) json.RawMessage {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("{}")) || bytes.Equal(t, []byte("null")) {
		return nil
	}
	return raw
}

// CreateSession inserts a chat_sessions row.
func (c *Client) CreateSession(ctx context.Context, userID, title string) (*store.ChatSession, error) {
	var rows []sessionRow
	resp, err := c.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(map[string]any{"user_id": userID, "title": title}).
		SetResult(&rows).
		Post("/rest/v1/chat_sessions")
	if err := check("create session", resp, err); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase create session: empty response")
	}
	s := rows[0].session()
	return &s, nil
}

// ListSessions returns the user's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]store.ChatSession, error) {
	var rows []sessionRow
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"user_id": "eq." + userID,
			"select":  "*",
			"order":   "created_at.desc",
		}).
		SetResult(&rows).
		Get("/rest/v1/chat_sessions")
	if err := check("list sessions", resp, err); err != nil {
		return nil, err
	}
	out := make([]store.ChatSession, len(rows))
	for i, r := range rows {
		out[i] = r.session()
	}
	return out, nil
}

// AppendMessage inserts a chat_messages row.
func (c *Client) AppendMessage(ctx context.Context, msg store.NewChatMessage) (*store.ChatMessage, error) {
	if msg.Sender != store.SenderUser && msg.Sender != store.SenderTutor {
		return nil, fmt.Errorf("invalid sender %q", msg.Sender)
	}
	meta := msg.Metadata
	if len(meta) == 0 {
		meta = json.RawMessage("{}")
	}
	var rows []messageRow
	resp, err := c.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(messageRow{
			SessionID: msg.SessionID,
			UserID:    msg.UserID,
			Message:   msg.Content,
			Sender:    remoteSender(msg.Sender),
			Metadata:  meta,
		}).
		SetResult(&rows).
		Post("/rest/v1/chat_messages")
	if err := check("append message", resp, err); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &store.ChatMessage{
			SessionID: msg.SessionID,
			UserID:    msg.UserID,
			Sender:    msg.Sender,
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			CreatedAt: c.now().UTC(),
		}, nil
	}
	m := rows[0].message(0)
	return &m, nil
}

// GetHistory returns a session's messages, oldest first.
func (c *Client) GetHistory(ctx context.Context, sessionID string) ([]store.ChatMessage, error) {
	var rows []messageRow
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"session_id": "eq." + sessionID,
			"select":     "*",
			"order":      "timestamp.asc",
		}).
		SetResult(&rows).
		Get("/rest/v1/chat_messages")
	if err := check("get history", resp, err); err != nil {
		return nil, err
	}
	out := make([]store.ChatMessage, len(rows))
	for i, r := range rows {
		out[i] = r.message(int64(i + 1))
	}
	return out, nil
}

var _ store.SessionRepo = (*Client)(nil)
