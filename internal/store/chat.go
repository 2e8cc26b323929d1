package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sessionRepo implements SessionRepo on SQLite.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *sessionRepo) CreateSession(ctx context.Context, userID, title string) (*ChatSession, error) {
	sess := &ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	query, args := sqlite.Insert(chatSessionsTable.Name).
		Columns("id", "user_id", "title", "subject", "created_at").
		Values(sess.ID, sess.UserID, sess.Title, sess.Subject, sess.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert chat session: %w", err)
	}
	return sess, nil
}

func (r *sessionRepo) ListSessions(ctx context.Context, userID string) ([]ChatSession, error) {
	query, args := sqlite.Select("id", "user_id", "title", "subject", "created_at").
		From(entsql.Table(chatSessionsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	var out []ChatSession
	for rows.Next() {
		var s ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Subject, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionRepo) AppendMessage(ctx context.Context, msg NewChatMessage) (*ChatMessage, error) {
	if msg.Sender != SenderUser && msg.Sender != SenderTutor {
		return nil, fmt.Errorf("invalid sender %q", msg.Sender)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	out := &ChatMessage{
		ID:        uuid.NewString(),
		SessionID: msg.SessionID,
		UserID:    msg.UserID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		Sequence:  seqNum,
		CreatedAt: time.Now().UTC(),
	}

	var metadata any
	if len(msg.Metadata) > 0 {
		metadata = []byte(msg.Metadata)
	}

	query, args := sqlite.Insert(chatMessagesTable.Name).
		Columns("id", "sequence", "user_id", "sender", "content", "metadata", "created_at", "session_id").
		Values(out.ID, out.Sequence, out.UserID, out.Sender, out.Content, metadata, out.CreatedAt, out.SessionID).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) GetHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	query, args := sqlite.Select("id", "session_id", "user_id", "sender", "content", "metadata", "sequence", "created_at").
		From(entsql.Table(chatMessagesTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var (
			m        ChatMessage
			metadata []byte
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Sender, &m.Content, &metadata, &m.Sequence, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if len(metadata) > 0 {
			m.Metadata = json.RawMessage(metadata)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
