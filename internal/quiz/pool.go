package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/store"
)

// storedTopic is the part of a tutor message's metadata the pool needs.
type storedTopic struct {
	TopicTitle string `json:"topicTitle"`
	Subject    string `json:"subject"`
}

// PoolFromSessions builds a topic pool from the topics of tutor replies in
// the user's stored sessions, most recent session first. Duplicate topics
// are kept once. limit bounds the pool size; 0 means no limit.
func PoolFromSessions(ctx context.Context, sessions store.SessionRepo, userID string, limit int) ([]Topic, error) {
	list, err := sessions.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var pool []Topic
	seen := make(map[string]bool)
	for _, sess := range list {
		msgs, err := sessions.GetHistory(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", sess.ID, err)
		}
		for i := len(msgs) - 1; i >= 0; i-- {
			m := msgs[i]
			if m.Sender != store.SenderTutor || len(m.Metadata) == 0 {
				continue
			}
			var t storedTopic
			if err := json.Unmarshal(m.Metadata, &t); err != nil {
				continue
			}
			title := strings.TrimSpace(t.TopicTitle)
			key := strings.ToLower(title)
			if title == "" || seen[key] {
				continue
			}
			seen[key] = true
			pool = append(pool, Topic{Topic: title, Subject: content.ParseSubject(t.Subject)})
			if limit > 0 && len(pool) >= limit {
				return pool, nil
			}
		}
	}
	return pool, nil
}
