package quiz_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/content/contenttest"
	"github.com/lennai/lennai/internal/quiz"
	"github.com/lennai/lennai/internal/store"
)

func TestPoolFromSessions(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo := st.SessionRepo()
	ctx := context.Background()

	older, err := repo.CreateSession(ctx, "u1", "older")
	require.NoError(t, err)
	for _, topic := range []string{"Heparin", "Warfarin"} {
		_, err := repo.AppendMessage(ctx, store.NewChatMessage{
			SessionID: older.ID, UserID: "u1", Sender: store.SenderTutor, Content: topic,
			Metadata: contenttest.StructuredContentJSON(topic, content.SubjectPharmacology),
		})
		require.NoError(t, err)
	}

	newer, err := repo.CreateSession(ctx, "u1", "newer")
	require.NoError(t, err)
	_, err = repo.AppendMessage(ctx, store.NewChatMessage{SessionID: newer.ID, UserID: "u1", Sender: store.SenderUser, Content: "q"})
	require.NoError(t, err)
	_, err = repo.AppendMessage(ctx, store.NewChatMessage{
		SessionID: newer.ID, UserID: "u1", Sender: store.SenderTutor, Content: "heparin",
		Metadata: []byte(`{"topicTitle":"heparin","subject":"Cardiology"}`),
	})
	require.NoError(t, err)

	pool, err := quiz.PoolFromSessions(ctx, repo, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []quiz.Topic{
		{Topic: "heparin", Subject: content.SubjectOther},
		{Topic: "Warfarin", Subject: content.SubjectPharmacology},
	}, pool)

	limited, err := quiz.PoolFromSessions(ctx, repo, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	empty, err := quiz.PoolFromSessions(ctx, repo, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
