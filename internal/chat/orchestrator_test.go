package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/content/contenttest"
	"github.com/lennai/lennai/internal/llm"
	"github.com/lennai/lennai/internal/store"
)

// memorySessions is an in-memory SessionRepo with failure injection.
type memorySessions struct {
	mu         sync.Mutex
	sessions   []store.ChatSession
	messages   []store.ChatMessage
	createErr  error
	appendErr  error
	historyErr error
}

func (m *memorySessions) CreateSession(_ context.Context, userID, title string) (*store.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	s := store.ChatSession{ID: "s" + string(rune('0'+len(m.sessions))), UserID: userID, Title: title}
	m.sessions = append(m.sessions, s)
	return &s, nil
}

func (m *memorySessions) ListSessions(_ context.Context, userID string) ([]store.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.ChatSession
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].UserID == userID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

func (m *memorySessions) AppendMessage(_ context.Context, msg store.NewChatMessage) (*store.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	out := store.ChatMessage{
		ID:        "m" + string(rune('a'+len(m.messages))),
		SessionID: msg.SessionID,
		UserID:    msg.UserID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		Sequence:  int64(len(m.messages) + 1),
	}
	m.messages = append(m.messages, out)
	return &out, nil
}

func (m *memorySessions) GetHistory(_ context.Context, sessionID string) ([]store.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	var out []store.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func newOrchestrator(mock *llm.MockProvider, sessions store.SessionRepo) *chat.Orchestrator {
	gw := content.New(mock, nil, content.DefaultConfig())
	return chat.NewOrchestrator(gw, sessions, "user-1")
}

func TestSend_FirstMessageCreatesSession(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: contenttest.StructuredContentJSON("Starling forces", content.SubjectPhysiology),
	})
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)

	turn, err := o.Send(context.Background(), "Explain Starling forces")
	require.NoError(t, err)
	require.NoError(t, turn.Err)
	assert.Empty(t, turn.Warnings)

	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, "Explain Starling forces", sessions.sessions[0].Title)
	assert.Equal(t, sessions.sessions[0].ID, o.SessionID())

	// Empty history window on the first turn.
	assert.Equal(t, "Question: Explain Starling forces", mock.Calls[0].Messages[0].Content)

	require.Len(t, sessions.messages, 2)
	assert.Equal(t, store.SenderUser, sessions.messages[0].Sender)
	assert.Empty(t, sessions.messages[0].Metadata)
	assert.Equal(t, store.SenderTutor, sessions.messages[1].Sender)
	assert.Equal(t, "Starling forces explained simply.", sessions.messages[1].Content)

	var stored content.StructuredContent
	require.NoError(t, json.Unmarshal(sessions.messages[1].Metadata, &stored))
	assert.Equal(t, "Starling forces", stored.TopicTitle)
	assert.Len(t, stored.PracticeQuestions, 2)

	msgs := o.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.ViewOverview, o.View(msgs[1].ID))
	assert.NotNil(t, msgs[1].Payload)
}

func TestSend_SessionIsSticky(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: contenttest.StructuredContentJSON("Preload", content.SubjectPhysiology)},
		llm.MockResponse{Content: contenttest.StructuredContentJSON("Afterload", content.SubjectPhysiology)},
	)
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)

	_, err := o.Send(context.Background(), "What is preload?")
	require.NoError(t, err)
	_, err = o.Send(context.Background(), "And afterload?")
	require.NoError(t, err)

	assert.Len(t, sessions.sessions, 1)
	assert.Equal(t,
		"Student: What is preload?\nTutor: Preload explained simply.\nQuestion: And afterload?",
		mock.Calls[1].Messages[0].Content)
}

func TestSend_GenerationFailureNotPersisted(t *testing.T) {
	sc := contenttest.StructuredContent("Heparin", content.SubjectPharmacology)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(contenttest.JSON(sc), &payload))
	delete(payload, "practiceQuestions")

	mock := llm.NewMockProvider(llm.MockResponse{Content: contenttest.JSON(payload)})
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)

	turn, err := o.Send(context.Background(), "Heparin")
	require.NoError(t, err)

	var genErr *content.GenerationError
	require.ErrorAs(t, turn.Err, &genErr)
	assert.True(t, chat.IsGenerationError(turn.Err))
	assert.True(t, turn.Reply.Failed)
	assert.Equal(t, chat.ErrorPlaceholder, turn.Reply.Content)

	require.Len(t, sessions.messages, 1)
	assert.Equal(t, store.SenderUser, sessions.messages[0].Sender)

	msgs := o.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Heparin", msgs[0].Content)
	assert.True(t, msgs[1].Failed)
	assert.False(t, o.Busy())
}

func TestSend_RetryDoesNotDuplicateUserMessage(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: contenttest.StructuredContentJSON("Heparin", content.SubjectPharmacology)},
	)
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)

	first, err := o.Send(context.Background(), "Heparin antidote")
	require.NoError(t, err)
	require.Error(t, first.Err)

	second, err := o.Send(context.Background(), "Heparin antidote")
	require.NoError(t, err)
	require.NoError(t, second.Err)
	assert.True(t, second.Retried)
	assert.Equal(t, first.User.ID, second.User.ID)

	msgs := o.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, chat.RoleTutor, msgs[1].Role)
	assert.False(t, msgs[1].Failed)

	require.Len(t, sessions.messages, 2)
	assert.Equal(t, store.SenderUser, sessions.messages[0].Sender)
	assert.Equal(t, store.SenderTutor, sessions.messages[1].Sender)

	// The failed question is the current one, not history.
	assert.Equal(t, "Question: Heparin antidote", mock.Calls[1].Messages[0].Content)
}

func TestSend_PersistenceFailureIsNonFatal(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: contenttest.StructuredContentJSON("Sepsis", content.SubjectMedSurg),
	})
	sessions := &memorySessions{appendErr: errors.New("disk full")}
	o := newOrchestrator(mock, sessions)

	turn, err := o.Send(context.Background(), "Sepsis bundle")
	require.NoError(t, err)
	require.NoError(t, turn.Err)
	require.Len(t, turn.Warnings, 2)

	var perr *chat.PersistenceError
	require.ErrorAs(t, turn.Warnings[0], &perr)
	assert.Equal(t, "append user message", perr.Op)
	require.ErrorAs(t, turn.Warnings[1], &perr)
	assert.Equal(t, "append tutor message", perr.Op)

	assert.Len(t, o.Messages(), 2)
}

func TestSend_SessionCreateFailureAbortsTurn(t *testing.T) {
	mock := llm.NewMockProvider()
	sessions := &memorySessions{createErr: errors.New("offline")}
	o := newOrchestrator(mock, sessions)

	_, err := o.Send(context.Background(), "Heparin")
	var perr *chat.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, mock.CallCount())
	assert.Empty(t, o.Messages())
	assert.Empty(t, o.SessionID())
	assert.False(t, o.Busy())
}

func TestSend_EmptyMessage(t *testing.T) {
	o := newOrchestrator(llm.NewMockProvider(), &memorySessions{})
	_, err := o.Send(context.Background(), "  ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}

// blockingGenerator holds the reply until release is closed.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	reply   *content.StructuredContent
}

func (g *blockingGenerator) GenerateTutorReply(context.Context, string, []content.TurnSummary) (*content.StructuredContent, error) {
	close(g.started)
	<-g.release
	return g.reply, nil
}

func TestSend_BusyWhileInFlight(t *testing.T) {
	sc := contenttest.StructuredContent("Insulin", content.SubjectPharmacology)
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{}), reply: &sc}
	o := chat.NewOrchestrator(gen, &memorySessions{}, "user-1")

	done := make(chan error, 1)
	go func() {
		_, err := o.Send(context.Background(), "Insulin types")
		done <- err
	}()

	<-gen.started
	assert.True(t, o.Busy())
	_, err := o.Send(context.Background(), "Another question")
	assert.ErrorIs(t, err, chat.ErrBusy)

	close(gen.release)
	require.NoError(t, <-done)
	assert.False(t, o.Busy())
	assert.Len(t, o.Messages(), 2)
}

// gatedSessions blocks CreateSession until release is closed.
type gatedSessions struct {
	*memorySessions
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSessions) CreateSession(ctx context.Context, userID, title string) (*store.ChatSession, error) {
	close(g.entered)
	<-g.release
	return g.memorySessions.CreateSession(ctx, userID, title)
}

func TestSend_PendingCreateDoesNotReleaseRestoredTurn(t *testing.T) {
	stored := &memorySessions{
		sessions: []store.ChatSession{{ID: "old", UserID: "user-1", Title: "Shock"}},
		messages: []store.ChatMessage{{ID: "m1", SessionID: "old", UserID: "user-1", Sender: store.SenderUser, Content: "Shock?"}},
	}
	sessions := &gatedSessions{memorySessions: stored, entered: make(chan struct{}), release: make(chan struct{})}
	sc := contenttest.StructuredContent("Shock", content.SubjectMedSurg)
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{}), reply: &sc}
	o := chat.NewOrchestrator(gen, sessions, "user-1")

	first := make(chan *chat.Turn, 1)
	go func() {
		turn, _ := o.Send(context.Background(), "Explain sepsis")
		first <- turn
	}()
	<-sessions.entered

	require.NoError(t, o.Restore(context.Background(), "old"))
	second := make(chan error, 1)
	go func() {
		_, err := o.Send(context.Background(), "Stages of shock")
		second <- err
	}()
	<-gen.started

	close(sessions.release)
	turn := <-first
	require.NotNil(t, turn)
	assert.True(t, turn.Discarded)

	assert.True(t, o.Busy())
	_, err := o.Send(context.Background(), "Another question")
	assert.ErrorIs(t, err, chat.ErrBusy)

	close(gen.release)
	require.NoError(t, <-second)
	assert.False(t, o.Busy())
	assert.Equal(t, "old", o.SessionID())
	assert.Len(t, o.Messages(), 3)
}

func TestNewSession_DiscardsInFlightReply(t *testing.T) {
	sc := contenttest.StructuredContent("Insulin", content.SubjectPharmacology)
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{}), reply: &sc}
	sessions := &memorySessions{}
	o := chat.NewOrchestrator(gen, sessions, "user-1")

	done := make(chan *chat.Turn, 1)
	go func() {
		turn, _ := o.Send(context.Background(), "Insulin types")
		done <- turn
	}()

	<-gen.started
	o.NewSession()
	close(gen.release)

	turn := <-done
	require.NotNil(t, turn)
	assert.True(t, turn.Discarded)
	assert.Empty(t, o.Messages())
	assert.Empty(t, o.SessionID())
	assert.Len(t, sessions.messages, 1)
}

func TestRestore_ResetsViews(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: contenttest.StructuredContentJSON("Edema", content.SubjectPhysiology),
	})
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)

	turn, err := o.Send(context.Background(), "Why does edema form?")
	require.NoError(t, err)
	require.NoError(t, o.SetView(turn.Reply.ID, chat.ViewSlides))
	sessionID := o.SessionID()

	o.NewSession()
	require.NoError(t, o.Restore(context.Background(), sessionID))

	msgs := o.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Why does edema form?", o.Title())
	assert.Equal(t, chat.ViewOverview, o.View(msgs[1].ID))
	require.NotNil(t, msgs[1].Payload)
	assert.Equal(t, "Edema", msgs[1].Payload.TopicTitle)
}

func TestRestore_FailureKeepsState(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: contenttest.StructuredContentJSON("Edema", content.SubjectPhysiology),
	})
	sessions := &memorySessions{}
	o := newOrchestrator(mock, sessions)
	_, err := o.Send(context.Background(), "Edema")
	require.NoError(t, err)

	sessions.historyErr = errors.New("timeout")
	err = o.Restore(context.Background(), "other")
	var perr *chat.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, o.Messages(), 2)
}

func TestRestoreState_KeepsUnknownMetadata(t *testing.T) {
	meta := json.RawMessage(`{"topicTitle":"Shock","simpleExplanation":"x","futureField":{"a":1}}`)
	state := chat.RestoreState("s1", "Shock", []store.ChatMessage{
		{ID: "1", Sender: store.SenderUser, Content: "Shock?"},
		{ID: "2", Sender: store.SenderTutor, Content: "x", Metadata: meta},
		{ID: "3", Sender: store.SenderTutor, Content: "legacy"},
	})

	require.Len(t, state.Messages, 3)
	assert.Equal(t, chat.PhaseActive, state.Phase())
	assert.JSONEq(t, string(meta), string(state.Messages[1].Metadata))
	require.NotNil(t, state.Messages[1].Payload)
	assert.Equal(t, "Shock", state.Messages[1].Payload.TopicTitle)
	assert.False(t, state.Messages[1].Failed)
	assert.Nil(t, state.Messages[2].Payload)
	assert.True(t, state.Messages[2].Failed)
	assert.Equal(t, chat.ViewOverview, chat.ViewOf(state, "3"))
}

func TestRestoreState_UnreadableMetadataIsPlaceholder(t *testing.T) {
	state := chat.RestoreState("s1", "Shock", []store.ChatMessage{
		{ID: "1", Sender: store.SenderUser, Content: "Shock?"},
		{ID: "2", Sender: store.SenderTutor, Content: "x", Metadata: json.RawMessage(`{"topicTitle":`)},
	})

	require.Len(t, state.Messages, 2)
	tutor := state.Messages[1]
	assert.Nil(t, tutor.Payload)
	assert.True(t, tutor.Failed)
	assert.Equal(t, `{"topicTitle":`, string(tutor.Metadata))
}

func TestRoundTripThroughSQLiteStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: contenttest.StructuredContentJSON("Preload", content.SubjectPhysiology)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: contenttest.StructuredContentJSON("Afterload", content.SubjectPhysiology)},
	)
	o := newOrchestrator(mock, st.SessionRepo())

	for _, q := range []string{"What is preload?", "And afterload?", "And afterload?"} {
		_, err := o.Send(context.Background(), q)
		require.NoError(t, err)
	}
	live := o.Messages()
	sessionID := o.SessionID()

	restored := newOrchestrator(llm.NewMockProvider(), st.SessionRepo())
	require.NoError(t, restored.Restore(context.Background(), sessionID))
	got := restored.Messages()

	require.Len(t, got, len(live))
	for i := range live {
		assert.Equal(t, live[i].Role, got[i].Role, "role %d", i)
		assert.Equal(t, live[i].Content, got[i].Content, "content %d", i)
		if live[i].Payload != nil {
			require.NotNil(t, got[i].Payload, "payload %d", i)
			assert.Equal(t, *live[i].Payload, *got[i].Payload)
		}
	}

	sessions, err := restored.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "What is preload?", sessions[0].Title)
}
