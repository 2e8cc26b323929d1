package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/content/contenttest"
	"github.com/lennai/lennai/internal/router"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/store"
)

type noReplies struct{}

func (noReplies) GenerateTutorReply(context.Context, string, []content.TurnSummary) (*content.StructuredContent, error) {
	return nil, &content.GenerationError{Op: content.OpTutorReply}
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "chat" }
func (s *stubScreen) Title() string                           { return "Chat" }

func seed(t *testing.T) (store.SessionRepo, []string) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	repo := s.SessionRepo()
	var ids []string
	for _, title := range []string{"Renal physiology", "Cardiac cycle"} {
		sess, err := repo.CreateSession(ctx, "u1", title)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		ids = append(ids, sess.ID)
		if _, err := repo.AppendMessage(ctx, store.NewChatMessage{SessionID: sess.ID, UserID: "u1", Sender: store.SenderUser, Content: title + "?"}); err != nil {
			t.Fatalf("append: %v", err)
		}
		meta := json.RawMessage(contenttest.StructuredContentJSON(title, content.SubjectPhysiology))
		if _, err := repo.AppendMessage(ctx, store.NewChatMessage{SessionID: sess.ID, UserID: "u1", Sender: store.SenderTutor, Content: "answer", Metadata: meta}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return repo, ids
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("expected sessions to be loaded")
	}
}

func TestListsSessionsNewestFirst(t *testing.T) {
	repo, _ := seed(t)
	s := New(chat.NewOrchestrator(noReplies{}, repo, "u1"), func() screen.Screen { return &stubScreen{} })
	load(t, s)

	if len(s.sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(s.sessions))
	}
	if s.sessions[0].Title != "Cardiac cycle" {
		t.Errorf("first session = %q, want newest", s.sessions[0].Title)
	}
	if !strings.Contains(s.View(100, 30), "Renal physiology") {
		t.Error("view should list every session")
	}
}

func TestEnterRestoresSelectedSession(t *testing.T) {
	repo, ids := seed(t)
	orch := chat.NewOrchestrator(noReplies{}, repo, "u1")
	s := New(orch, func() screen.Screen { return &stubScreen{} })
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected restore command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected navigation after restore")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}

	if orch.SessionID() != ids[0] {
		t.Errorf("restored %q, want %q", orch.SessionID(), ids[0])
	}
	msgs := orch.Messages()
	if len(msgs) != 2 || msgs[1].Payload == nil {
		t.Fatalf("unexpected restored messages: %+v", msgs)
	}
	if orch.View(msgs[1].ID) != chat.ViewOverview {
		t.Error("restored replies start on the overview")
	}
}

func TestEmptyHistory(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	h := New(chat.NewOrchestrator(noReplies{}, s.SessionRepo(), "u1"), nil)
	load(t, h)
	if _, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(h.View(100, 30), "No sessions yet") {
		t.Error("expected empty-state message")
	}
}
