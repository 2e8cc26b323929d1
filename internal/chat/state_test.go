package chat

import (
	"testing"

	"github.com/lennai/lennai/internal/content"
)

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Explain Starling forces", "Explain Starling forces"},
		{"  padded  ", "padded"},
		{"What are the nursing considerations for a patient on heparin therapy?", "What are the nursing considerations for "},
		{"Ödem und Ödem und Ödem und Ödem und Ödem und Ödem", "Ödem und Ödem und Ödem und Ödem und Ödem"},
	}
	for _, tt := range tests {
		if got := SessionTitle(tt.in); got != tt.want {
			t.Errorf("SessionTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBeginTurn_Preconditions(t *testing.T) {
	s := NewState()
	if _, err := BeginTurn(s, "   ", Message{ID: "u1"}); err != ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	if _, err := BeginTurn(s, "hello", Message{ID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := BeginTurn(s, "again", Message{ID: "u2"}); err != ErrBusy {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if len(s.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(s.Messages))
	}
}

func TestHistoryWindow_ExcludesPendingAndPlaceholders(t *testing.T) {
	s := NewState()
	reply := &content.StructuredContent{SimpleExplanation: "answer"}

	for i, text := range []string{"one", "two", "three", "four"} {
		if _, err := BeginTurn(s, text, Message{ID: "u" + text}); err != nil {
			t.Fatal(err)
		}
		if i == 1 {
			FailTurn(s, Message{ID: "f" + text})
			continue
		}
		CompleteTurn(s, reply, nil, Message{ID: "t" + text})
	}

	if _, err := BeginTurn(s, "five", Message{ID: "ufive"}); err != nil {
		t.Fatal(err)
	}
	got := HistoryWindow(s, 5)
	want := []content.TurnSummary{
		{Role: content.RoleStudent, Content: "two"},
		{Role: content.RoleStudent, Content: "three"},
		{Role: content.RoleTutor, Content: "answer"},
		{Role: content.RoleStudent, Content: "four"},
		{Role: content.RoleTutor, Content: "answer"},
	}
	if len(got) != len(want) {
		t.Fatalf("window = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBeginTurn_RetryReusesUserMessage(t *testing.T) {
	s := NewState()
	if _, err := BeginTurn(s, "Explain preload", Message{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	FailTurn(s, Message{ID: "f1"})

	retry, err := BeginTurn(s, "Explain preload", Message{ID: "u2"})
	if err != nil {
		t.Fatal(err)
	}
	if !retry {
		t.Fatal("expected retry")
	}
	if len(s.Messages) != 1 || s.Messages[0].ID != "u1" {
		t.Fatalf("expected only the original user message, got %+v", s.Messages)
	}
	pending, ok := PendingMessage(s)
	if !ok || pending.ID != "u1" {
		t.Fatalf("pending = %+v, %v", pending, ok)
	}
}

func TestBeginTurn_DifferentTextAfterFailureIsNewTurn(t *testing.T) {
	s := NewState()
	BeginTurn(s, "first", Message{ID: "u1"})
	FailTurn(s, Message{ID: "f1"})

	retry, err := BeginTurn(s, "second", Message{ID: "u2"})
	if err != nil || retry {
		t.Fatalf("retry = %v, err = %v", retry, err)
	}
	if len(s.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(s.Messages))
	}
}

func TestSetView(t *testing.T) {
	s := NewState()
	BeginTurn(s, "q", Message{ID: "u1"})
	CompleteTurn(s, &content.StructuredContent{}, nil, Message{ID: "t1"})

	if ViewOf(s, "t1") != ViewOverview {
		t.Fatalf("default view = %q", ViewOf(s, "t1"))
	}
	if err := SetView(s, "t1", ViewFlashcards); err != nil {
		t.Fatal(err)
	}
	if ViewOf(s, "t1") != ViewFlashcards {
		t.Fatalf("view = %q", ViewOf(s, "t1"))
	}
	if err := SetView(s, "u1", ViewSlides); err != ErrNoPayload {
		t.Fatalf("expected ErrNoPayload, got %v", err)
	}
	if err := SetView(s, "missing", ViewSlides); err != ErrUnknownMessage {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestParseView(t *testing.T) {
	if v, ok := ParseView(" Slides "); !ok || v != ViewSlides {
		t.Fatalf("ParseView = %q, %v", v, ok)
	}
	if _, ok := ParseView("diagram"); ok {
		t.Fatal("expected unknown view")
	}
}
