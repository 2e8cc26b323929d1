package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lennai/lennai/internal/store"
)

type fakeEventRepo struct {
	store.EventRepo

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"topicTitle":"Heparin"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, "gemini", repo)

	ctx := WithPurpose(context.Background(), "tutor-reply")
	_, err := p.Generate(ctx, Request{
		System: "You are Lennai.",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Question: Heparin",
			Attachments: []Attachment{{Name: "notes.pdf", MIMEType: "application/pdf", Data: make([]byte, 42)}},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != "gemini" || e.Model != "mock" || e.Purpose != "tutor-reply" {
		t.Errorf("unexpected event identity: %+v", e)
	}
	if !e.Success || e.InputTokens != 12 || e.OutputTokens != 34 {
		t.Errorf("unexpected event usage: %+v", e)
	}
	if !strings.Contains(e.RequestBody, "[attachment: notes.pdf application/pdf, 42 bytes]") {
		t.Errorf("request body missing attachment summary:\n%s", e.RequestBody)
	}
	if e.ResponseBody != `{"topicTitle":"Heparin"}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRepoError(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, "gemini", repo)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", repo.events)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", repo.events[0].Purpose)
	}
}

func TestImageLogging_RecordsImageRequests(t *testing.T) {
	repo := &fakeEventRepo{}
	gen := &MockImageGenerator{Image: &Image{MIMEType: "image/png", Data: []byte{1, 2}}}
	g := WithImageLogging(gen, "gemini", repo)

	img, err := g.GenerateImage(WithPurpose(context.Background(), "visual"), ImageRequest{Prompt: "heart", AspectRatio: "1:1"})
	if err != nil || img == nil {
		t.Fatalf("GenerateImage = %v, %v", img, err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	if repo.events[0].Model != "mock-image" || repo.events[0].ResponseBody != "[image/png, 2 bytes]" {
		t.Errorf("unexpected event %+v", repo.events[0])
	}
}
