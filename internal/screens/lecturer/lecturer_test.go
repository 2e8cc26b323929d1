package lecturer

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/content/contenttest"
)

type stubGenerator struct {
	calls []string
	err   error
}

func (s *stubGenerator) GenerateLecturerNotes(_ context.Context, topic string, depth content.Depth) (*content.LecturerNotes, error) {
	s.calls = append(s.calls, "notes:"+string(depth)+":"+topic)
	if s.err != nil {
		return nil, s.err
	}
	return &content.LecturerNotes{
		Title:          topic,
		Content:        "Burns are classified by depth.",
		Depth:          depth,
		KeyConcepts:    []string{"Rule of nines"},
		ClinicalPearls: []string{"Parkland formula guides fluids"},
	}, nil
}

func (s *stubGenerator) GenerateLessonPlan(_ context.Context, topic string) (*content.LessonPlan, error) {
	s.calls = append(s.calls, "plan:"+topic)
	return &content.LessonPlan{
		Title:      topic,
		Duration:   "60 minutes",
		Objectives: []string{"Estimate burn area"},
		Structure:  []content.LessonSegment{{Time: "0-10", Activity: "Warm-up quiz", Method: "Think-pair-share"}},
	}, nil
}

func (s *stubGenerator) GenerateQuestionBank(_ context.Context, topic string) (*content.QuestionBank, error) {
	s.calls = append(s.calls, "bank:"+topic)
	return &content.QuestionBank{
		Topic:        topic,
		MCQs:         contenttest.Questions(2, 0),
		ShortAnswers: []content.ShortAnswer{{Question: "Define eschar", Answer: "Dead burned tissue"}},
		CaseStudies:  []content.CaseStudy{{Scenario: "A 40% TBSA burn", Questions: []string{"First priority?"}, Answers: []string{"Airway"}}},
	}, nil
}

func key(h *HubScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

// use picks the tool at index i and generates for topic.
func use(t *testing.T, h *HubScreen, i int, topic string) {
	t.Helper()
	for range i {
		key(h, tea.KeyDown)
	}
	cmd := key(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected tool selection")
	}
	h.Update(cmd())
	if h.phase != phaseTopic {
		t.Fatalf("phase = %d, want topic", h.phase)
	}
	h.input.SetValue(topic)
	cmd = key(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected generate command")
	}
	h.Update(cmd())
}

func TestSummaryNotes(t *testing.T) {
	gen := &stubGenerator{}
	h := New(gen)
	use(t, h, 0, "Burns")

	if len(gen.calls) != 1 || gen.calls[0] != "notes:summary:Burns" {
		t.Errorf("calls = %v", gen.calls)
	}
	if h.phase != phaseResult {
		t.Fatalf("phase = %d, want result", h.phase)
	}
	v := h.View(100, 60)
	if !strings.Contains(v, "Rule of nines") || !strings.Contains(v, "Parkland formula") {
		t.Error("notes sections missing")
	}
}

func TestDetailedNotes(t *testing.T) {
	gen := &stubGenerator{}
	use(t, New(gen), 1, "Burns")
	if gen.calls[0] != "notes:detailed:Burns" {
		t.Errorf("calls = %v", gen.calls)
	}
}

func TestLessonPlan(t *testing.T) {
	h := New(&stubGenerator{})
	use(t, h, 2, "Burns")
	if h.Title() != "Lecturer Hub · Lesson plan" {
		t.Errorf("Title() = %q", h.Title())
	}
	if !strings.Contains(h.View(100, 60), "Warm-up quiz") {
		t.Error("lesson structure missing")
	}
}

func TestQuestionBank(t *testing.T) {
	h := New(&stubGenerator{})
	use(t, h, 3, "Burns")
	v := h.View(100, 80)
	for _, want := range []string{"Multiple choice (2)", "Define eschar", "Case 1: A 40% TBSA burn"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFailureReturnsToTopic(t *testing.T) {
	h := New(&stubGenerator{err: errors.New("provider down")})
	use(t, h, 0, "Burns")

	if h.phase != phaseTopic {
		t.Errorf("phase = %d, want topic", h.phase)
	}
	if !strings.Contains(h.View(100, 60), "provider down") {
		t.Error("error missing")
	}
}

func TestEscReturnsToTools(t *testing.T) {
	h := New(&stubGenerator{})
	if h.CapturingInput() {
		t.Error("tool list should let Esc leave the screen")
	}
	use(t, h, 0, "Burns")
	if !h.CapturingInput() {
		t.Error("result view should capture Esc")
	}
	key(h, tea.KeyEscape)
	if h.phase != phasePick || h.Title() != "Lecturer Hub" {
		t.Errorf("phase = %d, Title() = %q", h.phase, h.Title())
	}
}

func TestScrolled(t *testing.T) {
	s := "a\nb\nc\nd"
	if got := scrolled(s, 1, 2); got != "b\nc" {
		t.Errorf("scrolled = %q", got)
	}
	if got := scrolled(s, 10, 2); got != "c\nd" {
		t.Errorf("scrolled past end = %q", got)
	}
}
