package examguide

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/content"
)

type stubOutlines struct {
	topics []string
	err    error
}

func (s *stubOutlines) GenerateExamOutline(_ context.Context, topic string) (*content.ExamOutline, error) {
	s.topics = append(s.topics, topic)
	if s.err != nil {
		return nil, s.err
	}
	return &content.ExamOutline{
		Topic:         topic,
		Subject:       content.SubjectMedSurg,
		OutlinePoints: []string{"Define severe features", "Magnesium sulfate dosing"},
	}, nil
}

func enter(g *GuideScreen) tea.Cmd {
	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestBuildOutline(t *testing.T) {
	gen := &stubOutlines{}
	g := New(gen)
	g.input.SetValue("  Pre-eclampsia ")

	cmd := enter(g)
	if cmd == nil {
		t.Fatal("expected outline command")
	}
	if cmd := enter(g); cmd != nil {
		t.Error("second request should be blocked while busy")
	}
	g.Update(cmd())

	if len(gen.topics) != 1 || gen.topics[0] != "Pre-eclampsia" {
		t.Errorf("topics = %v", gen.topics)
	}
	v := g.View(100, 40)
	if !strings.Contains(v, "2. Magnesium sulfate dosing") {
		t.Error("outline points missing")
	}
}

func TestEmptyTopic(t *testing.T) {
	g := New(&stubOutlines{})
	if cmd := enter(g); cmd != nil {
		t.Error("empty topic should not generate")
	}
}

func TestOutlineFailure(t *testing.T) {
	g := New(&stubOutlines{err: errors.New("quota exceeded")})
	g.input.SetValue("Sepsis")
	g.Update(enter(g)())

	if g.busy || g.outline != nil {
		t.Errorf("busy = %v, outline = %v", g.busy, g.outline)
	}
	if !strings.Contains(g.View(100, 40), "quota exceeded") {
		t.Error("error missing from view")
	}
}
