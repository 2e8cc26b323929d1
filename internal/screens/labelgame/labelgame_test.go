package labelgame

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/games"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/screen"
)

type stubPuzzles struct {
	err      error
	subjects []content.Subject
}

func (s *stubPuzzles) GenerateLabelPuzzle(_ context.Context, subject content.Subject) (*content.LabelPuzzle, error) {
	s.subjects = append(s.subjects, subject)
	if s.err != nil {
		return nil, s.err
	}
	return &content.LabelPuzzle{
		Title:    "The heart",
		ImageURL: "data:image/png;base64,iVBORw0KGgo=",
		Parts: []content.LabeledPart{
			{ID: "p1", Label: "Right atrium", Description: "Receives blood from the venae cavae"},
			{ID: "p2", Label: "Aorta", Description: "Carries oxygenated blood to the body"},
			{ID: "p3", Label: "Left ventricle", Description: "Thickest walled chamber"},
		},
	}, nil
}

type recordingRewarder struct {
	outcomes []rewards.Outcome
}

func (r *recordingRewarder) Record(_ context.Context, o rewards.Outcome) (*rewards.Award, error) {
	r.outcomes = append(r.outcomes, o)
	award := &rewards.Award{Game: o.Game}
	if o.Won {
		award.Points, award.StreakDelta = rewards.PointsPerWin, 1
	}
	return award, nil
}

func key(l *LabelScreen, code rune) tea.Cmd {
	_, cmd := l.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func run(l *LabelScreen, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := l.Update(cmd())
	return next
}

func loaded(t *testing.T, gen *stubPuzzles, r games.Rewarder) *LabelScreen {
	t.Helper()
	l := New(games.NewLabel(gen, r))
	cmd := run(l, key(l, tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected load command")
	}
	l.Update(cmd())
	if l.phase != phaseBoard {
		t.Fatalf("phase = %d, want board", l.phase)
	}
	return l
}

// label opens the option list for the current part and picks the named
// label.
func label(t *testing.T, l *LabelScreen, name string) {
	t.Helper()
	key(l, tea.KeyEnter)
	if !l.choosing {
		t.Fatal("expected option list to open")
	}
	want := -1
	for i, o := range l.engine.Options() {
		if o == name {
			want = i
		}
	}
	for l.options.Selected < want {
		key(l, tea.KeyDown)
	}
	for l.options.Selected > want {
		key(l, tea.KeyUp)
	}
	run(l, key(l, tea.KeyEnter))
}

func TestLoadShowsClues(t *testing.T) {
	gen := &stubPuzzles{}
	l := loaded(t, gen, nil)

	if len(gen.subjects) != 1 || gen.subjects[0] != content.Subjects[0] {
		t.Errorf("subjects = %v", gen.subjects)
	}
	if l.Title() != "Label · The heart" {
		t.Errorf("Title() = %q", l.Title())
	}
	v := l.View(100, 40)
	if !strings.Contains(v, "Thickest walled chamber") {
		t.Error("clues missing from board")
	}
	if !strings.Contains(v, "image/png") {
		t.Error("illustration note missing")
	}
}

func TestCorrectLabelsWin(t *testing.T) {
	r := &recordingRewarder{}
	l := loaded(t, &stubPuzzles{}, r)

	label(t, l, "Right atrium")
	label(t, l, "Aorta")
	label(t, l, "Left ventricle")
	if !l.engine.CanSubmit() {
		t.Fatalf("matches = %v, want all parts labelled", l.engine.Matches())
	}

	cmd := run(l, key(l, 's'))
	if l.phase != phaseResult || !l.result.Won() {
		t.Fatalf("phase = %d, result = %+v", l.phase, l.result)
	}
	if cmd == nil {
		t.Fatal("expected rewards notification")
	}
	if _, ok := cmd().(screen.RewardsChangedMsg); !ok {
		t.Error("expected RewardsChangedMsg")
	}
	if len(r.outcomes) != 1 || !r.outcomes[0].Won || r.outcomes[0].Game != rewards.GameLabel {
		t.Errorf("outcomes = %+v", r.outcomes)
	}
	if v := l.View(100, 40); !strings.Contains(v, "+100 points") {
		t.Errorf("award missing from result view")
	}
}

func TestWrongLabelLoses(t *testing.T) {
	r := &recordingRewarder{}
	l := loaded(t, &stubPuzzles{}, r)

	label(t, l, "Aorta")
	label(t, l, "Right atrium")
	label(t, l, "Left ventricle")
	run(l, key(l, 's'))

	if l.result.Won() || l.result.Score != 1 {
		t.Errorf("result = %+v, want score 1", l.result)
	}
	if len(r.outcomes) != 1 || r.outcomes[0].Won {
		t.Errorf("outcomes = %+v", r.outcomes)
	}
	if v := l.View(100, 40); !strings.Contains(v, "you chose Aorta") {
		t.Error("wrong choice not shown")
	}
}

func TestSubmitIncomplete(t *testing.T) {
	l := loaded(t, &stubPuzzles{}, nil)
	label(t, l, "Right atrium")

	if cmd := key(l, 's'); cmd != nil {
		t.Error("incomplete board should not submit")
	}
	if l.phase != phaseBoard {
		t.Errorf("phase = %d, want board", l.phase)
	}
	if l.errMsg != games.ErrIncomplete.Error() {
		t.Errorf("errMsg = %q", l.errMsg)
	}
}

func TestEscClosesOptions(t *testing.T) {
	l := loaded(t, &stubPuzzles{}, nil)
	key(l, tea.KeyEnter)
	if !l.CapturingInput() {
		t.Fatal("option list should capture Esc")
	}
	key(l, tea.KeyEscape)
	if l.choosing || l.CapturingInput() {
		t.Error("Esc should close the option list")
	}
	if len(l.engine.Matches()) != 0 {
		t.Error("closing the list should not record a match")
	}
}

func TestLoadFailure(t *testing.T) {
	gen := &stubPuzzles{err: errors.New("offline")}
	l := New(games.NewLabel(gen, nil))
	cmd := run(l, key(l, tea.KeyEnter))
	l.Update(cmd())

	if l.phase != phasePick {
		t.Errorf("phase = %d, want pick", l.phase)
	}
	if !strings.Contains(l.View(100, 40), "offline") {
		t.Error("error not shown")
	}
}
