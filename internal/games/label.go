package games

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/rewards"
)

// LabelGenerator produces label puzzles. *content.LLMGateway satisfies it.
type LabelGenerator interface {
	GenerateLabelPuzzle(ctx context.Context, subject content.Subject) (*content.LabelPuzzle, error)
}

// PartResult is the post-submit state of one part.
type PartResult struct {
	Part    content.LabeledPart
	Chosen  string
	Correct bool
}

// LabelResult is the frozen outcome of a label game.
type LabelResult struct {
	Score int
	Total int
	Parts []PartResult
}

// Won reports whether every part was labelled correctly.
func (r *LabelResult) Won() bool {
	return r.Total > 0 && r.Score == r.Total
}

// Label is the label-matching game engine.
type Label struct {
	mu      sync.Mutex
	gen     LabelGenerator
	rewards Rewarder

	puzzle  *content.LabelPuzzle
	matches map[string]string
	result  *LabelResult
	loading bool

	// completing is the result whose outcome is being recorded.
	completing *LabelResult
}

// NewLabel creates a label game. rewarder may be nil.
func NewLabel(gen LabelGenerator, rewarder Rewarder) *Label {
	return &Label{gen: gen, rewards: rewarder}
}

// Load fetches a new puzzle and clears all matches. On error the current
// puzzle is kept.
func (l *Label) Load(ctx context.Context, subject content.Subject) error {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return ErrBusy
	}
	l.loading = true
	l.mu.Unlock()

	p, err := l.gen.GenerateLabelPuzzle(ctx, subject)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		return err
	}
	l.install(p)
	return nil
}

// LoadPuzzle installs an already generated puzzle.
func (l *Label) LoadPuzzle(p *content.LabelPuzzle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.install(p)
}

func (l *Label) install(p *content.LabelPuzzle) {
	l.puzzle = p
	l.matches = make(map[string]string, len(p.Parts))
	l.result = nil
}

// Puzzle returns the loaded puzzle, or nil.
func (l *Label) Puzzle() *content.LabelPuzzle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.puzzle
}

// Loading reports whether a puzzle is being generated.
func (l *Label) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Options returns the label choices: every part's true label, sorted so
// the order gives nothing away.
func (l *Label) Options() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.puzzle == nil {
		return nil
	}
	opts := make([]string, len(l.puzzle.Parts))
	for i, p := range l.puzzle.Parts {
		opts[i] = p.Label
	}
	slices.Sort(opts)
	return opts
}

// Match records label as the choice for partID, replacing any earlier
// choice.
func (l *Label) Match(partID, label string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.puzzle == nil {
		return ErrNotLoaded
	}
	if l.result != nil {
		return ErrSubmitted
	}
	if !slices.ContainsFunc(l.puzzle.Parts, func(p content.LabeledPart) bool { return p.ID == partID }) {
		return ErrUnknownPart
	}
	if !slices.ContainsFunc(l.puzzle.Parts, func(p content.LabeledPart) bool { return p.Label == label }) {
		return ErrUnknownLabel
	}
	l.matches[partID] = label
	return nil
}

// Matches returns a copy of the current choices keyed by part id.
func (l *Label) Matches() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.matches)
}

// CanSubmit reports whether every part has a choice and the board is not
// yet frozen.
func (l *Label) CanSubmit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canSubmit()
}

func (l *Label) canSubmit() bool {
	return l.puzzle != nil && l.result == nil && len(l.matches) == len(l.puzzle.Parts)
}

// Submit scores exact label matches and freezes all choices.
func (l *Label) Submit() (*LabelResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.puzzle == nil {
		return nil, ErrNotLoaded
	}
	if l.result != nil {
		return nil, ErrSubmitted
	}
	if !l.canSubmit() {
		return nil, ErrIncomplete
	}

	res := &LabelResult{Total: len(l.puzzle.Parts), Parts: make([]PartResult, len(l.puzzle.Parts))}
	for i, p := range l.puzzle.Parts {
		chosen := l.matches[p.ID]
		ok := chosen == p.Label
		if ok {
			res.Score++
		}
		res.Parts[i] = PartResult{Part: p, Chosen: chosen, Correct: ok}
	}
	l.result = res
	return res, nil
}

// Result returns the submitted result, or nil before Submit.
func (l *Label) Result() *LabelResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

// Complete reports the outcome to the rewarder once per submitted puzzle
// and clears it, unless another puzzle was loaded in the meantime.
func (l *Label) Complete(ctx context.Context, won bool) (*rewards.Award, error) {
	l.mu.Lock()
	res := l.result
	switch {
	case res == nil:
		l.mu.Unlock()
		return nil, ErrNotSubmitted
	case l.completing == res:
		l.mu.Unlock()
		return nil, ErrCompleting
	}
	l.completing = res
	l.mu.Unlock()

	award, err := complete(ctx, l.rewards, rewards.Outcome{
		Game:  rewards.GameLabel,
		Won:   won,
		Score: res.Score,
		Total: res.Total,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.completing == res {
		l.completing = nil
	}
	if err != nil {
		return nil, err
	}
	if l.result == res {
		l.puzzle, l.matches, l.result = nil, nil, nil
	}
	return award, nil
}
