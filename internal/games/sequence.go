package games

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/rewards"
)

// DefaultWinThreshold is the accuracy percentage that wins a sequence game.
const DefaultWinThreshold = 100

// SequenceGenerator produces sequence puzzles. *content.LLMGateway
// satisfies it.
type SequenceGenerator interface {
	GenerateSequencePuzzle(ctx context.Context, subject content.Subject) (*content.SequencePuzzle, error)
}

// StepResult is the post-submit state of one board position.
type StepResult struct {
	Step    content.PathStep
	Correct bool

	// CorrectPosition is the 1-based position the step belongs in.
	CorrectPosition int
}

// SequenceResult is the frozen outcome of a sequence game.
type SequenceResult struct {
	Correct int
	Total   int

	// Accuracy is Correct/Total as a rounded percentage.
	Accuracy int

	Items []StepResult
}

// Won reports whether the accuracy reaches threshold percent.
func (r *SequenceResult) Won(threshold int) bool {
	return r.Accuracy >= threshold
}

// Sequence is the sequence-ordering game engine.
type Sequence struct {
	mu      sync.Mutex
	gen     SequenceGenerator
	rewards Rewarder
	shuffle func([]content.PathStep)

	title   string
	working []content.PathStep
	result  *SequenceResult
	loading bool

	// completing is the result whose outcome is being recorded.
	completing *SequenceResult
}

// NewSequence creates a sequence game. rewarder may be nil.
func NewSequence(gen SequenceGenerator, rewarder Rewarder) *Sequence {
	return &Sequence{gen: gen, rewards: rewarder, shuffle: shuffleSteps}
}

func shuffleSteps(steps []content.PathStep) {
	rand.Shuffle(len(steps), func(i, j int) { steps[i], steps[j] = steps[j], steps[i] })
}

// Load fetches a new puzzle and shuffles it into the working order. The
// shuffle never looks at the authoritative order. On error the current
// board is kept.
func (s *Sequence) Load(ctx context.Context, subject content.Subject) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.mu.Unlock()

	p, err := s.gen.GenerateSequencePuzzle(ctx, subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	s.install(p)
	return nil
}

// LoadPuzzle installs an already generated puzzle.
func (s *Sequence) LoadPuzzle(p *content.SequencePuzzle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(p)
}

func (s *Sequence) install(p *content.SequencePuzzle) {
	working := slices.Clone(p.Steps)
	s.shuffle(working)
	s.title = p.Title
	s.working = working
	s.result = nil
}

// Title returns the puzzle title.
func (s *Sequence) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Working returns the current board order.
func (s *Sequence) Working() []content.PathStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.working)
}

// Loaded reports whether a puzzle is on the board.
func (s *Sequence) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working != nil
}

// Loading reports whether a puzzle is being generated.
func (s *Sequence) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Move takes the step at from out of the board and reinserts it at to.
// All other steps keep their relative order.
func (s *Sequence) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.working == nil {
		return ErrNotLoaded
	}
	if s.result != nil {
		return ErrSubmitted
	}
	n := len(s.working)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	step := s.working[from]
	s.working = slices.Delete(s.working, from, from+1)
	s.working = slices.Insert(s.working, to, step)
	return nil
}

// Submit scores the board and freezes it.
func (s *Sequence) Submit() (*SequenceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.working == nil {
		return nil, ErrNotLoaded
	}
	if s.result != nil {
		return nil, ErrSubmitted
	}

	res := &SequenceResult{Total: len(s.working), Items: make([]StepResult, len(s.working))}
	for i, step := range s.working {
		ok := step.Order == i
		if ok {
			res.Correct++
		}
		res.Items[i] = StepResult{Step: step, Correct: ok, CorrectPosition: step.Order + 1}
	}
	if res.Total > 0 {
		res.Accuracy = int(math.Round(float64(res.Correct) / float64(res.Total) * 100))
	}
	s.result = res
	return res, nil
}

// Result returns the submitted result, or nil before Submit.
func (s *Sequence) Result() *SequenceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Complete reports the outcome to the rewarder once per submitted board
// and clears it. A board loaded while the outcome was being recorded is
// left alone. On error the submitted board stays so Complete can be
// retried.
func (s *Sequence) Complete(ctx context.Context, won bool) (*rewards.Award, error) {
	s.mu.Lock()
	res := s.result
	switch {
	case res == nil:
		s.mu.Unlock()
		return nil, ErrNotSubmitted
	case s.completing == res:
		s.mu.Unlock()
		return nil, ErrCompleting
	}
	s.completing = res
	s.mu.Unlock()

	award, err := complete(ctx, s.rewards, rewards.Outcome{
		Game:  rewards.GameSequence,
		Won:   won,
		Score: res.Correct,
		Total: res.Total,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completing == res {
		s.completing = nil
	}
	if err != nil {
		return nil, err
	}
	if s.result == res {
		s.title, s.working, s.result = "", nil, nil
	}
	return award, nil
}
