package quiz

import (
	"context"
	"errors"
	"maps"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/lennai/lennai/internal/content"
)

// DefaultDifficulty is requested when none is configured.
const DefaultDifficulty = "Exam-level"

var (
	// ErrEmptyTopicPool is returned by Start when there is nothing to pick.
	ErrEmptyTopicPool = errors.New("topic pool is empty")

	// ErrBusy is returned by Start while a question set is being generated.
	ErrBusy = errors.New("a quiz is already being generated")

	// ErrNoRun is returned when answering or advancing before Start.
	ErrNoRun = errors.New("no quiz in progress")

	// ErrFinished is returned when answering a finished run.
	ErrFinished = errors.New("quiz is finished")

	// ErrOptionOutOfRange is returned for an option index the question
	// does not have.
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// Topic is one entry of the pool a quiz is drawn from.
type Topic struct {
	Topic   string
	Subject content.Subject
}

// Generator produces question sets. *content.LLMGateway satisfies it.
type Generator interface {
	GenerateQuestionSet(ctx context.Context, topic, difficulty string, subject content.Subject) ([]content.Question, error)
}

// Run is the state of one quiz.
type Run struct {
	// Topic is the pool entry the questions were generated for.
	Topic Topic

	// Questions in presentation order.
	Questions []content.Question

	// Index of the current question.
	Index int

	// Selected maps question id to the chosen option. Entries are never
	// overwritten.
	Selected map[string]int

	// Score is the number of correct answers so far.
	Score int

	// Finished is set once the last question has been advanced past.
	Finished bool
}

func newRun(topic Topic, qs []content.Question) *Run {
	return &Run{Topic: topic, Questions: qs, Selected: make(map[string]int)}
}

// Current returns the current question.
func (r *Run) Current() content.Question {
	return r.Questions[r.Index]
}

// Answered reports whether the question has a recorded answer. An answered
// question is also explained: its correctness and rationale are shown.
func (r *Run) Answered(questionID string) bool {
	_, ok := r.Selected[questionID]
	return ok
}

// Accuracy is the score as a rounded percentage of all questions.
func (r *Run) Accuracy() int {
	if len(r.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(len(r.Questions)) * 100))
}

// AnswerResult describes the effect of Answer.
type AnswerResult struct {
	// Recorded is false when the question already had an answer.
	Recorded bool

	// Correct reports whether the recorded answer is right.
	Correct bool

	// Selected is the option that is on record.
	Selected int
}

// answer records option for the current question. It is a no-op when the
// question already has an answer.
func (r *Run) answer(option int) (AnswerResult, error) {
	if r.Finished {
		return AnswerResult{}, ErrFinished
	}
	q := r.Current()
	if prev, ok := r.Selected[q.ID]; ok {
		return AnswerResult{Recorded: false, Correct: prev == q.CorrectAnswer, Selected: prev}, nil
	}
	if option < 0 || option >= len(q.Options) {
		return AnswerResult{}, ErrOptionOutOfRange
	}
	r.Selected[q.ID] = option
	correct := option == q.CorrectAnswer
	if correct {
		r.Score++
	}
	return AnswerResult{Recorded: true, Correct: correct, Selected: option}, nil
}

// advance moves to the next question, or finishes the run on the last one.
func (r *Run) advance() {
	if r.Finished {
		return
	}
	if r.Index+1 < len(r.Questions) {
		r.Index++
		return
	}
	r.Finished = true
}

// Engine runs quizzes drawn from a topic pool.
type Engine struct {
	mu         sync.Mutex
	gen        Generator
	difficulty string
	pick       func(n int) int

	run  *Run
	busy bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDifficulty sets the requested difficulty label. An empty label keeps
// the default.
func WithDifficulty(d string) Option {
	return func(e *Engine) {
		if d != "" {
			e.difficulty = d
		}
	}
}

// WithPicker replaces the uniform random topic choice. pick returns an
// index in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// NewEngine creates an engine with no run.
func NewEngine(gen Generator, opts ...Option) *Engine {
	e := &Engine{gen: gen, difficulty: DefaultDifficulty, pick: rand.IntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start picks one topic uniformly at random and replaces the current run
// with a fresh one. On any error the previous run is left untouched.
func (e *Engine) Start(ctx context.Context, pool []Topic) (*Run, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyTopicPool
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.busy = true
	topic := pool[e.pick(len(pool))]
	difficulty := e.difficulty
	e.mu.Unlock()

	qs, err := e.gen.GenerateQuestionSet(ctx, topic.Topic, difficulty, topic.Subject)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil {
		return nil, err
	}
	e.run = newRun(topic, qs)
	return e.snapshot(), nil
}

// Answer records the chosen option for the current question.
func (e *Engine) Answer(option int) (AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run == nil {
		return AnswerResult{}, ErrNoRun
	}
	return e.run.answer(option)
}

// Advance moves to the next question and reports whether the run is now
// finished.
func (e *Engine) Advance() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run == nil {
		return false, ErrNoRun
	}
	e.run.advance()
	return e.run.Finished, nil
}

// Run returns a copy of the current run, or nil before the first Start.
func (e *Engine) Run() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Busy reports whether a question set is being generated.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

func (e *Engine) snapshot() *Run {
	if e.run == nil {
		return nil
	}
	cp := *e.run
	cp.Selected = maps.Clone(e.run.Selected)
	return &cp
}
