// Package practice runs a five-question quiz on a topic the user has
// already studied.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/quiz"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

// PoolFunc returns the topics a quiz may be drawn from.
type PoolFunc func(ctx context.Context) ([]quiz.Topic, error)

type runStartedMsg struct {
	Run *quiz.Run
	Err error
}

// QuizScreen presents one question at a time and reveals the answer once
// chosen.
type QuizScreen struct {
	engine *quiz.Engine
	pool   PoolFunc

	run     *quiz.Run
	choice  components.MultiChoice
	loading bool
	errMsg  string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen that draws its topic from pool.
func New(engine *quiz.Engine, pool PoolFunc) *QuizScreen {
	return &QuizScreen{engine: engine, pool: pool}
}

func (q *QuizScreen) Init() tea.Cmd {
	return q.start()
}

func (q *QuizScreen) start() tea.Cmd {
	if q.engine.Busy() {
		return nil
	}
	q.loading = true
	q.errMsg = ""
	engine, pool := q.engine, q.pool
	return func() tea.Msg {
		ctx := context.Background()
		topics, err := pool(ctx)
		if err != nil {
			return runStartedMsg{Err: err}
		}
		run, err := engine.Start(ctx, topics)
		return runStartedMsg{Run: run, Err: err}
	}
}

func (q *QuizScreen) Title() string {
	if q.run != nil {
		return "Quiz · " + q.run.Topic.Topic
	}
	return "Practice Quiz"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.run != nil && q.run.Finished:
		return []layout.KeyHint{{Key: "R", Description: "New quiz"}, {Key: "Esc", Description: "Back"}}
	case q.run != nil && q.choice.Locked():
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Back"}}
	case q.errMsg != "":
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-4", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runStartedMsg:
		q.loading = false
		if msg.Err != nil {
			q.errMsg = describe(msg.Err)
			return q, nil
		}
		q.run = msg.Run
		q.showCurrent()
		return q, nil

	case tea.KeyMsg:
		if q.loading {
			return q, nil
		}
		key := msg.String()
		if key == "r" && (q.errMsg != "" || (q.run != nil && q.run.Finished)) {
			return q, q.start()
		}
		if q.run == nil || q.run.Finished {
			return q, nil
		}
		if key == "enter" {
			if q.choice.Locked() {
				q.advance()
			} else {
				q.answer(q.choice.Selected)
			}
			return q, nil
		}
		var cmd tea.Cmd
		q.choice, cmd = q.choice.Update(msg)
		return q, cmd
	}
	return q, nil
}

func describe(err error) string {
	if errors.Is(err, quiz.ErrEmptyTopicPool) {
		return "Nothing to quiz you on yet. Ask the tutor about a topic first."
	}
	return "Could not generate questions: " + err.Error()
}

func (q *QuizScreen) showCurrent() {
	cur := q.run.Current()
	q.choice = components.NewMultiChoice(cur.Text, cur.Options)
	if q.run.Answered(cur.ID) {
		q.choice.Reveal(q.run.Selected[cur.ID], cur.CorrectAnswer)
	}
}

func (q *QuizScreen) answer(option int) {
	res, err := q.engine.Answer(option)
	if err != nil {
		q.errMsg = err.Error()
		return
	}
	q.run = q.engine.Run()
	q.choice.Reveal(res.Selected, q.run.Current().CorrectAnswer)
}

func (q *QuizScreen) advance() {
	if _, err := q.engine.Advance(); err != nil {
		q.errMsg = err.Error()
		return
	}
	q.run = q.engine.Run()
	if !q.run.Finished {
		q.showCurrent()
	}
}

func (q *QuizScreen) View(width, height int) string {
	if q.loading {
		return layout.RenderNotice("Preparing your questions...", theme.TextDim, width)
	}
	if q.run == nil {
		if q.errMsg != "" {
			return layout.RenderNotice(q.errMsg, theme.Error, width)
		}
		return ""
	}

	cw := components.ContentWidth(width)
	if q.run.Finished {
		return components.Centered(components.Panel(q.renderSummary(cw), cw), width, height)
	}

	cur := q.run.Current()
	var parts []string
	parts = append(parts,
		components.NewProgressBar("", q.run.Index+1, len(q.run.Questions), cw-4).View(),
		"",
		q.choice.View(cw-4),
	)
	if q.choice.Locked() {
		verdict := theme.Correct.Render("✔ Correct")
		if q.choice.Chosen != cur.CorrectAnswer {
			verdict = theme.Incorrect.Render(fmt.Sprintf("✘ The answer is %c", 'A'+cur.CorrectAnswer))
		}
		parts = append(parts, verdict)
		if cur.Explanation != "" {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-4).Render(cur.Explanation))
		}
	}
	if q.errMsg != "" {
		parts = append(parts, theme.ErrorText.Render(q.errMsg))
	}
	return components.Centered(components.Panel(strings.Join(parts, "\n"), cw), width, height)
}

func (q *QuizScreen) renderSummary(cw int) string {
	score := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("%d / %d correct", q.run.Score, len(q.run.Questions)))
	acc := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d%% accuracy", q.run.Accuracy()))
	return lipgloss.NewStyle().Width(cw-4).Align(lipgloss.Center).Render(
		theme.Heading.Render(q.run.Topic.Topic) + "\n\n" + score + "\n" + acc + "\n\n" +
			theme.Hint.Render("Press R for another quiz"))
}
