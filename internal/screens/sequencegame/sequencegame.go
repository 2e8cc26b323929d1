// Package sequencegame is the screen for ordering the steps of a clinical
// or physiological process.
package sequencegame

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/games"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

type phase int

const (
	phasePick phase = iota
	phaseLoading
	phaseBoard
	phaseResult
)

type subjectPickedMsg struct {
	Subject content.Subject
}

type loadedMsg struct {
	Err error
}

type completedMsg struct {
	Award *rewards.Award
	Err   error
}

// SequenceScreen runs the sequence-ordering game.
type SequenceScreen struct {
	engine    *games.Sequence
	threshold int

	phase    phase
	subjects components.Menu
	subject  content.Subject
	cursor   int
	holding  bool
	result   *games.SequenceResult
	award    *rewards.Award
	errMsg   string
}

var _ screen.Screen = (*SequenceScreen)(nil)
var _ screen.KeyHintProvider = (*SequenceScreen)(nil)

// New creates a SequenceScreen. A result at or above threshold percent
// wins.
func New(engine *games.Sequence, threshold int) *SequenceScreen {
	labels := make([]string, len(content.Subjects))
	for i, s := range content.Subjects {
		labels[i] = string(s)
	}
	return &SequenceScreen{
		engine:    engine,
		threshold: threshold,
		subjects: components.NewChoiceMenu(labels, func(i int) tea.Msg {
			return subjectPickedMsg{Subject: content.Subjects[i]}
		}),
	}
}

func (s *SequenceScreen) Init() tea.Cmd {
	return nil
}

func (s *SequenceScreen) Title() string {
	if t := s.engine.Title(); t != "" {
		return "Sequence · " + t
	}
	return "Sequence Game"
}

func (s *SequenceScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseBoard:
		grab := "Pick up"
		if s.holding {
			grab = "Drop"
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: grab},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseResult:
		return []layout.KeyHint{{Key: "N", Description: "New puzzle"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "↑↓", Description: "Subject"}, {Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
}

func (s *SequenceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectPickedMsg:
		s.subject = msg.Subject
		return s, s.load()

	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = "Could not build a puzzle: " + msg.Err.Error()
			if s.engine.Loaded() {
				s.phase = phaseBoard
			} else {
				s.phase = phasePick
			}
			return s, nil
		}
		s.phase = phaseBoard
		s.cursor = 0
		s.holding = false
		s.result = nil
		s.award = nil
		return s, nil

	case completedMsg:
		if msg.Err != nil {
			s.errMsg = "Result not saved: " + msg.Err.Error()
			return s, nil
		}
		s.award = msg.Award
		return s, func() tea.Msg { return screen.RewardsChangedMsg{} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SequenceScreen) load() tea.Cmd {
	s.phase = phaseLoading
	s.errMsg = ""
	engine, subject := s.engine, s.subject
	return func() tea.Msg {
		return loadedMsg{Err: engine.Load(context.Background(), subject)}
	}
}

func (s *SequenceScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phasePick:
		var cmd tea.Cmd
		s.subjects, cmd = s.subjects.Update(msg)
		return s, cmd

	case phaseBoard:
		n := len(s.engine.Working())
		switch msg.String() {
		case "up", "k":
			s.step(-1, n)
		case "down", "j":
			s.step(1, n)
		case "space":
			s.holding = !s.holding
		case "enter":
			return s, s.submit()
		}

	case phaseResult:
		if msg.String() == "n" {
			s.phase = phasePick
			s.errMsg = ""
		}
	}
	return s, nil
}

// step moves the cursor, carrying the held step along.
func (s *SequenceScreen) step(delta, n int) {
	to := s.cursor + delta
	if to < 0 || to >= n {
		return
	}
	if s.holding {
		if err := s.engine.Move(s.cursor, to); err != nil {
			s.errMsg = err.Error()
			return
		}
	}
	s.cursor = to
}

func (s *SequenceScreen) submit() tea.Cmd {
	res, err := s.engine.Submit()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.result = res
	s.holding = false
	s.phase = phaseResult
	won := res.Won(s.threshold)
	engine := s.engine
	return func() tea.Msg {
		award, err := engine.Complete(context.Background(), won)
		return completedMsg{Award: award, Err: err}
	}
}

func (s *SequenceScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.phase {
	case phasePick:
		body = theme.Heading.Render("Choose a subject") + "\n\n" + s.subjects.View()
	case phaseLoading:
		return layout.RenderNotice(fmt.Sprintf("Building a %s sequence...", s.subject), theme.TextDim, width)
	case phaseBoard:
		body = s.renderBoard(cw - 4)
	case phaseResult:
		body = s.renderResult(cw - 4)
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.ErrorText.Width(cw-4).Render(s.errMsg)
	}
	return components.Centered(components.Panel(body, cw), width, height)
}

func (s *SequenceScreen) renderBoard(w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(s.engine.Title()))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Put the steps in the correct order."))
	b.WriteString("\n\n")
	for i, step := range s.engine.Working() {
		line := fmt.Sprintf("%2d. %s", i+1, step.Text)
		switch {
		case i == s.cursor && s.holding:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Highlight).Bold(true).Width(w).Render("≡ " + line))
		case i == s.cursor:
			b.WriteString(theme.Selected.Width(w).Render("▸ " + line))
		default:
			b.WriteString(theme.Unselected.Width(w).Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(components.NewButton("Submit order", true).View())
	return b.String()
}

func (s *SequenceScreen) renderResult(w int) string {
	res := s.result
	var b strings.Builder
	verdict := theme.Incorrect.Render("Not quite. Study the order and try another.")
	if res.Won(s.threshold) {
		verdict = theme.Correct.Render("Perfect sequence!")
	}
	b.WriteString(verdict)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d / %d in place · %d%%", res.Correct, res.Total, res.Accuracy)))
	b.WriteString("\n\n")

	for i, item := range res.Items {
		if item.Correct {
			b.WriteString(theme.Correct.Width(w).Render(fmt.Sprintf("✔ %2d. %s", i+1, item.Step.Text)))
		} else {
			b.WriteString(theme.Incorrect.Width(w).Render(fmt.Sprintf("✘ %2d. %s  (belongs at %d)", i+1, item.Step.Text, item.CorrectPosition)))
		}
		b.WriteString("\n")
	}
	if s.award != nil && s.award.Points > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
			Render(fmt.Sprintf("+%d points · streak +%d", s.award.Points, s.award.StreakDelta)))
	}
	return b.String()
}
