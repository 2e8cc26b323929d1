// Package labelgame is the screen for matching anatomical labels to the
// parts of an illustration.
package labelgame

import (
	"context"
	"encoding/base64"
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

type labelPickedMsg struct {
	Label string
}

type completedMsg struct {
	Award *rewards.Award
	Err   error
}

// LabelScreen runs the label-matching game.
type LabelScreen struct {
	engine *games.Label

	phase    phase
	subjects components.Menu
	subject  content.Subject
	puzzle   *content.LabelPuzzle
	cursor   int
	choosing bool
	options  components.Menu
	result   *games.LabelResult
	award    *rewards.Award
	errMsg   string
}

var _ screen.Screen = (*LabelScreen)(nil)
var _ screen.KeyHintProvider = (*LabelScreen)(nil)
var _ screen.InputCapturer = (*LabelScreen)(nil)

// New creates a LabelScreen.
func New(engine *games.Label) *LabelScreen {
	labels := make([]string, len(content.Subjects))
	for i, s := range content.Subjects {
		labels[i] = string(s)
	}
	return &LabelScreen{
		engine: engine,
		subjects: components.NewChoiceMenu(labels, func(i int) tea.Msg {
			return subjectPickedMsg{Subject: content.Subjects[i]}
		}),
	}
}

func (l *LabelScreen) Init() tea.Cmd {
	return nil
}

func (l *LabelScreen) Title() string {
	if l.puzzle != nil {
		return "Label · " + l.puzzle.Title
	}
	return "Label Game"
}

// CapturingInput keeps Esc for closing the label list.
func (l *LabelScreen) CapturingInput() bool {
	return l.choosing
}

func (l *LabelScreen) KeyHints() []layout.KeyHint {
	switch {
	case l.choosing:
		return []layout.KeyHint{{Key: "↑↓", Description: "Label"}, {Key: "Enter", Description: "Match"}, {Key: "Esc", Description: "Cancel"}}
	case l.phase == phaseBoard:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Part"},
			{Key: "Enter", Description: "Choose label"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	case l.phase == phaseResult:
		return []layout.KeyHint{{Key: "N", Description: "New puzzle"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "↑↓", Description: "Subject"}, {Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
}

func (l *LabelScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectPickedMsg:
		l.subject = msg.Subject
		l.phase = phaseLoading
		l.errMsg = ""
		engine, subject := l.engine, l.subject
		return l, func() tea.Msg {
			return loadedMsg{Err: engine.Load(context.Background(), subject)}
		}

	case loadedMsg:
		if msg.Err != nil {
			l.errMsg = "Could not build a puzzle: " + msg.Err.Error()
		}
		l.puzzle = l.engine.Puzzle()
		if l.puzzle == nil {
			l.phase = phasePick
			return l, nil
		}
		if msg.Err == nil {
			l.cursor = 0
			l.result = nil
			l.award = nil
		}
		l.phase = phaseBoard
		return l, nil

	case labelPickedMsg:
		l.choosing = false
		if err := l.engine.Match(l.puzzle.Parts[l.cursor].ID, msg.Label); err != nil {
			l.errMsg = err.Error()
			return l, nil
		}
		l.errMsg = ""
		if l.cursor < len(l.puzzle.Parts)-1 {
			l.cursor++
		}
		return l, nil

	case completedMsg:
		if msg.Err != nil {
			l.errMsg = "Result not saved: " + msg.Err.Error()
			return l, nil
		}
		l.award = msg.Award
		return l, func() tea.Msg { return screen.RewardsChangedMsg{} }

	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l *LabelScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch l.phase {
	case phasePick:
		l.subjects, cmd = l.subjects.Update(msg)
		return l, cmd

	case phaseBoard:
		if l.choosing {
			if msg.String() == "esc" {
				l.choosing = false
				return l, nil
			}
			l.options, cmd = l.options.Update(msg)
			return l, cmd
		}
		switch msg.String() {
		case "up", "k":
			if l.cursor > 0 {
				l.cursor--
			}
		case "down", "j":
			if l.cursor < len(l.puzzle.Parts)-1 {
				l.cursor++
			}
		case "enter":
			l.openOptions()
		case "s":
			return l, l.submit()
		}

	case phaseResult:
		if msg.String() == "n" {
			l.phase = phasePick
			l.puzzle = nil
			l.errMsg = ""
		}
	}
	return l, nil
}

func (l *LabelScreen) openOptions() {
	opts := l.engine.Options()
	l.options = components.NewChoiceMenu(opts, func(i int) tea.Msg {
		return labelPickedMsg{Label: opts[i]}
	})
	if cur, ok := l.engine.Matches()[l.puzzle.Parts[l.cursor].ID]; ok {
		for i, o := range opts {
			if o == cur {
				l.options.Selected = i
			}
		}
	}
	l.choosing = true
}

func (l *LabelScreen) submit() tea.Cmd {
	res, err := l.engine.Submit()
	if err != nil {
		l.errMsg = err.Error()
		return nil
	}
	l.result = res
	l.phase = phaseResult
	won := res.Won()
	engine := l.engine
	return func() tea.Msg {
		award, err := engine.Complete(context.Background(), won)
		return completedMsg{Award: award, Err: err}
	}
}

func (l *LabelScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch l.phase {
	case phasePick:
		body = theme.Heading.Render("Choose a subject") + "\n\n" + l.subjects.View()
	case phaseLoading:
		return layout.RenderNotice(fmt.Sprintf("Drawing a %s diagram...", l.subject), theme.TextDim, width)
	case phaseBoard:
		body = l.renderBoard(cw - 4)
	case phaseResult:
		body = l.renderResult(cw - 4)
	}
	if l.errMsg != "" {
		body += "\n\n" + theme.ErrorText.Width(cw-4).Render(l.errMsg)
	}
	return components.Centered(components.Panel(body, cw), width, height)
}

// illustrationNote describes the attached image, which a terminal cannot
// show.
func illustrationNote(dataURL string) string {
	if dataURL == "" {
		return "No illustration. Use the clues below."
	}
	meta, data, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return "Illustration attached."
	}
	mime := strings.TrimSuffix(meta, ";base64")
	size := base64.StdEncoding.DecodedLen(len(data))
	return fmt.Sprintf("Illustration attached (%s, %d KB). Use the clues below.", mime, (size+1023)/1024)
}

func (l *LabelScreen) renderBoard(w int) string {
	matches := l.engine.Matches()
	var b strings.Builder
	b.WriteString(theme.Heading.Render(l.puzzle.Title))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(illustrationNote(l.puzzle.ImageURL)))
	b.WriteString("\n\n")

	for i, p := range l.puzzle.Parts {
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Render("— unlabelled —")
		if m, ok := matches[p.ID]; ok {
			label = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(m)
		}
		clue := fmt.Sprintf("%d. %s", i+1, p.Description)
		if i == l.cursor {
			b.WriteString(theme.Selected.Width(w).Render("▸ " + clue))
		} else {
			b.WriteString(theme.Unselected.Width(w).Render("  " + clue))
		}
		b.WriteString("\n     " + label + "\n")
		if l.choosing && i == l.cursor {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(l.options.View()))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(components.NewButton("Submit labels", l.engine.CanSubmit()).View())
	return b.String()
}

func (l *LabelScreen) renderResult(w int) string {
	res := l.result
	var b strings.Builder
	verdict := theme.Incorrect.Render("Some labels are off. Review and try another.")
	if res.Won() {
		verdict = theme.Correct.Render("Every structure labelled correctly!")
	}
	b.WriteString(verdict)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d / %d correct", res.Score, res.Total)))
	b.WriteString("\n\n")
	for _, pr := range res.Parts {
		if pr.Correct {
			b.WriteString(theme.Correct.Width(w).Render("✔ " + pr.Part.Label))
		} else {
			b.WriteString(theme.Incorrect.Width(w).Render(fmt.Sprintf("✘ %s (you chose %s)", pr.Part.Label, pr.Chosen)))
		}
		b.WriteString("\n")
	}
	if l.award != nil && l.award.Points > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
			Render(fmt.Sprintf("+%d points · streak +%d", l.award.Points, l.award.StreakDelta)))
	}
	return b.String()
}
