// Package examguide is the screen that builds a high-yield revision outline
// for a topic.
package examguide

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/screen"
	"github.com/lennai/lennai/internal/ui/components"
	"github.com/lennai/lennai/internal/ui/layout"
	"github.com/lennai/lennai/internal/ui/theme"
)

// OutlineGenerator produces exam outlines.
type OutlineGenerator interface {
	GenerateExamOutline(ctx context.Context, topic string) (*content.ExamOutline, error)
}

type outlineMsg struct {
	Outline *content.ExamOutline
	Err     error
}

// GuideScreen asks for a topic and shows its outline.
type GuideScreen struct {
	gen     OutlineGenerator
	input   components.TextInput
	busy    bool
	outline *content.ExamOutline
	errMsg  string
}

var _ screen.Screen = (*GuideScreen)(nil)
var _ screen.KeyHintProvider = (*GuideScreen)(nil)

// New creates a GuideScreen.
func New(gen OutlineGenerator) *GuideScreen {
	return &GuideScreen{
		gen:   gen,
		input: components.NewTextInput("Topic", "e.g. Pre-eclampsia", 200),
	}
}

func (g *GuideScreen) Init() tea.Cmd {
	return g.input.Focus()
}

func (g *GuideScreen) Title() string {
	return "Exam Guide"
}

func (g *GuideScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Build outline"}, {Key: "Esc", Description: "Back"}}
}

func (g *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case outlineMsg:
		g.busy = false
		if msg.Err != nil {
			g.errMsg = "Could not build an outline: " + msg.Err.Error()
			return g, nil
		}
		g.outline = msg.Outline
		g.errMsg = ""
		return g, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			topic := strings.TrimSpace(g.input.Value())
			if topic == "" || g.busy {
				return g, nil
			}
			g.busy = true
			gen := g.gen
			return g, func() tea.Msg {
				o, err := gen.GenerateExamOutline(context.Background(), topic)
				return outlineMsg{Outline: o, Err: err}
			}
		}
	}

	if g.busy {
		return g, nil
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

func (g *GuideScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(g.input.View())
	b.WriteString("\n\n")

	switch {
	case g.busy:
		b.WriteString(theme.Hint.Render("Building your outline..."))
	case g.outline != nil:
		o := g.outline
		b.WriteString(theme.Heading.Render(o.Topic))
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(string(o.Subject)))
		b.WriteString("\n\n")
		for i, p := range o.OutlinePoints {
			b.WriteString(theme.Body.Width(cw - 4).Render(fmt.Sprintf("%d. %s", i+1, p)))
			b.WriteString("\n")
		}
	default:
		b.WriteString(theme.Hint.Render("Enter a topic to get the points examiners ask about most."))
	}

	if g.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Width(cw - 4).Render(g.errMsg))
	}
	return components.Centered(components.Panel(b.String(), cw), width, height)
}
