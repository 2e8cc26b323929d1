// Package lecturer is the lecturer hub: teaching notes, lesson plans and
// question banks.
package lecturer

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
	"github.com/lennai/lennai/internal/ui/studyview"
	"github.com/lennai/lennai/internal/ui/theme"
)

// Generator produces lecturer materials.
type Generator interface {
	GenerateLecturerNotes(ctx context.Context, topic string, depth content.Depth) (*content.LecturerNotes, error)
	GenerateLessonPlan(ctx context.Context, topic string) (*content.LessonPlan, error)
	GenerateQuestionBank(ctx context.Context, topic string) (*content.QuestionBank, error)
}

// Tool is one lecturer hub action.
type Tool int

const (
	ToolSummaryNotes Tool = iota
	ToolDetailedNotes
	ToolLessonPlan
	ToolQuestionBank
)

var toolNames = []string{"Summary notes", "Detailed notes", "Lesson plan", "Question bank"}

func (t Tool) String() string {
	return toolNames[t]
}

type phase int

const (
	phasePick phase = iota
	phaseTopic
	phaseBusy
	phaseResult
)

type toolPickedMsg struct {
	Tool Tool
}

type generatedMsg struct {
	Notes *content.LecturerNotes
	Plan  *content.LessonPlan
	Bank  *content.QuestionBank
	Err   error
}

// HubScreen runs the lecturer tools.
type HubScreen struct {
	gen    Generator
	phase  phase
	tools  components.Menu
	tool   Tool
	input  components.TextInput
	result generatedMsg
	scroll int
	errMsg string
}

var _ screen.Screen = (*HubScreen)(nil)
var _ screen.KeyHintProvider = (*HubScreen)(nil)
var _ screen.InputCapturer = (*HubScreen)(nil)

// New creates a HubScreen.
func New(gen Generator) *HubScreen {
	return &HubScreen{
		gen: gen,
		tools: components.NewChoiceMenu(toolNames, func(i int) tea.Msg {
			return toolPickedMsg{Tool: Tool(i)}
		}),
		input: components.NewTextInput("Topic", "e.g. Management of burns", 200),
	}
}

func (h *HubScreen) Init() tea.Cmd {
	return nil
}

func (h *HubScreen) Title() string {
	if h.phase == phasePick {
		return "Lecturer Hub"
	}
	return "Lecturer Hub · " + h.tool.String()
}

// CapturingInput keeps Esc for returning to the tool list.
func (h *HubScreen) CapturingInput() bool {
	return h.phase != phasePick
}

func (h *HubScreen) KeyHints() []layout.KeyHint {
	switch h.phase {
	case phaseTopic:
		return []layout.KeyHint{{Key: "Enter", Description: "Generate"}, {Key: "Esc", Description: "Tools"}}
	case phaseResult:
		return []layout.KeyHint{{Key: "PgUp/PgDn", Description: "Scroll"}, {Key: "Esc", Description: "Tools"}}
	}
	return []layout.KeyHint{{Key: "↑↓", Description: "Tool"}, {Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}
}

func (h *HubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case toolPickedMsg:
		h.tool = msg.Tool
		h.phase = phaseTopic
		h.errMsg = ""
		return h, h.input.Focus()

	case generatedMsg:
		if msg.Err != nil {
			h.phase = phaseTopic
			h.errMsg = "Generation failed: " + msg.Err.Error()
			return h, nil
		}
		h.result = msg
		h.scroll = 0
		h.phase = phaseResult
		return h, nil

	case tea.KeyMsg:
		return h.handleKey(msg)
	}
	return h, nil
}

func (h *HubScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()
	if key == "esc" && h.phase != phaseBusy {
		h.phase = phasePick
		h.errMsg = ""
		return h, nil
	}

	switch h.phase {
	case phasePick:
		h.tools, cmd = h.tools.Update(msg)
	case phaseTopic:
		if key == "enter" {
			return h, h.generate()
		}
		h.input, cmd = h.input.Update(msg)
	case phaseResult:
		switch key {
		case "pgdown", "down", "j":
			h.scroll++
		case "pgup", "up", "k":
			if h.scroll > 0 {
				h.scroll--
			}
		}
	}
	return h, cmd
}

func (h *HubScreen) generate() tea.Cmd {
	topic := strings.TrimSpace(h.input.Value())
	if topic == "" {
		return nil
	}
	h.phase = phaseBusy
	h.errMsg = ""
	gen, tool := h.gen, h.tool
	return func() tea.Msg {
		ctx := context.Background()
		var out generatedMsg
		switch tool {
		case ToolSummaryNotes:
			out.Notes, out.Err = gen.GenerateLecturerNotes(ctx, topic, content.DepthSummary)
		case ToolDetailedNotes:
			out.Notes, out.Err = gen.GenerateLecturerNotes(ctx, topic, content.DepthDetailed)
		case ToolLessonPlan:
			out.Plan, out.Err = gen.GenerateLessonPlan(ctx, topic)
		case ToolQuestionBank:
			out.Bank, out.Err = gen.GenerateQuestionBank(ctx, topic)
		}
		return out
	}
}

func (h *HubScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch h.phase {
	case phasePick:
		body = theme.Heading.Render("Prepare your class") + "\n\n" + h.tools.View()
	case phaseTopic:
		body = theme.Heading.Render(h.tool.String()) + "\n\n" + h.input.View()
	case phaseBusy:
		return layout.RenderNotice(fmt.Sprintf("Preparing %s...", strings.ToLower(h.tool.String())), theme.TextDim, width)
	case phaseResult:
		body = scrolled(h.renderResult(cw-4), h.scroll, height-8)
	}
	if h.errMsg != "" {
		body += "\n\n" + theme.ErrorText.Width(cw-4).Render(h.errMsg)
	}
	return components.Centered(components.Panel(body, cw), width, height)
}

// scrolled returns at most limit lines of s starting at offset.
func scrolled(s string, offset, limit int) string {
	lines := strings.Split(s, "\n")
	limit = max(limit, 1)
	offset = min(offset, max(0, len(lines)-limit))
	end := min(offset+limit, len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (h *HubScreen) renderResult(w int) string {
	switch {
	case h.result.Notes != nil:
		return renderNotes(h.result.Notes, w)
	case h.result.Plan != nil:
		return renderPlan(h.result.Plan, w)
	case h.result.Bank != nil:
		return renderBank(h.result.Bank, w)
	}
	return ""
}

func heading(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s)
}

func bullets(b *strings.Builder, items []string, w int) {
	for _, it := range items {
		b.WriteString(theme.Body.Width(w).Render("• " + it))
		b.WriteString("\n")
	}
}

func renderNotes(n *content.LecturerNotes, w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(n.Title))
	b.WriteString(theme.Hint.Render("  (" + string(n.Depth) + ")"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(w).Render(n.Content))
	b.WriteString("\n\n")
	if len(n.KeyConcepts) > 0 {
		b.WriteString(heading("Key concepts") + "\n")
		bullets(&b, n.KeyConcepts, w)
	}
	if len(n.ClinicalPearls) > 0 {
		b.WriteString("\n" + heading("Clinical pearls") + "\n")
		bullets(&b, n.ClinicalPearls, w)
	}
	if len(n.DiagramDescriptions) > 0 {
		b.WriteString("\n" + heading("Diagrams to draw") + "\n")
		bullets(&b, n.DiagramDescriptions, w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPlan(p *content.LessonPlan, w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(p.Title))
	b.WriteString(theme.Hint.Render("  " + p.Duration))
	b.WriteString("\n\n" + heading("Objectives") + "\n")
	bullets(&b, p.Objectives, w)
	b.WriteString("\n" + heading("Structure") + "\n")
	for _, s := range p.Structure {
		line := lipgloss.NewStyle().Foreground(theme.Accent).Render(s.Time) + "  " + s.Activity
		if s.Method != "" {
			line += theme.Hint.Render(" · " + s.Method)
		}
		b.WriteString(lipgloss.NewStyle().Width(w).Render(line))
		b.WriteString("\n")
	}
	if len(p.GroupActivities) > 0 {
		b.WriteString("\n" + heading("Group activities") + "\n")
		bullets(&b, p.GroupActivities, w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBank(q *content.QuestionBank, w int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Question bank · " + q.Topic))
	b.WriteString("\n\n" + heading(fmt.Sprintf("Multiple choice (%d)", len(q.MCQs))) + "\n")
	b.WriteString(studyview.Quiz(q.MCQs, w, true))
	b.WriteString("\n\n" + heading(fmt.Sprintf("Short answer (%d)", len(q.ShortAnswers))) + "\n")
	for i, sa := range q.ShortAnswers {
		b.WriteString(theme.Body.Width(w).Render(fmt.Sprintf("%d. %s", i+1, sa.Question)))
		b.WriteString("\n")
		b.WriteString(theme.Correct.Width(w).Render("   " + sa.Answer))
		b.WriteString("\n")
		if sa.Rationale != "" {
			b.WriteString(theme.Hint.Width(w).Render("   " + sa.Rationale))
			b.WriteString("\n")
		}
	}
	if len(q.CaseStudies) > 0 {
		b.WriteString("\n" + heading(fmt.Sprintf("Case studies (%d)", len(q.CaseStudies))) + "\n")
		for i, cs := range q.CaseStudies {
			b.WriteString(theme.Body.Width(w).Render(fmt.Sprintf("Case %d: %s", i+1, cs.Scenario)))
			b.WriteString("\n")
			for j, question := range cs.Questions {
				b.WriteString(theme.Body.Width(w).Render(fmt.Sprintf("  Q%d. %s", j+1, question)))
				b.WriteString("\n")
				if j < len(cs.Answers) {
					b.WriteString(theme.Correct.Width(w).Render("      " + cs.Answers[j]))
					b.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
