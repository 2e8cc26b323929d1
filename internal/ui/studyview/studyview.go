// Package studyview renders structured study content in each of the chat
// views.
package studyview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/ui/theme"
)

// Render draws sc in view v, wrapped to width.
func Render(sc *content.StructuredContent, v chat.View, width int) string {
	if sc == nil {
		return ""
	}
	switch v {
	case chat.ViewSlides:
		return Slides(sc, width)
	case chat.ViewFlashcards:
		return Flashcards(sc, width)
	case chat.ViewQuiz:
		return Quiz(sc.PracticeQuestions, width, false)
	default:
		return Overview(sc, width)
	}
}

// Tabs renders the view selector with v highlighted.
func Tabs(v chat.View) string {
	var tabs []string
	for _, view := range chat.Views {
		label := strings.ToUpper(string(view))
		if view == v {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	return strings.Join(tabs, "  ")
}

// Next returns the view after v, wrapping around.
func Next(v chat.View) chat.View {
	for i, view := range chat.Views {
		if view == v {
			return chat.Views[(i+1)%len(chat.Views)]
		}
	}
	return chat.ViewOverview
}

func section(title string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title)
}

func para(text string, width int) string {
	return lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(text)
}

func bullets(items []string, width int) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render("• " + it))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Overview renders the explanation, key concepts, visual guide and exam
// focus.
func Overview(sc *content.StructuredContent, width int) string {
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(sc.TopicTitle) +
			"  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(string(sc.Subject)),
		para(sc.SimpleExplanation, width),
	}
	if len(sc.KeyConcepts) > 0 {
		parts = append(parts, section("Key concepts"), bullets(sc.KeyConcepts, width))
	}
	if sc.VisualGuide != "" {
		parts = append(parts, section("Visual guide"), para(sc.VisualGuide, width))
	}
	if sc.ExamFocus != "" {
		parts = append(parts, section("Exam focus"),
			lipgloss.NewStyle().Foreground(theme.Accent).Width(width).Render(sc.ExamFocus))
	}
	return strings.Join(parts, "\n\n")
}

// Slides renders every slide as a numbered card.
func Slides(sc *content.StructuredContent, width int) string {
	if len(sc.Slides) == 0 {
		return theme.Hint.Render("No slides in this unit.")
	}
	var cards []string
	for i, s := range sc.Slides {
		body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d. %s", i+1, s.Title))
		if len(s.Bullets) > 0 {
			body += "\n" + bullets(s.Bullets, width-4)
		}
		if s.ImageDescription != "" {
			body += "\n" + theme.Hint.Width(width-4).Render("Image: "+s.ImageDescription)
		}
		cards = append(cards, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(width).
			Render(body))
	}
	return strings.Join(cards, "\n")
}

// Flashcards renders each card as front and back.
func Flashcards(sc *content.StructuredContent, width int) string {
	if len(sc.Flashcards) == 0 {
		return theme.Hint.Render("No flashcards in this unit.")
	}
	var cards []string
	for i, f := range sc.Flashcards {
		front := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(width).Render(fmt.Sprintf("Q%d  %s", i+1, f.Front))
		back := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render("    " + f.Back)
		cards = append(cards, front+"\n"+back)
	}
	return strings.Join(cards, "\n\n")
}

// Quiz renders questions with their options. When reveal is set the
// correct option and explanation are shown.
func Quiz(qs []content.Question, width int, reveal bool) string {
	if len(qs) == 0 {
		return theme.Hint.Render("No practice questions in this unit.")
	}
	var blocks []string
	for i, q := range qs {
		lines := []string{lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(fmt.Sprintf("%d. %s", i+1, q.Text))}
		for j, opt := range q.Options {
			line := fmt.Sprintf("   %c) %s", 'A'+j, opt)
			if reveal && j == q.CorrectAnswer {
				lines = append(lines, theme.Correct.Render(line+"  ✔"))
			} else {
				lines = append(lines, theme.Unselected.Render(line))
			}
		}
		if reveal && q.Explanation != "" {
			lines = append(lines, theme.Hint.Width(width).Render("   "+q.Explanation))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
