package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. It only tracks the cursor;
// the caller decides when an answer is locked and reveals the key.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	// Chosen is the locked-in option, or -1.
	Chosen int

	// Correct is revealed after Chosen is set. -1 hides it.
	Correct int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
		Correct:  -1,
	}
}

// Locked reports whether an answer has been chosen.
func (m MultiChoice) Locked() bool {
	return m.Chosen >= 0
}

// Reveal locks chosen and shows correct.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Chosen = chosen
	m.Correct = correct
}

// Update moves the cursor. Number keys jump straight to an option.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked() {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Locked() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		style := theme.Unselected
		switch {
		case m.Locked() && i == m.Correct:
			style = theme.Correct
		case m.Locked() && i == m.Chosen:
			style = theme.Incorrect
		case m.Locked():
			style = theme.Muted
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
