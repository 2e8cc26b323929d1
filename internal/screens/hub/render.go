package hub

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/ui/theme"
)

const titleFull = ` ╦  ╔═╗╔╗╔╔╗╔╔═╗╦
 ║  ║╣ ║║║║║║╠═╣║
 ╩═╝╚═╝╝╚╝╝╚╝╩ ╩╩`

const titleCompact = "L · E · N · N · A · I"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

// renderProfile renders the greeting line with role and course.
func renderProfile(u *identity.User, cw int) string {
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Welcome, " + firstName(u.FullName))
	course := u.Course
	if u.School != "" {
		course += " · " + u.School
	}
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.ToUpper(string(u.Role)) + "  " + course)
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(name + "\n" + meta)
}

func firstName(full string) string {
	if f := strings.Fields(full); len(f) > 0 {
		return f[0]
	}
	return "there"
}

// renderStatsBar renders reward totals in a bordered box matching content width.
func renderStatsBar(t rewards.Totals, cw int, compact bool) string {
	points := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	wins := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			points.Render(fmt.Sprintf("◆%d", t.Points)),
			streak.Render(fmt.Sprintf("★%d", t.Streak)),
			wins.Render(fmt.Sprintf("✔%d/%d", t.Wins, t.Games)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			points.Render(fmt.Sprintf("◆ %d POINTS", t.Points)),
			streak.Render(fmt.Sprintf("★ %d STREAK", t.Streak)),
			wins.Render(fmt.Sprintf("✔ %d/%d WON", t.Wins, t.Games)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderLLMBanner renders a warning when no LLM provider is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to generate content (see lennai --help)")
}

// renderFrame wraps content in a double-border frame, centered in the
// given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
