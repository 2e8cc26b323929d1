package hub

import (
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default teal
	MascotCelebrating                      // Yellow, star eyes: a win streak is running
	MascotLecturer                         // Indigo, spectacles
)

const mascotIdle = ` ┌─✚─┐
┌┴───┴┐
│ ◉ ◉ │
│  ◡  │
└─────┘`

const mascotCelebrating = ` ┌─✚─┐
┌┴───┴┐
│ ★ ★ │
│  ▿  │
└─╥═╥─┘
  ╚═╝`

const mascotLecturer = ` ┌───┐
┌┴───┴┐
│⌐◉-◉ │
│  ‿  │
└─────┘`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Highlight
	case MascotLecturer:
		art = mascotLecturer
		fg = theme.Secondary
	}

	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

// mascotFor picks the variant for a user's role and streak.
func mascotFor(lecturer bool, streak int) MascotVariant {
	switch {
	case lecturer:
		return MascotLecturer
	case streak >= 3:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}
