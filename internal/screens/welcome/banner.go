package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/lennai/lennai/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗███╗   ██╗███╗   ██╗ █████╗ ██╗
 ██║     ██╔════╝████╗  ██║████╗  ██║██╔══██╗██║
 ██║     █████╗  ██╔██╗ ██║██╔██╗ ██║███████║██║
 ██║     ██╔══╝  ██║╚██╗██║██║╚██╗██║██╔══██║██║
 ███████╗███████╗██║ ╚████║██║ ╚████║██║  ██║██║
 ╚══════╝╚══════╝╚═╝  ╚═══╝╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝`

const bannerCompact = "L E N N A I"

// RenderBanner returns the LENNAI banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 50 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 50 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
