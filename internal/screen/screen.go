package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that consume printable keys and
// Esc themselves, such as screens with a focused text input.
type InputCapturer interface {
	CapturingInput() bool
}

// RewardsChangedMsg is broadcast after a game outcome was recorded so the
// header can refresh its totals.
type RewardsChangedMsg struct{}

// SignedOutMsg is emitted after the user signed out.
type SignedOutMsg struct{}

// HeaderStatsMsg updates the identity and totals shown in the header.
type HeaderStatsMsg struct {
	Stats layout.HeaderStats
}
