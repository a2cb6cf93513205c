package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/layout"
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

// ScoreProvider is implemented by screens whose running score belongs in
// the header.
type ScoreProvider interface {
	Score() (points, progress int)
}

// EscapeHandler is implemented by screens that sometimes consume esc
// themselves (closing an overlay) instead of navigating back.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Closer is implemented by screens holding resources that must be released
// when they leave the stack.
type Closer interface {
	Close()
}
