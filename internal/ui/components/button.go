package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// Button is a labelled action bound to a single key.
type Button struct {
	Label  string
	Key    string
	Active bool
}

// NewButton creates a button triggered by key.
func NewButton(label, key string) Button {
	return Button{Label: label, Key: key, Active: true}
}

// Pressed reports whether msg triggers the button.
func (b Button) Pressed(msg tea.Msg) bool {
	if !b.Active {
		return false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	return ok && kmsg.String() == b.Key
}

// View renders the button with its key hint.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + label
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
