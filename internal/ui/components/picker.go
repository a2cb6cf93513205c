package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// Picker is a horizontal single-choice selector over a short word list.
type Picker struct {
	Label    string
	Options  []string
	Selected int
	Active   bool
}

// NewPicker creates a picker with the first option selected.
func NewPicker(label string, options []string) Picker {
	return Picker{Label: label, Options: options}
}

// Update moves the selection with left/right (or h/l) while active.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if !p.Active || len(p.Options) == 0 {
		return p, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p, nil
}

// Value returns the selected option, or "" when there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// View renders the picker on one line.
func (p Picker) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if p.Active {
		labelStyle = labelStyle.Foreground(theme.Primary).Bold(true)
	}

	parts := make([]string, 0, len(p.Options))
	for i, opt := range p.Options {
		switch {
		case i == p.Selected && p.Active:
			parts = append(parts, theme.ButtonActive.Padding(0, 1).Render(opt))
		case i == p.Selected:
			parts = append(parts, theme.Selected.Render("["+opt+"]"))
		default:
			parts = append(parts, theme.Unselected.Render(opt))
		}
	}
	return labelStyle.Render(p.Label+":") + " " + strings.Join(parts, "  ")
}
