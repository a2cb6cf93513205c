package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the prompt bar styling.
type TextInput struct {
	Model    textinput.Model
	MaxWidth int
	busy     bool
}

// NewTextInput creates a new focused text input. maxLen caps the number of
// characters; zero means unlimited.
func NewTextInput(placeholder string, maxLen int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.Focus()

	if maxLen > 0 {
		ti.CharLimit = maxLen
	}

	return TextInput{
		Model:    ti,
		MaxWidth: maxLen,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Input is ignored while busy.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.busy {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.busy {
		view += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render("⏳")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text and moves the cursor to the end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
}

// SetBusy marks the input as waiting on the backend.
func (t *TextInput) SetBusy(busy bool) {
	t.busy = busy
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}
