package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. Navigation wraps around and skips
// disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "enter":
		item := m.Items[m.Selected]
		if item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Menu) step(dir int) int {
	n := len(m.Items)
	i := m.Selected
	for range n {
		i = (i + dir + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, item := range m.Items {
		labels[i] = item.Label
	}
	return labels
}

// View renders the menu as a column of sign buttons of the given width.
func (m Menu) View(buttonWidth int) string {
	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		buttons = append(buttons, SignButton(item.Label, i == m.Selected && !item.Disabled, buttonWidth))
	}
	return strings.Join(buttons, "\n")
}
