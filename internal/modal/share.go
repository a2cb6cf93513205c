package modal

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// ClosedMsg is emitted when the player dismisses the share modal.
type ClosedMsg struct{}

// Share is the modal shown after a run of detections.
type Share struct {
	open     bool
	points   int
	progress int
}

// Open shows the modal with the given totals.
func (s *Share) Open(points, progress int) {
	s.open = true
	s.points = points
	s.progress = progress
}

// IsOpen reports whether the modal is visible.
func (s Share) IsOpen() bool { return s.open }

// Update closes the modal on enter or esc.
func (s *Share) Update(msg tea.Msg) tea.Cmd {
	if !s.open {
		return nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter", "esc", "q":
			s.open = false
			return func() tea.Msg { return ClosedMsg{} }
		}
	}
	return nil
}

// View renders the modal box.
func (s Share) View(width int) string {
	if !s.open {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("You're on a roll!"))
	b.WriteString("\n\n")
	b.WriteString("You've been feeding the detector some truly weird traffic.\n")
	w := min(max(width-8, 30), 64)
	fmt.Fprintf(&b, "Points: %s\n",
		lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(fmt.Sprintf("%d", s.points)))
	b.WriteString(components.NewProgressBar("Training", s.progress, w-8).View())
	b.WriteString("\n\nShare your score with friends and challenge them to beat it.\n\n")
	b.WriteString(theme.Hint.Render("enter/esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 3).
		Width(w).
		Render(b.String())
}
