package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked panels so their
// borders line up.
func ContentWidth(frameWidth int) int {
	// Frame border (2) + inner padding (4).
	return max(20, min(frameWidth-6, 64))
}

// SignFrame wraps content in the double-bordered road sign frame, centred in
// width × height.
func SignFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded card at content width cw.
func Panel(content string, cw int) string {
	return theme.Card.Width(cw - 2).Render(content)
}

// SignButton renders a fixed-width menu button.
func SignButton(label string, selected bool, width int) string {
	if selected {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeYellow).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}
