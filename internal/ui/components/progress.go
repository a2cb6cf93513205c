package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// ProgressBar displays a 0-100 value as a horizontal bar.
type ProgressBar struct {
	Label   string
	Percent int
	Width   int
}

// NewProgressBar creates a progress bar.
func NewProgressBar(label string, percent, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	pct := max(0, min(p.Percent, 100))
	suffix := fmt.Sprintf("  %3d%%", pct)

	barWidth := max(p.Width-lipgloss.Width(result)-len(suffix), 4)
	filled := barWidth * pct / 100

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}
