// Package layout draws the chrome around every screen: the header with the
// running score, the key hint footer and the frame joining them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// WideWidth is where screens switch to side-by-side columns.
	WideWidth = 100

	meterCells = 10
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the playable size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsWide reports whether width leaves room for side-by-side columns.
func IsWide(width int) bool {
	return width >= WideWidth
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	sign := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Error).
		Foreground(theme.Text).
		Align(lipgloss.Center).
		Padding(0, 2).
		Render(fmt.Sprintf("ROAD TOO NARROW\n\nNeed at least %d x %d\nGot %d x %d",
			MinWidth, MinHeight, width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, sign)
}

// RenderHeader shows the game name, the screen title and, on the right, the
// points earned and the detector's training meter.
func RenderHeader(title string, points, progress int, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("WeirdTraffic")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	score := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d pts", points)) +
		"   " + RenderMeter(progress, meterCells)

	return bar(spread(name, center, score, width-4), width)
}

// RenderFooter lists key hints, dropping trailing ones that do not fit.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var line string
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		next := part
		if line != "" {
			next = line + "   " + part
		}
		if lipgloss.Width(next) > width-4 {
			break
		}
		line = next
	}
	return bar(line, width)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// RenderMeter draws progress (0-100) as a row of cells followed by the
// percentage.
func RenderMeter(progress, cells int) string {
	progress = max(0, min(progress, 100))
	filled := progress * cells / 100
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("▰", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("▱", cells-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %d%%", progress))
}

// spread places center in the middle of width and pushes left and right to
// the edges, keeping at least one space between neighbours.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(1, (width-cw)/2-lw)
	rightGap := max(1, width-lw-leftGap-cw-rw)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(content)
}
