package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

const bannerArt = `
 █ █ █ █▀▀ █ █▀█ █▀▄   ▀█▀ █▀█ ▄▀█ █▀▀ █▀▀ █ █▀▀
 ▀▄▀▄▀ ██▄ █ █▀▄ █▄▀    █  █▀▄ █▀█ █▀  █▀  █ █▄▄`

const bannerCompact = "W E I R D · T R A F F I C"

// RenderBanner returns the banner in the primary color, falling back to a
// compact line on terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
