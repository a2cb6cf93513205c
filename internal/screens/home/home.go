package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/router"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/screens/info"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// Stats describes the environment the game runs against.
type Stats struct {
	Backend string
	Words   string

	// MaxScore and MaxIncrement feed the reward table on the how-to-play screen.
	MaxScore     int
	MaxIncrement int
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu  components.Menu
	stats Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. play builds a fresh game screen each time the
// player starts driving; nil disables the entry.
func New(stats Stats, play func() screen.Screen) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START DRIVING", Disabled: play == nil, Action: func() tea.Cmd {
			s := play()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}},
		{Label: "HOW TO PLAY", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: info.New(stats.MaxScore, stats.MaxIncrement)} }
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:  components.NewMenu(items),
		stats: stats,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 80
	cw := components.ContentWidth(width)

	var sections []string

	title := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render("W E I R D · T R A F F I C")
	sections = append(sections, title)

	if !compact {
		mascot := lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(components.Mascot(components.MascotIdle))
		sections = append(sections, mascot)
	}

	sections = append(sections, renderStats(h.stats, cw))
	sections = append(sections, h.menu.View(min(cw, 30)))

	gap := "\n\n"
	if compact {
		gap = "\n"
	}
	return components.SignFrame(strings.Join(sections, gap), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func renderStats(s Stats, cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	parts := []string{
		label.Render("Backend ") + value.Render(orDash(s.Backend)),
		label.Render("Words ") + value.Render(orDash(s.Words)),
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(parts, label.Render("  │  ")))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
