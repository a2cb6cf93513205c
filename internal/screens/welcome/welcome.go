package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/router"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	redEnd       = 500 * time.Millisecond
	amberEnd     = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond

	// roadWidth is how far the car drives once the light turns green.
	roadWidth = 24
)

type tickMsg time.Time

// WelcomeScreen shows a traffic light splash before the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the splash.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// light renders the traffic light for the current phase.
func (w *WelcomeScreen) light() string {
	off := lipgloss.NewStyle().Foreground(theme.Border)
	lamp := func(on bool, c lipgloss.Style) string {
		if on {
			return c.Render("●")
		}
		return off.Render("○")
	}
	red := w.elapsed < redEnd
	amber := w.elapsed >= redEnd && w.elapsed < amberEnd
	green := w.elapsed >= amberEnd

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.TextDim).
		Padding(0, 1).
		Render(strings.Join([]string{
			lamp(red, lipgloss.NewStyle().Foreground(theme.Error)),
			lamp(amber, lipgloss.NewStyle().Foreground(theme.Primary)),
			lamp(green, lipgloss.NewStyle().Foreground(theme.Secondary)),
		}, "\n"))
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	// The car rolls forward once the light is green.
	offset := 0
	if w.elapsed >= amberEnd {
		offset = min(int((w.elapsed-amberEnd)/tickInterval), roadWidth)
	}
	car := lipgloss.NewStyle().PaddingLeft(offset).Render(components.Mascot(components.MascotIdle))
	road := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Repeat("━ ", (roadWidth+18)/2))

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Bottom, w.light(), "   ", car+"\n"+road))

	if w.elapsed >= amberEnd {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Teach the detector what weird traffic looks like!")
		sections = append(sections, tagline, "")

		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
