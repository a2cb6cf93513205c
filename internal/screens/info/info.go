// Package info renders the how-to-play screen.
package info

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/scoring"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/layout"
	"github.com/abhisek/weirdtraffic/internal/ui/theme"
)

// samples are the similarity scores shown in the reward table.
var samples = []float64{0, 25, 50, 75, 100}

var keys = []layout.KeyHint{
	{Key: "Enter", Description: "send the prompt / pick an image"},
	{Key: "Tab", Description: "move between prompt and images"},
	{Key: "1-9", Description: "pick an image by number"},
	{Key: "R", Description: "regenerate the images"},
	{Key: "↑", Description: "recall your last prompt"},
	{Key: "F1-F4", Description: "chat, slot machine, clap words, fill in the blank"},
	{Key: "Ctrl+X", Description: "skip the car's narration"},
}

// InfoScreen explains the rules and the scoring curves.
type InfoScreen struct {
	maxScore     int
	maxIncrement int
	scroll       int
}

var _ screen.Screen = (*InfoScreen)(nil)

// New creates an InfoScreen for the given reward caps. Non-positive caps
// fall back to the scoring defaults.
func New(maxScore, maxIncrement int) *InfoScreen {
	if maxScore <= 0 {
		maxScore = scoring.DefaultMaxScore
	}
	if maxIncrement <= 0 {
		maxIncrement = scoring.DefaultMaxIncrement
	}
	return &InfoScreen{maxScore: maxScore, maxIncrement: maxIncrement}
}

func (s *InfoScreen) Init() tea.Cmd { return nil }

func (s *InfoScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "up", "k":
			s.scroll = max(0, s.scroll-1)
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *InfoScreen) Title() string { return "How to Play" }

func (s *InfoScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *InfoScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	heading := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6)

	var lines []string
	lines = append(lines,
		heading.Render("THE GOAL"),
		body.Render("Describe a weird traffic scene. The car paints a few pictures of it, you pick the one that fits best, and the detector tries to match it back to your words."),
		"",
		heading.Render("SCORING"),
		body.Render("A low match means you fooled the detector and earns points. A high match teaches the detector and fills the training meter."),
		"",
		s.table(),
		"",
		heading.Render("KEYS"),
	)
	keyStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Width(8)
	for _, k := range keys {
		lines = append(lines, keyStyle.Render(k.Key)+body.Width(cw-14).Render(k.Description))
	}

	content := strings.Split(strings.Join(lines, "\n"), "\n")
	visible := max(1, height-4)
	maxScroll := max(0, len(content)-visible)
	s.scroll = min(s.scroll, maxScroll)
	content = content[s.scroll:min(len(content), s.scroll+visible)]

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Panel(strings.Join(content, "\n"), cw))
}

func (s *InfoScreen) table() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	rows := []string{dim.Render(fmt.Sprintf("%-8s %-8s %-8s", "match", "points", "meter"))}
	for _, sim := range samples {
		rows = append(rows, fmt.Sprintf("%-8s %-8d +%-7d",
			fmt.Sprintf("%.0f%%", sim),
			scoring.RewardPoints(sim, s.maxScore),
			scoring.ProgressIncrement(sim, s.maxIncrement)))
	}
	return strings.Join(rows, "\n")
}
