package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: road signs and traffic lights on asphalt
var (
	Primary   = lipgloss.Color("#FACC15") // Signal Amber
	Secondary = lipgloss.Color("#22C55E") // Go Green
	Accent    = lipgloss.Color("#F97316") // Cone Orange
	Error     = lipgloss.Color("#EF4444") // Stop Red
	Text      = lipgloss.Color("#F8FAFC") // Lane White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#111827") // Asphalt
	BgCard    = lipgloss.Color("#1F2937") // Wet Asphalt
	Border    = lipgloss.Color("#374151") // Curb

	ArcadeYellow = lipgloss.Color("#FDE047") // Taxi
	ArcadeCyan   = lipgloss.Color("#22D3EE") // Sign Blue
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)

// Chat
var (
	UserBubble = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(ArcadeCyan).
			Padding(0, 1)

	Speech = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	ImageFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	ImageFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	ImageChosen = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Secondary)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
