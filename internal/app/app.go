package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/weirdtraffic/internal/router"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    zerolog.Logger
	width  int
	height int
}

// New creates an AppModel with root at the bottom of the screen stack.
func New(root screen.Screen, log zerolog.Logger) AppModel {
	return AppModel{
		router: router.New(root),
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	points, progress := 0, 0
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.ScoreProvider); ok {
			points, progress = sp.Score()
		}
	}

	header := layout.RenderHeader(title, points, progress, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(0, m.height-headerHeight-footerHeight)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and closes every screen on exit.
func Run(root screen.Screen, log zerolog.Logger) error {
	m := New(root, log)
	defer m.router.CloseAll()

	log.Info().Msg("starting ui")
	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	log.Info().Msg("ui stopped")
	return nil
}
