package game

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weirdtraffic/internal/session"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/layout"
	"github.com/abhisek/weirdtraffic/internal/ui/theme"
	"github.com/abhisek/weirdtraffic/internal/wordbank"
)

const narrationWidth = 36

func (g *GameScreen) View(width, height int) string {
	st := g.orch.Snapshot()

	if g.share.IsOpen() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, g.share.View(width))
	}

	prompt := g.renderPrompt(width)
	bodyHeight := max(height-lipgloss.Height(prompt)-1, 4)

	var main string
	if layout.IsWide(width) {
		side := g.renderNarration(st, narrationWidth)
		mainWidth := width - narrationWidth - 2
		body := g.renderBody(st, mainWidth, bodyHeight)
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(narrationWidth).Height(bodyHeight).Render(side),
			"  ",
			lipgloss.NewStyle().Width(mainWidth).Height(bodyHeight).Render(body),
		)
	} else {
		side := g.renderNarration(st, width)
		rest := max(bodyHeight-lipgloss.Height(side), 3)
		main = side + "\n" + g.renderBody(st, width, rest)
	}

	return main + "\n" + prompt
}

func (g *GameScreen) renderNarration(st session.State, width int) string {
	text := g.player.Text()
	if g.player.Typing() {
		text += "▌"
	}
	bubble := theme.Speech.Width(width - 2).Render(text)
	return components.Mascot(mood(st)) + "\n" + bubble
}

func (g *GameScreen) renderPrompt(width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width - 2)
	if g.focus == focusInput && !g.share.IsOpen() {
		style = style.BorderForeground(theme.Primary)
	}
	return style.Render(g.input.View())
}

func (g *GameScreen) renderBody(st session.State, width, height int) string {
	switch st.View {
	case session.ViewSlotMachine:
		return g.renderSlots(width)
	case session.ViewClapWords:
		return g.renderClap(width)
	case session.ViewFillBlank:
		return g.renderBlank(width)
	}
	return g.renderTranscript(st, width, height)
}

// renderTranscript renders the conversation, keeping the newest lines when
// it does not fit.
func (g *GameScreen) renderTranscript(st session.State, width, height int) string {
	if len(st.Messages) == 0 {
		return theme.Hint.Render("Your prompts and pictures show up here.")
	}

	last, hasLast := st.LastImageChoices()

	var blocks []string
	for _, m := range st.Messages {
		switch m.Kind {
		case session.KindUserText:
			bubble := theme.UserBubble.Render(m.Text)
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		case session.KindImageChoices:
			if hasLast && m.ID == last.ID {
				blocks = append(blocks, g.renderImageGrid(m, width))
			} else {
				blocks = append(blocks, renderImageSummary(m))
			}
		}
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func (g *GameScreen) renderImageGrid(m session.Message, width int) string {
	if m.Loading {
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("🚦 Cooking up some weirdness...")
	}

	n := max(len(m.Images), 1)
	cols := max(min((width-n*3)/n, 18), 6)
	rows := max(cols/2, 3)

	tiles := make([]string, 0, len(m.Images))
	for i := range m.Images {
		ref, detected := tileImage(m, i)
		style := theme.ImageFrame
		switch {
		case i == m.SelectedIndex:
			style = theme.ImageChosen
		case g.focus == focusImages && i == g.cursor:
			style = theme.ImageFocused
		}
		caption := fmt.Sprintf("%d", i+1)
		if detected {
			caption += " · detected"
		}
		label := lipgloss.NewStyle().Width(cols).Align(lipgloss.Center).Foreground(theme.TextDim).Render(caption)
		tiles = append(tiles, style.Render(components.Thumbnail(ref, cols, rows)+"\n"+label))
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tiles, " ")...)

	var status string
	switch {
	case m.Detecting:
		status = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("🔍 Asking the detector...")
	case m.Detection != nil:
		status = renderDetection(m.Detection)
	case g.focus == focusImages:
		status = theme.Hint.Render("Pick the image that best matches your prompt.")
	default:
		status = theme.Hint.Render("Press Tab to choose an image.")
	}
	return grid + "\n" + status
}

// tileImage returns the reference drawn for candidate i. The chosen tile
// shows the detector's image once detection has finished.
func tileImage(m session.Message, i int) (string, bool) {
	if sel, ok := m.Selected(); ok && sel == i && m.Detection != nil && m.Detection.Image != "" {
		return m.Detection.Image, true
	}
	return m.Images[i], false
}

func renderImageSummary(m session.Message) string {
	parts := []string{fmt.Sprintf("🖼  %d images", len(m.Images))}
	if i, ok := m.Selected(); ok {
		parts = append(parts, fmt.Sprintf("picked #%d", i+1))
	}
	if m.Detection != nil {
		parts = append(parts, renderDetection(m.Detection))
	}
	return theme.Hint.Render(strings.Join(parts, " · "))
}

func renderDetection(d *session.Detection) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d%% match", int(d.Score+0.5))) +
		" · " +
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("+%d pts", d.Points))
}

func (g *GameScreen) renderSlots(width int) string {
	reels := make([]string, 0, 3)
	for r := range wordbank.Reel(3) {
		word := g.slot.spin[r]
		style := theme.ImageFrame.Width(16).Align(lipgloss.Center).Padding(1, 0)
		if r == g.slot.reel {
			style = theme.ImageFocused.Width(16).Align(lipgloss.Center).Padding(1, 0).Bold(true)
		}
		reels = append(reels, style.Render(word))
	}
	machine := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(reels, " ")...)

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		components.NewButton("Spin", "s").View(), " ",
		components.NewButton("Add word", "enter").View(), " ",
		button("Use all", "u", g.slot.spin.Complete()).View(),
	)

	title := theme.Title.Width(width).Render("🎰 Slot Machine")
	return title + "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, machine) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, buttons)
}

func (g *GameScreen) renderClap(width int) string {
	round := g.clap.round
	title := theme.Title.Width(width).Render("👏 Clap Words")

	steps := make([]string, 0, wordbank.PhaseCount())
	for i := range wordbank.PhaseCount() {
		mark := "○"
		if i < round.Phase() {
			mark = "●"
		}
		steps = append(steps, mark)
	}
	progress := theme.Subtitle.Width(width).Render(strings.Join(steps, " ") + "  " + round.Instruction())

	var flying string
	if round.Done() {
		flying = theme.Selected.Render("Press Enter to use it, R to start over")
	} else {
		flying = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeCyan).
			Padding(1, 4).
			Bold(true).
			Render(g.clap.current())
	}

	phrase := round.Phrase()
	if phrase == "" {
		phrase = "…"
	}
	return title + "\n" + progress + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, flying) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(phrase))
}

func (g *GameScreen) renderBlank(width int) string {
	b := g.blank
	title := theme.Title.Width(width).Render("✏️  Fill in the Blank")

	preview := b.template
	for _, w := range b.words() {
		preview = strings.Replace(preview, wordbank.Blank, theme.Selected.Render(w), 1)
	}

	rows := make([]string, 0, len(b.pickers))
	for _, p := range b.pickers {
		rows = append(rows, p.View())
	}

	return title + "\n\n" +
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(preview) + "\n\n" +
		strings.Join(rows, "\n")
}

func button(label, key string, active bool) components.Button {
	b := components.NewButton(label, key)
	b.Active = active
	return b
}

func intersperse(items []string, sep string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items)*2-1)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}
