// Package game is the play screen: the chat with the car mascot, the image
// grid and the three prompt mini-games.
package game

import (
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/dialog"
	"github.com/abhisek/weirdtraffic/internal/modal"
	"github.com/abhisek/weirdtraffic/internal/narration"
	"github.com/abhisek/weirdtraffic/internal/screen"
	"github.com/abhisek/weirdtraffic/internal/session"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/ui/layout"
	"github.com/abhisek/weirdtraffic/internal/wordbank"
)

// Options tunes a game screen. Zero values use the package defaults.
type Options struct {
	ModalThreshold int
	ModalDelay     time.Duration
	StageDelay     time.Duration
	CharDelay      time.Duration
	MaxScore       int
	MaxIncrement   int
	CallTimeout    time.Duration

	Words wordbank.Bank
	Seed  uint64
	Log   zerolog.Logger
}

type focusArea int

const (
	focusInput focusArea = iota
	focusImages
)

const maxPromptLen = 280

// GameScreen implements screen.Screen for a play session.
type GameScreen struct {
	orch   *session.Orchestrator
	player narration.Player
	timer  modal.Timer
	share  modal.Share
	input  components.TextInput

	focus  focusArea
	cursor int

	words wordbank.Bank
	rng   *rand.Rand
	slot  slotGame
	clap  clapGame
	blank blankGame

	modalRev uint64
	log      zerolog.Logger
}

var (
	_ screen.Screen          = (*GameScreen)(nil)
	_ screen.KeyHintProvider = (*GameScreen)(nil)
	_ screen.ScoreProvider   = (*GameScreen)(nil)
	_ screen.EscapeHandler   = (*GameScreen)(nil)
	_ screen.Closer          = (*GameScreen)(nil)
)

// New creates a game screen with a fresh session against gen and det.
func New(gen backend.Generator, det backend.Detector, opts Options) *GameScreen {
	orch := session.New(gen, det,
		session.WithLogger(opts.Log),
		session.WithModalThreshold(opts.ModalThreshold),
		session.WithCallTimeout(opts.CallTimeout),
		session.WithScoring(opts.MaxScore, opts.MaxIncrement),
	)

	player := narration.New()
	if opts.StageDelay > 0 {
		player.StageDelay = opts.StageDelay
	}
	if opts.CharDelay > 0 {
		player.CharDelay = opts.CharDelay
	}

	words := opts.Words
	if words.Validate() != nil {
		words = wordbank.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	return &GameScreen{
		orch:   orch,
		player: player,
		timer:  modal.NewTimer(opts.ModalDelay),
		input:  components.NewTextInput("Describe something weird happening on the road...", maxPromptLen),
		words:  words,
		rng:    rng,
		slot:   newSlotGame(),
		clap:   newClapGame(words),
		blank:  newBlankGame(),
		log:    opts.Log,
	}
}

// Session exposes the orchestrator, mainly for tests.
func (g *GameScreen) Session() *session.Orchestrator { return g.orch }

func (g *GameScreen) Init() tea.Cmd {
	return tea.Batch(g.input.Init(), g.sync())
}

func (g *GameScreen) Title() string {
	return g.orch.Snapshot().View.Title()
}

// Score returns the running totals for the header.
func (g *GameScreen) Score() (points, progress int) {
	st := g.orch.Snapshot()
	return st.Points, st.Progress
}

// HandlesEscape keeps esc inside the screen while an overlay, a mini-game or
// the image grid has focus.
func (g *GameScreen) HandlesEscape() bool {
	if g.share.IsOpen() || g.focus == focusImages {
		return true
	}
	return g.orch.Snapshot().View != session.ViewChat
}

// Close tears the session down and drops the pending modal.
func (g *GameScreen) Close() {
	g.timer.Cancel()
	g.orch.Close()
}

func (g *GameScreen) KeyHints() []layout.KeyHint {
	if g.share.IsOpen() {
		return []layout.KeyHint{{Key: "Enter", Description: "Close"}}
	}
	nav := []layout.KeyHint{
		{Key: "F1-F4", Description: "Chat/Slots/Clap/Blanks"},
		{Key: "Ctrl+X", Description: "Skip talk"},
	}
	switch g.orch.Snapshot().View {
	case session.ViewSlotMachine:
		return append([]layout.KeyHint{
			{Key: "S", Description: "Spin"},
			{Key: "←→", Description: "Reel"},
			{Key: "Enter", Description: "Add word"},
			{Key: "U", Description: "Use all"},
		}, nav...)
	case session.ViewClapWords:
		return append([]layout.KeyHint{
			{Key: "Space", Description: "Clap"},
			{Key: "R", Description: "Restart"},
			{Key: "Enter", Description: "Use"},
		}, nav...)
	case session.ViewFillBlank:
		return append([]layout.KeyHint{
			{Key: "↑↓", Description: "Blank"},
			{Key: "←→", Description: "Word"},
			{Key: "N", Description: "New"},
			{Key: "Enter", Description: "Use"},
		}, nav...)
	}
	if g.focus == focusImages {
		return append([]layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Pick"},
			{Key: "R", Description: "Regenerate"},
			{Key: "Tab", Description: "Prompt"},
		}, nav...)
	}
	return append([]layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "↑", Description: "Last prompt"},
		{Key: "Tab", Description: "Images"},
		{Key: "Esc", Description: "Home"},
	}, nav...)
}

func (g *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case session.GenerationDoneMsg, session.DetectionDoneMsg:
		g.orch.Update(msg)

	case narration.FinishedMsg:
		r := msg.Result
		g.orch.FinalizeScore(r.Points, r.Score, r.InteractionCount)

	case modal.FireMsg:
		if g.timer.Fired(msg) {
			st := g.orch.Snapshot()
			if st.ModalSignal {
				g.share.Open(st.Points, st.Progress)
				g.orch.ResetModalSignal()
			}
		}

	case modal.ClosedMsg:
		g.orch.ResetInteractionCount()

	case clapTickMsg:
		cmds = append(cmds, g.clap.tick(msg, g.orch.Snapshot().View == session.ViewClapWords))

	case tea.KeyPressMsg:
		cmds = append(cmds, g.handleKey(msg))

	default:
		cmds = append(cmds, g.player.Update(msg))
		var cmd tea.Cmd
		g.input, cmd = g.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, g.sync())
	return g, tea.Batch(cmds...)
}

// sync reconciles the presentation with the session snapshot: it starts
// narration for a new dialog, arms or cancels the modal delay and mirrors
// the draft prompt into the input.
func (g *GameScreen) sync() tea.Cmd {
	st := g.orch.Snapshot()
	var cmds []tea.Cmd

	cmds = append(cmds, g.player.Play(st.Dialog, st.DialogRev))

	switch {
	case st.ModalSignal && st.ModalRev != g.modalRev:
		g.modalRev = st.ModalRev
		cmds = append(cmds, g.timer.Arm())
	case !st.ModalSignal && g.timer.Pending():
		g.timer.Cancel()
	}

	if st.Prompt != g.input.Value() {
		g.input.SetValue(st.Prompt)
	}
	g.input.SetBusy(st.Generating)

	if last, ok := st.LastImageChoices(); ok {
		g.cursor = max(0, min(g.cursor, len(last.Images)-1))
	} else {
		g.cursor = 0
	}

	return tea.Batch(cmds...)
}

func (g *GameScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if g.share.IsOpen() {
		return g.share.Update(msg)
	}

	switch msg.String() {
	case "ctrl+x":
		return g.player.Skip()
	case "f1":
		return g.switchView(session.ViewChat)
	case "f2":
		return g.switchView(session.ViewSlotMachine)
	case "f3":
		return g.switchView(session.ViewClapWords)
	case "f4":
		return g.switchView(session.ViewFillBlank)
	}

	switch g.orch.Snapshot().View {
	case session.ViewSlotMachine:
		return g.slotKey(msg)
	case session.ViewClapWords:
		return g.clapKey(msg)
	case session.ViewFillBlank:
		return g.blankKey(msg)
	}

	if g.focus == focusImages {
		return g.imagesKey(msg)
	}
	return g.inputKey(msg)
}

func (g *GameScreen) switchView(v session.View) tea.Cmd {
	g.orch.SwitchView(v)
	g.focus = focusInput
	switch v {
	case session.ViewSlotMachine:
		if !g.slot.spin.Complete() {
			g.slot.spin = g.words.SpinSlots(g.rng)
		}
	case session.ViewClapWords:
		return g.clap.start()
	case session.ViewFillBlank:
		if g.blank.template == "" {
			g.blank.reset(g.words, g.rng)
		}
	}
	return nil
}

// usePrompt hands a mini-game result to the chat.
func (g *GameScreen) usePrompt(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	g.orch.SetPrompt(text)
	return g.switchView(session.ViewChat)
}

func (g *GameScreen) inputKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		g.orch.SetPrompt(g.input.Value())
		cmd := g.orch.SubmitPrompt()
		if cmd != nil {
			g.cursor = 0
		}
		return cmd
	case "tab":
		if _, ok := g.orch.Snapshot().LastImageChoices(); ok {
			g.focus = focusImages
			g.input.Blur()
		}
		return nil
	case "esc":
		return nil
	case "up":
		if id := lastUserMessage(g.orch.Snapshot()); id != "" {
			g.orch.RecallPrompt(id)
		}
		return nil
	}

	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	g.orch.SetPrompt(g.input.Value())
	return cmd
}

func (g *GameScreen) imagesKey(msg tea.KeyPressMsg) tea.Cmd {
	st := g.orch.Snapshot()
	last, ok := st.LastImageChoices()
	if !ok {
		g.focus = focusInput
		return g.input.Focus()
	}

	key := msg.String()
	switch key {
	case "tab", "esc":
		g.focus = focusInput
		return g.input.Focus()
	case "left", "h":
		if n := len(last.Images); n > 0 {
			g.cursor = (g.cursor - 1 + n) % n
		}
	case "right", "l":
		if n := len(last.Images); n > 0 {
			g.cursor = (g.cursor + 1) % n
		}
	case "enter", "space":
		return g.orch.SelectImage(last.ID, g.cursor)
	case "r":
		return g.regenerate(st, last.ID)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(last.Images) {
				g.cursor = idx
				return g.orch.SelectImage(last.ID, idx)
			}
		}
	}
	return nil
}

// regenerate resubmits the prompt that produced the image set.
func (g *GameScreen) regenerate(st session.State, imagesID string) tea.Cmd {
	for i := range st.Messages {
		if st.Messages[i].ID == imagesID && i > 0 && st.Messages[i-1].Kind == session.KindUserText {
			g.orch.RecallPrompt(st.Messages[i-1].ID)
			g.focus = focusInput
			return tea.Batch(g.input.Focus(), g.orch.SubmitPrompt())
		}
	}
	return nil
}

func lastUserMessage(st session.State) string {
	for i := len(st.Messages) - 1; i >= 0; i-- {
		if st.Messages[i].Kind == session.KindUserText {
			return st.Messages[i].ID
		}
	}
	return ""
}

// mood picks the mascot art for the current narration.
func mood(st session.State) components.MascotMood {
	switch st.Dialog.Key {
	case dialog.Loading, dialog.ImageSelected:
		return components.MascotThinking
	case dialog.Error:
		return components.MascotOops
	case dialog.DetectionResultKey:
		return components.MascotProud
	}
	return components.MascotIdle
}
