package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/dialog"
	"github.com/abhisek/weirdtraffic/internal/session"
	"github.com/abhisek/weirdtraffic/internal/wordbank"
)

type fixedDetector struct {
	score float64
	err   error
}

func (d fixedDetector) Name() string { return "fixed" }

func (d fixedDetector) Detect(_ context.Context, req backend.DetectRequest) (*backend.DetectResponse, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &backend.DetectResponse{SimilarityScore: d.score, DetectedImage: req.ImageBase64}, nil
}

type failingGenerator struct{}

func (failingGenerator) Name() string { return "failing" }

func (failingGenerator) Generate(context.Context, backend.GenerateRequest) (*backend.GenerateResponse, error) {
	return nil, errors.New("no road today")
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(g *GameScreen, s string) {
	for _, r := range s {
		g.Update(keyPress(r))
	}
}

func newTestGame(t *testing.T, gen backend.Generator, det backend.Detector, opts Options) *GameScreen {
	t.Helper()
	opts.Log = zerolog.Nop()
	if opts.ModalDelay == 0 {
		opts.ModalDelay = time.Millisecond
	}
	opts.Seed = 42
	g := New(gen, det, opts)
	g.player.StageDelay = 0
	g.player.CharDelay = 0
	t.Cleanup(g.Close)
	return g
}

func synthetic() *backend.Synthetic {
	return backend.NewSynthetic(backend.SyntheticConfig{Images: 4, Size: 8, Seed: 1})
}

// drain runs cmd and feeds every message it yields back into g until the
// screen goes quiet. Commands that do not finish quickly (cursor blink,
// clap ticks) are abandoned.
func drain(t *testing.T, g *GameScreen, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 10000, "screen never settled")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runQuick(next)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		_, follow := g.Update(msg)
		queue = append(queue, follow)
	}
}

func runQuick(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

func submit(t *testing.T, g *GameScreen, prompt string) {
	t.Helper()
	typeText(g, prompt)
	_, cmd := g.Update(specialKey(tea.KeyEnter))
	drain(t, g, cmd)
}

func TestInit_PlaysWelcome(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{score: 40}, Options{})
	drain(t, g, g.Init())

	assert.Equal(t, dialog.Script(dialog.Welcome).Expanded, g.player.Text())
	assert.Equal(t, "Chat", g.Title())
}

func TestPromptToScore(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{score: 40}, Options{})
	drain(t, g, g.Init())

	submit(t, g, "goose directing traffic")

	st := g.orch.Snapshot()
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "goose directing traffic", st.Messages[0].Text)
	assert.Len(t, st.Messages[1].Images, 4)
	assert.Empty(t, g.input.Value(), "input cleared after submit")
	assert.Equal(t, dialog.Script(dialog.Completed).Expanded, g.player.Text())

	g.Update(specialKey(tea.KeyTab))
	assert.Equal(t, focusImages, g.focus)

	_, cmd := g.Update(keyPress('2'))
	require.NotNil(t, cmd)
	drain(t, g, cmd)

	st = g.orch.Snapshot()
	require.NotNil(t, st.Messages[1].Detection)
	assert.Equal(t, 1, st.Messages[1].SelectedIndex)
	assert.Equal(t, 6, st.Points)
	assert.Equal(t, 6, st.Progress)
	points, progress := g.Score()
	assert.Equal(t, 6, points)
	assert.Equal(t, 6, progress)
	assert.Contains(t, g.player.Text(), "You've earned 6 points!")
}

func TestChosenTileShowsDetectedImage(t *testing.T) {
	m := session.Message{
		Kind:          session.KindImageChoices,
		Images:        []string{"data:a", "data:b", "data:c"},
		SelectedIndex: 1,
	}

	ref, detected := tileImage(m, 1)
	assert.Equal(t, "data:b", ref, "candidate shown until detection finishes")
	assert.False(t, detected)

	m.Detection = &session.Detection{Image: "data:detected", Score: 40, Points: 6}
	ref, detected = tileImage(m, 1)
	assert.Equal(t, "data:detected", ref)
	assert.True(t, detected)

	ref, detected = tileImage(m, 0)
	assert.Equal(t, "data:a", ref)
	assert.False(t, detected)

	m.Detection.Image = ""
	ref, _ = tileImage(m, 1)
	assert.Equal(t, "data:b", ref)
}

func TestGenerationFailureShowsError(t *testing.T) {
	g := newTestGame(t, failingGenerator{}, fixedDetector{}, Options{})
	drain(t, g, g.Init())

	submit(t, g, "tractor")

	st := g.orch.Snapshot()
	require.Len(t, st.Messages, 1)
	assert.False(t, st.Generating)
	assert.Equal(t, dialog.Error, st.Dialog.Key)
	assert.Equal(t, dialog.Script(dialog.Error).Expanded, g.player.Text())
}

func TestShareModalAfterThreshold(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{score: 10}, Options{ModalThreshold: 1})
	drain(t, g, g.Init())

	submit(t, g, "llama on the roundabout")
	g.Update(specialKey(tea.KeyTab))
	_, cmd := g.Update(specialKey(tea.KeyEnter))
	drain(t, g, cmd)

	require.True(t, g.share.IsOpen(), "share modal opens once the delay fires")
	st := g.orch.Snapshot()
	assert.False(t, st.ModalSignal, "signal consumed when the modal opens")
	assert.Equal(t, 1, st.InteractionCount)
	assert.True(t, g.HandlesEscape())
	assert.Contains(t, g.View(120, 40), "You're on a roll!")

	_, cmd = g.Update(specialKey(tea.KeyEnter))
	drain(t, g, cmd)
	assert.False(t, g.share.IsOpen())
	assert.Zero(t, g.orch.Snapshot().InteractionCount, "closing the modal resets the count")
}

func TestCloseCancelsPendingModal(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{score: 10}, Options{ModalThreshold: 1, ModalDelay: time.Hour})
	drain(t, g, g.Init())

	submit(t, g, "clown at the bus stop")
	g.Update(specialKey(tea.KeyTab))
	_, cmd := g.Update(specialKey(tea.KeyEnter))
	drain(t, g, cmd)

	require.True(t, g.timer.Pending())
	g.Close()
	assert.False(t, g.timer.Pending())
	assert.True(t, g.orch.Closed())
}

func TestRecallLastPrompt(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	drain(t, g, g.Init())
	submit(t, g, "panda surfing")

	g.Update(specialKey(tea.KeyUp))
	assert.Equal(t, "panda surfing", g.input.Value())
	assert.Equal(t, "panda surfing", g.orch.Snapshot().Prompt)
}

func TestRegenerate(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	drain(t, g, g.Init())
	submit(t, g, "hamster in a puddle")

	g.Update(specialKey(tea.KeyTab))
	_, cmd := g.Update(keyPress('r'))
	drain(t, g, cmd)

	st := g.orch.Snapshot()
	require.Len(t, st.Messages, 4)
	assert.Equal(t, "hamster in a puddle", st.Messages[2].Text)
	assert.Equal(t, focusInput, g.focus)
}

func TestSlotMachine(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	drain(t, g, g.Init())

	g.Update(specialKey(tea.KeyF2))
	st := g.orch.Snapshot()
	assert.Equal(t, session.ViewSlotMachine, st.View)
	assert.Equal(t, dialog.SlotMachineWelcome, st.Dialog.Key)
	require.True(t, g.slot.spin.Complete(), "entering the view spins once")
	assert.True(t, g.HandlesEscape())

	g.Update(keyPress('s'))
	g.Update(specialKey(tea.KeyRight))
	g.Update(specialKey(tea.KeyEnter))
	noun := g.slot.spin.Word(wordbank.ReelNoun)
	assert.Equal(t, noun, g.orch.Snapshot().Prompt)

	spin := g.slot.spin
	g.Update(keyPress('u'))
	st = g.orch.Snapshot()
	assert.Equal(t, session.ViewChat, st.View)
	assert.Equal(t, spin.Prompt(), st.Prompt)
	assert.Equal(t, spin.Prompt(), g.input.Value())
}

func TestClapWords(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	drain(t, g, g.Init())

	g.Update(specialKey(tea.KeyF3))
	assert.Equal(t, session.ViewClapWords, g.orch.Snapshot().View)

	var picked []string
	for range wordbank.PhaseCount() {
		picked = append(picked, g.clap.current())
		g.Update(specialKey(tea.KeySpace))
	}
	require.True(t, g.clap.round.Done())

	g.Update(specialKey(tea.KeyEnter))
	st := g.orch.Snapshot()
	assert.Equal(t, session.ViewChat, st.View)
	assert.Equal(t, strings.Join(picked, " "), st.Prompt)
	assert.False(t, g.clap.round.Done(), "round restarts after use")
}

func TestClapTicksIgnoreStaleRuns(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	g.Update(specialKey(tea.KeyF3))
	first := g.clap.run
	g.Update(specialKey(tea.KeyF1))
	g.Update(specialKey(tea.KeyF3))

	before := g.clap.index
	g.Update(clapTickMsg{run: first})
	assert.Equal(t, before, g.clap.index)
	assert.Nil(t, g.clap.tick(clapTickMsg{run: first}, true))

	g.Update(clapTickMsg{run: g.clap.run})
	assert.Equal(t, (before+1)%len(g.clap.round.Words()), g.clap.index)
}

func TestFillBlank(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	drain(t, g, g.Init())

	g.Update(specialKey(tea.KeyF4))
	require.NotEmpty(t, g.blank.template)
	require.Len(t, g.blank.pickers, wordbank.BlankCount(g.blank.template))

	g.Update(specialKey(tea.KeyDown))
	g.Update(specialKey(tea.KeyRight))
	g.Update(specialKey(tea.KeyEnter))

	st := g.orch.Snapshot()
	assert.Equal(t, session.ViewChat, st.View)
	assert.NotEmpty(t, st.Prompt)
	assert.NotContains(t, st.Prompt, wordbank.Blank)
}

func TestEscapeReturnsToChat(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{}, Options{})
	assert.False(t, g.HandlesEscape())

	g.Update(specialKey(tea.KeyF4))
	g.Update(specialKey(tea.KeyEscape))
	assert.Equal(t, session.ViewChat, g.orch.Snapshot().View)
	assert.False(t, g.HandlesEscape())
}

func TestView_Sizes(t *testing.T) {
	g := newTestGame(t, synthetic(), fixedDetector{score: 55}, Options{})
	drain(t, g, g.Init())
	submit(t, g, "robot snoring on the middle lane")

	assert.Contains(t, g.View(120, 40), "robot snoring on the middle lane")
	assert.Contains(t, g.View(80, 24), "Press Tab to choose an image.")

	for _, key := range []rune{tea.KeyF2, tea.KeyF3, tea.KeyF4} {
		g.Update(specialKey(key))
		assert.NotEmpty(t, g.View(120, 40))
	}
	assert.NotEmpty(t, g.KeyHints())
}
