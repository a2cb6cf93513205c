package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/dialog"
)

type stubGenerator struct {
	mu      sync.Mutex
	calls   []backend.GenerateRequest
	images  []string
	err     error
	panicky bool
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, req backend.GenerateRequest) (*backend.GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.panicky {
		panic("boom")
	}
	if g.err != nil {
		return nil, g.err
	}
	resp := &backend.GenerateResponse{}
	for _, img := range g.images {
		resp.Images = append(resp.Images, backend.GeneratedImage{ImageData: img})
	}
	return resp, nil
}

type stubDetector struct {
	mu     sync.Mutex
	calls  []backend.DetectRequest
	scores []float64
	err    error

	// noImage makes the detector answer without an image.
	noImage bool
}

func (d *stubDetector) Name() string { return "stub" }

func (d *stubDetector) Detect(_ context.Context, req backend.DetectRequest) (*backend.DetectResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, req)
	if d.err != nil {
		return nil, d.err
	}
	score := 50.0
	if len(d.scores) > 0 {
		score, d.scores = d.scores[0], d.scores[1:]
	}
	if d.noImage {
		return &backend.DetectResponse{SimilarityScore: score}, nil
	}
	return &backend.DetectResponse{SimilarityScore: score, DetectedImage: "detected"}, nil
}

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *stubGenerator, *stubDetector) {
	t.Helper()
	gen := &stubGenerator{images: []string{"aaa", "bbb", "ccc", "ddd"}}
	det := &stubDetector{}
	o := New(gen, det, opts...)
	t.Cleanup(o.Close)
	return o, gen, det
}

// run executes cmd synchronously and feeds its result back.
func run(t *testing.T, o *Orchestrator, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	require.True(t, o.Update(cmd()))
}

// generate submits prompt and completes the generation.
func generate(t *testing.T, o *Orchestrator, prompt string) Message {
	t.Helper()
	o.SetPrompt(prompt)
	run(t, o, o.SubmitPrompt())
	m, ok := o.Snapshot().LastImageChoices()
	require.True(t, ok)
	return m
}

func TestNew_InitialState(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	s := o.Snapshot()

	assert.Equal(t, ViewChat, s.View)
	assert.Equal(t, dialog.Welcome, s.Dialog.Key)
	assert.Empty(t, s.Messages)
	assert.Zero(t, s.Points)
	assert.Zero(t, s.Progress)
	assert.Zero(t, s.InteractionCount)
	assert.False(t, s.ModalSignal)
	assert.False(t, s.Generating)
	assert.NotEmpty(t, s.SessionID)
}

func TestSubmitPrompt_AppendsUserAndPlaceholder(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	o.SwitchView(ViewSlotMachine)
	o.SetPrompt("a cat driving a bus")

	cmd := o.SubmitPrompt()
	require.NotNil(t, cmd)

	s := o.Snapshot()
	require.Len(t, s.Messages, 2)
	assert.Equal(t, KindUserText, s.Messages[0].Kind)
	assert.Equal(t, "a cat driving a bus", s.Messages[0].Text)
	assert.Equal(t, KindImageChoices, s.Messages[1].Kind)
	assert.True(t, s.Messages[1].Loading)
	assert.NotEqual(t, s.Messages[0].ID, s.Messages[1].ID)
	assert.True(t, s.Generating)
	assert.Empty(t, s.Prompt)
	assert.Equal(t, ViewChat, s.View)
	assert.Equal(t, dialog.Loading, s.Dialog.Key)

	require.True(t, o.Update(cmd()))
	s = o.Snapshot()
	assert.False(t, s.Generating)
	assert.False(t, s.Messages[1].Loading)
	assert.Equal(t, []string{
		backend.DataURI("aaa"), backend.DataURI("bbb"),
		backend.DataURI("ccc"), backend.DataURI("ddd"),
	}, s.Messages[1].Images)
	assert.Equal(t, dialog.Completed, s.Dialog.Key)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "a cat driving a bus", gen.calls[0].Prompt)
}

func TestSubmitPrompt_BlankIsNoop(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	before := o.Snapshot()

	for _, p := range []string{"", "   ", "\t\n"} {
		o.SetPrompt(p)
		assert.Nil(t, o.SubmitPrompt(), "prompt %q", p)
	}

	s := o.Snapshot()
	assert.Empty(t, s.Messages)
	assert.False(t, s.Generating)
	assert.Equal(t, before.DialogRev, s.DialogRev)
}

func TestSubmitPrompt_GuardWhileGenerating(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.SetPrompt("first")
	cmd := o.SubmitPrompt()
	require.NotNil(t, cmd)

	o.SetPrompt("second")
	assert.Nil(t, o.SubmitPrompt())
	s := o.Snapshot()
	assert.Len(t, s.Messages, 2)
	assert.Equal(t, "second", s.Prompt)

	run(t, o, cmd)
	assert.NotNil(t, o.SubmitPrompt())
}

func TestSubmitPrompt_FailureRollsBackPlaceholder(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	gen.err = &backend.StatusError{Code: 500, Body: "down"}

	o.SetPrompt("a dog")
	run(t, o, o.SubmitPrompt())

	s := o.Snapshot()
	require.Len(t, s.Messages, 1)
	assert.Equal(t, KindUserText, s.Messages[0].Kind)
	assert.Equal(t, "a dog", s.Messages[0].Text)
	assert.False(t, s.Generating)
	assert.Equal(t, dialog.Error, s.Dialog.Key)
}

func TestSubmitPrompt_EmptyResponseIsFailure(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	gen.images = nil

	o.SetPrompt("nothing")
	cmd := o.SubmitPrompt()
	msg := cmd().(GenerationDoneMsg)
	assert.ErrorIs(t, msg.Err, backend.ErrNoImages)

	o.Update(msg)
	s := o.Snapshot()
	assert.Len(t, s.Messages, 1)
	assert.Equal(t, dialog.Error, s.Dialog.Key)
}

func TestSubmitPrompt_PanicIsFailure(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	gen.panicky = true

	o.SetPrompt("explode")
	run(t, o, o.SubmitPrompt())

	s := o.Snapshot()
	assert.False(t, s.Generating)
	assert.Len(t, s.Messages, 1)
	assert.Equal(t, dialog.Error, s.Dialog.Key)
}

func TestSelectImage_DetectionSuccess(t *testing.T) {
	o, _, det := newTestOrchestrator(t)
	det.scores = []float64{40}
	m := generate(t, o, "a flying car")

	cmd := o.SelectImage(m.ID, 2)
	require.NotNil(t, cmd)

	s := o.Snapshot()
	got, _ := s.Message(m.ID)
	idx, ok := got.Selected()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.True(t, got.Detecting)
	assert.Equal(t, dialog.ImageSelected, s.Dialog.Key)

	run(t, o, cmd)

	require.Len(t, det.calls, 1)
	assert.Equal(t, "a flying car", det.calls[0].Prompt)
	assert.Equal(t, "ccc", det.calls[0].ImageBase64)

	s = o.Snapshot()
	got, _ = s.Message(m.ID)
	assert.False(t, got.Detecting)
	require.NotNil(t, got.Detection)
	assert.Equal(t, 40.0, got.Detection.Score)
	assert.Equal(t, 6, got.Detection.Points)
	assert.Equal(t, backend.DataURI("detected"), got.Detection.Image)
	assert.Equal(t, 1, s.InteractionCount)

	require.Equal(t, dialog.KindDetectionResult, s.Dialog.Kind)
	require.NotNil(t, s.Dialog.Result)
	assert.Equal(t, 40.0, s.Dialog.Result.Score)
	assert.Equal(t, 6, s.Dialog.Result.Points)
	assert.Equal(t, 1, s.Dialog.Result.InteractionCount)

	// Points are credited only when the narration finishes.
	assert.Zero(t, s.Points)
	assert.Zero(t, s.Progress)
}

func TestSelectImage_EmptyDetectedImageFallsBackToChoice(t *testing.T) {
	o, _, det := newTestOrchestrator(t)
	det.noImage = true
	m := generate(t, o, "a tram on stilts")

	run(t, o, o.SelectImage(m.ID, 1))

	got, _ := o.Snapshot().Message(m.ID)
	require.NotNil(t, got.Detection)
	assert.Equal(t, m.Images[1], got.Detection.Image)
	assert.NotEqual(t, backend.DataURI(""), got.Detection.Image)
}

func TestSelectImage_InvalidCallsAreNoops(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	m := generate(t, o, "x")
	s := o.Snapshot()

	assert.Nil(t, o.SelectImage("missing", 0))
	assert.Nil(t, o.SelectImage(s.Messages[0].ID, 0), "user message")
	assert.Nil(t, o.SelectImage(m.ID, -1))
	assert.Nil(t, o.SelectImage(m.ID, len(m.Images)))

	assert.NotNil(t, o.SelectImage(m.ID, 0))
	assert.Nil(t, o.SelectImage(m.ID, 1), "detection in flight")
}

func TestSelectImage_WhileLoadingIsNoop(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.SetPrompt("x")
	cmd := o.SubmitPrompt()
	require.NotNil(t, cmd)

	m, _ := o.Snapshot().LastImageChoices()
	assert.Nil(t, o.SelectImage(m.ID, 0))
}

func TestSelectImage_FailureLeavesSelection(t *testing.T) {
	o, _, det := newTestOrchestrator(t)
	m := generate(t, o, "x")
	det.err = &backend.ErrUnavailable{Err: errors.New("connection refused")}

	run(t, o, o.SelectImage(m.ID, 1))

	s := o.Snapshot()
	got, _ := s.Message(m.ID)
	assert.False(t, got.Detecting)
	assert.Nil(t, got.Detection)
	idx, ok := got.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Zero(t, s.InteractionCount)
	assert.Equal(t, dialog.Error, s.Dialog.Key)
}

func TestSelectImage_OutOfRangeScoreIsClamped(t *testing.T) {
	o, _, det := newTestOrchestrator(t)
	det.scores = []float64{150}
	m := generate(t, o, "x")

	run(t, o, o.SelectImage(m.ID, 0))

	got, _ := o.Snapshot().Message(m.ID)
	require.NotNil(t, got.Detection)
	assert.Equal(t, 100.0, got.Detection.Score)
	assert.Equal(t, 0, got.Detection.Points)
}

func TestOverlappingDetections_BothCounted(t *testing.T) {
	o, _, det := newTestOrchestrator(t)
	det.scores = []float64{10, 90}
	a := generate(t, o, "first")
	b := generate(t, o, "second")

	cmdA := o.SelectImage(a.ID, 0)
	cmdB := o.SelectImage(b.ID, 0)
	require.NotNil(t, cmdA)
	require.NotNil(t, cmdB)

	msgA := cmdA()
	msgB := cmdB()

	// Completions arrive out of order.
	o.Update(msgB)
	o.Update(msgA)

	s := o.Snapshot()
	assert.Equal(t, 2, s.InteractionCount)

	gotA, _ := s.Message(a.ID)
	gotB, _ := s.Message(b.ID)
	require.NotNil(t, gotA.Detection)
	require.NotNil(t, gotB.Detection)
	assert.Equal(t, 10.0, gotA.Detection.Score)
	assert.Equal(t, 90.0, gotB.Detection.Score)

	// The narration shows the last completion.
	require.NotNil(t, s.Dialog.Result)
	assert.Equal(t, 2, s.Dialog.Result.InteractionCount)
}

func TestConcurrentDetections_CountIsAtomic(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	gen.images = []string{"a"}

	const n = 20
	var ids []string
	for i := range n {
		ids = append(ids, generate(t, o, fmt.Sprintf("p%d", i)).ID)
	}

	var cmds []tea.Cmd
	for _, id := range ids {
		cmds = append(cmds, o.SelectImage(id, 0))
	}

	var wg sync.WaitGroup
	for _, cmd := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Update(cmd())
		}()
	}
	wg.Wait()

	assert.Equal(t, n, o.Snapshot().InteractionCount)
}

func TestFinalizeScore_AccumulatesAndCaps(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	o.FinalizeScore(6, 40, 1)
	s := o.Snapshot()
	assert.Equal(t, 6, s.Points)
	assert.Equal(t, 6, s.Progress)

	for range 20 {
		o.FinalizeScore(0, 100, 1)
	}
	s = o.Snapshot()
	assert.Equal(t, 6, s.Points)
	assert.Equal(t, 100, s.Progress)
}

func TestFinalizeScore_NegativePointsIgnored(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.FinalizeScore(5, 0, 1)
	o.FinalizeScore(-3, 0, 1)
	assert.Equal(t, 5, o.Snapshot().Points)
}

func TestModalSignal_Threshold(t *testing.T) {
	tests := []struct {
		name       string
		detections int
		want       bool
	}{
		{"four detections", 4, false},
		{"five detections", 5, true},
		{"six detections", 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, gen, _ := newTestOrchestrator(t)
			gen.images = []string{"a"}

			for i := range tt.detections {
				m := generate(t, o, fmt.Sprintf("p%d", i))
				run(t, o, o.SelectImage(m.ID, 0))
				r := o.Snapshot().Dialog.Result
				require.NotNil(t, r)
				o.FinalizeScore(r.Points, r.Score, r.InteractionCount)
			}
			assert.Equal(t, tt.want, o.Snapshot().ModalSignal)
		})
	}
}

func TestModalSignal_RaisedAgainBumpsRev(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, WithModalThreshold(2))

	o.FinalizeScore(1, 50, 2)
	first := o.Snapshot()
	assert.True(t, first.ModalSignal)

	o.FinalizeScore(1, 50, 3)
	second := o.Snapshot()
	assert.True(t, second.ModalSignal)
	assert.Greater(t, second.ModalRev, first.ModalRev)

	o.ResetModalSignal()
	o.ResetInteractionCount()
	s := o.Snapshot()
	assert.False(t, s.ModalSignal)
	assert.Zero(t, s.InteractionCount)
}

func TestSwitchView(t *testing.T) {
	tests := []struct {
		view View
		key  dialog.Key
	}{
		{ViewSlotMachine, dialog.SlotMachineWelcome},
		{ViewClapWords, dialog.ClapWordsWelcome},
		{ViewFillBlank, dialog.FillBlankWelcome},
		{ViewChat, dialog.Welcome},
	}
	o, _, _ := newTestOrchestrator(t)
	for _, tt := range tests {
		before := o.Snapshot().DialogRev
		o.SwitchView(tt.view)
		s := o.Snapshot()
		assert.Equal(t, tt.view, s.View)
		assert.Equal(t, tt.key, s.Dialog.Key)
		assert.Greater(t, s.DialogRev, before)
	}
}

func TestSwitchView_UnknownIgnored(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.SwitchView("bogus")
	assert.Equal(t, ViewChat, o.Snapshot().View)
}

func TestSwitchView_DoesNotTouchMessages(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	generate(t, o, "keep me")
	before := o.Snapshot().Messages

	o.SwitchView(ViewClapWords)
	assert.Equal(t, before, o.Snapshot().Messages)
}

func TestPromptHelpers(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	o.AppendWord("purple")
	o.AppendWord("  elephant ")
	o.AppendWord("")
	assert.Equal(t, "purple elephant", o.Snapshot().Prompt)

	generate(t, o, "a robot chef")
	s := o.Snapshot()
	assert.True(t, o.RecallPrompt(s.Messages[len(s.Messages)-2].ID))
	assert.Equal(t, "a robot chef", o.Snapshot().Prompt)
	assert.False(t, o.RecallPrompt(s.Messages[len(s.Messages)-1].ID))
}

func TestClose_DropsLateResults(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	m := generate(t, o, "x")

	o.SetPrompt("y")
	genCmd := o.SubmitPrompt()
	detCmd := o.SelectImage(m.ID, 0)
	require.NotNil(t, genCmd)
	require.NotNil(t, detCmd)

	before := o.Snapshot()
	o.Close()
	assert.True(t, o.Closed())

	o.Update(genCmd())
	o.Update(detCmd())
	o.FinalizeScore(10, 0, 10)
	o.SwitchView(ViewFillBlank)

	assert.Equal(t, before, o.Snapshot())
	assert.Nil(t, o.SubmitPrompt())
}

func TestSnapshot_IsCopy(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	m := generate(t, o, "x")

	s := o.Snapshot()
	s.Messages[1].Images[0] = "mutated"
	s.Messages = nil

	got, ok := o.Snapshot().Message(m.ID)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", got.Images[0])
}

func TestMessageIDs_Unique(t *testing.T) {
	o, gen, _ := newTestOrchestrator(t)
	gen.images = []string{"a"}
	seen := map[string]bool{}
	for i := range 50 {
		generate(t, o, fmt.Sprintf("p%d", i))
	}
	for _, m := range o.Snapshot().Messages {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestUpdate_IgnoresForeignMessages(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	assert.False(t, o.Update(tea.KeyPressMsg{Code: 'a', Text: "a"}))
}
