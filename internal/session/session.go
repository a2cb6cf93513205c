// Package session owns the game state and the prompt → generate → select →
// detect → score flow.
//
// All mutations go through the Orchestrator. Operations that talk to the
// backend return a tea.Cmd that performs the call off the update loop; the
// resulting *DoneMsg is applied with Update. Everything else happens
// synchronously under the orchestrator's lock.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/weirdtraffic/internal/backend"
	"github.com/abhisek/weirdtraffic/internal/dialog"
	"github.com/abhisek/weirdtraffic/internal/scoring"
)

// DefaultModalThreshold is the number of detections after which the share
// modal is requested.
const DefaultModalThreshold = 5

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for session events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithModalThreshold overrides DefaultModalThreshold. Values below 1 are
// ignored.
func WithModalThreshold(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.modalThreshold = n
		}
	}
}

// WithCallTimeout bounds each backend call. Zero means no bound beyond the
// session lifetime.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.callTimeout = d }
}

// WithScoring overrides the reward and progress caps.
func WithScoring(maxScore, maxIncrement int) Option {
	return func(o *Orchestrator) {
		if maxScore > 0 {
			o.maxScore = maxScore
		}
		if maxIncrement > 0 {
			o.maxIncrement = maxIncrement
		}
	}
}

// Orchestrator coordinates the game session.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	generator backend.Generator
	detector  backend.Detector
	log       zerolog.Logger

	modalThreshold int
	maxScore       int
	maxIncrement   int
	callTimeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates an Orchestrator in its initial state: chat view, welcome
// narration, zero score.
func New(gen backend.Generator, det backend.Detector, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		generator:      gen,
		detector:       det,
		log:            zerolog.Nop(),
		modalThreshold: DefaultModalThreshold,
		maxScore:       scoring.DefaultMaxScore,
		maxIncrement:   scoring.DefaultMaxIncrement,
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.state = newState(newMessageID())
	o.log = o.log.With().Str("session_id", o.state.SessionID).Logger()
	return o
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// SetPrompt replaces the draft prompt.
func (o *Orchestrator) SetPrompt(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.state.Prompt = text
}

// AppendWord adds a word to the draft prompt, separated by a space.
func (o *Orchestrator) AppendWord(word string) {
	word = strings.TrimSpace(word)
	if word == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if strings.TrimSpace(o.state.Prompt) == "" {
		o.state.Prompt = word
		return
	}
	o.state.Prompt = strings.TrimRight(o.state.Prompt, " ") + " " + word
}

// RecallPrompt copies the text of an earlier user message into the draft.
// It reports whether the message was found.
func (o *Orchestrator) RecallPrompt(messageID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	i := o.indexOf(messageID)
	if i < 0 || o.state.Messages[i].Kind != KindUserText {
		return false
	}
	o.state.Prompt = o.state.Messages[i].Text
	return true
}

// SubmitPrompt starts generation for the draft prompt. It returns nil and
// changes nothing when the prompt is blank or a generation is in flight.
func (o *Orchestrator) SubmitPrompt() tea.Cmd {
	o.mu.Lock()
	defer o.mu.Unlock()

	prompt := o.state.Prompt
	switch {
	case o.closed:
		return nil
	case strings.TrimSpace(prompt) == "":
		o.log.Debug().Msg("submit ignored: empty prompt")
		return nil
	case o.state.Generating:
		o.log.Debug().Msg("submit ignored: generation in flight")
		return nil
	}

	o.state.Generating = true
	o.state.View = ViewChat
	o.setDialog(dialog.Script(dialog.Loading))

	o.state.Messages = append(o.state.Messages, Message{
		ID:            newMessageID(),
		Kind:          KindUserText,
		Text:          prompt,
		SelectedIndex: NoSelection,
	})
	placeholder := Message{
		ID:            newMessageID(),
		Kind:          KindImageChoices,
		Loading:       true,
		SelectedIndex: NoSelection,
	}
	o.state.Messages = append(o.state.Messages, placeholder)
	o.state.Prompt = ""

	o.log.Info().
		Str("message_id", placeholder.ID).
		Int("prompt_len", len(prompt)).
		Msg("generation started")

	gen := o.generator
	return func() (msg tea.Msg) {
		done := GenerationDoneMsg{PlaceholderID: placeholder.ID}
		defer func() {
			if r := recover(); r != nil {
				done.Images = nil
				done.Err = fmt.Errorf("generator panicked: %v", r)
			}
			msg = done
		}()

		ctx, cancel := o.callContext()
		defer cancel()
		resp, err := gen.Generate(ctx, backend.GenerateRequest{Prompt: prompt})
		if err != nil {
			done.Err = err
			return
		}
		done.Images = backend.ImageRefs(resp)
		if len(done.Images) == 0 {
			done.Err = backend.ErrNoImages
		}
		return
	}
}

// SelectImage picks a candidate of an image-choices message and starts
// detection for it. It returns nil when the message or index is invalid or
// a detection for that message is already in flight.
func (o *Orchestrator) SelectImage(messageID string, index int) tea.Cmd {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}

	i := o.indexOf(messageID)
	if i < 0 {
		o.log.Debug().Str("message_id", messageID).Msg("select ignored: unknown message")
		return nil
	}
	m := &o.state.Messages[i]
	switch {
	case m.Kind != KindImageChoices, m.Loading:
		o.log.Debug().Str("message_id", messageID).Msg("select ignored: no candidates")
		return nil
	case m.Detecting:
		o.log.Debug().Str("message_id", messageID).Msg("select ignored: detection in flight")
		return nil
	case index < 0 || index >= len(m.Images):
		o.log.Debug().Str("message_id", messageID).Int("index", index).Msg("select ignored: index out of range")
		return nil
	}

	prompt := ""
	if i > 0 && o.state.Messages[i-1].Kind == KindUserText {
		prompt = o.state.Messages[i-1].Text
	} else {
		o.log.Warn().Str("message_id", messageID).Msg("image choices without a preceding prompt")
	}

	m.SelectedIndex = index
	m.Detecting = true
	image := m.Images[index]
	o.setDialog(dialog.Script(dialog.ImageSelected))

	o.log.Info().Str("message_id", messageID).Int("index", index).Msg("detection started")

	det := o.detector
	return func() (msg tea.Msg) {
		done := DetectionDoneMsg{MessageID: messageID}
		defer func() {
			if r := recover(); r != nil {
				done.Response = nil
				done.Err = fmt.Errorf("detector panicked: %v", r)
			}
			msg = done
		}()

		ctx, cancel := o.callContext()
		defer cancel()
		done.Response, done.Err = det.Detect(ctx, backend.DetectRequest{
			Prompt:      prompt,
			ImageBase64: backend.StripDataURI(image),
		})
		if done.Err == nil && done.Response == nil {
			done.Err = fmt.Errorf("detector returned no result")
		}
		return
	}
}

// Update applies a completion message. It reports whether msg was one of
// the orchestrator's messages.
func (o *Orchestrator) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case GenerationDoneMsg:
		o.applyGeneration(msg)
		return true
	case DetectionDoneMsg:
		o.applyDetection(msg)
		return true
	}
	return false
}

func (o *Orchestrator) applyGeneration(msg GenerationDoneMsg) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.state.Generating = false
	i := o.indexOf(msg.PlaceholderID)

	if msg.Err != nil {
		o.log.Error().Err(msg.Err).Str("message_id", msg.PlaceholderID).Msg("generation failed")
		if i >= 0 {
			o.state.Messages = append(o.state.Messages[:i], o.state.Messages[i+1:]...)
		}
		o.setDialog(dialog.Script(dialog.Error))
		return
	}
	if i < 0 {
		o.log.Warn().Str("message_id", msg.PlaceholderID).Msg("generation finished for unknown placeholder")
		return
	}

	m := &o.state.Messages[i]
	m.Images = msg.Images
	m.Loading = false
	o.setDialog(dialog.Script(dialog.Completed))
	o.log.Info().Str("message_id", m.ID).Int("images", len(m.Images)).Msg("generation finished")
}

func (o *Orchestrator) applyDetection(msg DetectionDoneMsg) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	i := o.indexOf(msg.MessageID)
	if i < 0 || !o.state.Messages[i].Detecting {
		o.log.Warn().Str("message_id", msg.MessageID).Msg("detection finished for unknown selection")
		return
	}
	m := &o.state.Messages[i]
	m.Detecting = false

	if msg.Err != nil {
		o.log.Error().Err(msg.Err).Str("message_id", m.ID).Msg("detection failed")
		o.setDialog(dialog.Script(dialog.Error))
		return
	}

	score, outOfRange := scoring.Clamp(msg.Response.SimilarityScore)
	if outOfRange {
		o.log.Warn().
			Float64("raw_score", msg.Response.SimilarityScore).
			Float64("score", score).
			Msg("similarity score out of range")
	}
	points := scoring.RewardPoints(score, o.maxScore)

	m.Detection = &Detection{
		Image:  detectedImage(*m, msg.Response.DetectedImage),
		Score:  score,
		Points: points,
	}
	o.state.InteractionCount++
	o.setDialog(dialog.Detection(score, points, o.state.InteractionCount))

	o.log.Info().
		Str("message_id", m.ID).
		Float64("score", score).
		Int("points", points).
		Int("interactions", o.state.InteractionCount).
		Msg("detection finished")
}

// FinalizeScore credits a detection once its narration finished. The
// arguments are the values frozen into the detection-result narration.
func (o *Orchestrator) FinalizeScore(points int, score float64, countAtDetection int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	if points < 0 {
		o.log.Warn().Int("points", points).Msg("negative reward ignored")
		points = 0
	}
	score, _ = scoring.Clamp(score)

	o.state.Points += points
	o.state.Progress = scoring.AddProgress(o.state.Progress, scoring.ProgressIncrement(score, o.maxIncrement))

	if countAtDetection >= o.modalThreshold {
		o.state.ModalSignal = true
		o.state.ModalRev++
	}

	o.log.Info().
		Int("points", o.state.Points).
		Int("progress", o.state.Progress).
		Int("count_at_detection", countAtDetection).
		Bool("modal", o.state.ModalSignal).
		Msg("score finalized")
}

// SwitchView changes the content pane and plays its welcome narration.
// Unknown views are ignored.
func (o *Orchestrator) SwitchView(v View) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || !v.Valid() {
		return
	}
	o.state.View = v
	o.setDialog(WelcomeScript(v))
}

// ResetInteractionCount zeroes the interaction counter.
func (o *Orchestrator) ResetInteractionCount() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.state.InteractionCount = 0
}

// ResetModalSignal clears the share modal request.
func (o *Orchestrator) ResetModalSignal() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.state.ModalSignal = false
}

// Close ends the session. Pending backend calls are cancelled and any
// result arriving afterwards is dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.cancel()
	o.log.Debug().Msg("session closed")
}

// Closed reports whether Close was called.
func (o *Orchestrator) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

func (o *Orchestrator) callContext() (context.Context, context.CancelFunc) {
	if o.callTimeout > 0 {
		return context.WithTimeout(o.ctx, o.callTimeout)
	}
	return context.WithCancel(o.ctx)
}

func (o *Orchestrator) setDialog(seq dialog.Sequence) {
	o.state.Dialog = seq
	o.state.DialogRev++
}

func (o *Orchestrator) indexOf(id string) int {
	for i := range o.state.Messages {
		if o.state.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// detectedImage is the reference shown for a finished detection. An empty
// payload falls back to the candidate the player picked.
func detectedImage(m Message, payload string) string {
	if backend.StripDataURI(strings.TrimSpace(payload)) != "" {
		return backend.DataURI(payload)
	}
	if i, ok := m.Selected(); ok {
		return m.Images[i]
	}
	return ""
}
