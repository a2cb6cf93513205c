// Package narration plays dialog sequences as a staged typewriter reveal.
package narration

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weirdtraffic/internal/dialog"
)

const (
	DefaultStageDelay = time.Second
	DefaultCharDelay  = 40 * time.Millisecond
)

// FinishedMsg is emitted exactly once when a detection-result narration has
// fully revealed its last stage. It is never emitted for an abandoned run.
type FinishedMsg struct {
	Result dialog.DetectionResult
}

type charMsg struct{ run uint64 }

type stageMsg struct{ run uint64 }

// Player reveals the stages of a dialog.Sequence one rune at a time, pausing
// between stages. Starting a new run abandons the previous one: ticks that
// belong to an older run are ignored.
type Player struct {
	StageDelay time.Duration
	CharDelay  time.Duration

	seq    dialog.Sequence
	rev    uint64
	run    uint64
	stages [][]rune
	stage  int
	shown  int
	done   bool
}

// New returns a Player using the default delays.
func New() Player {
	return Player{StageDelay: DefaultStageDelay, CharDelay: DefaultCharDelay, done: true}
}

// Play starts seq unless rev matches the run already playing. rev is the
// session's dialog revision, so re-renders never restart the narration.
func (p *Player) Play(seq dialog.Sequence, rev uint64) tea.Cmd {
	if rev == p.rev && p.run > 0 {
		return nil
	}
	p.rev = rev
	p.run++
	p.seq = seq
	p.stages = p.stages[:0]
	for _, s := range seq.Stages() {
		p.stages = append(p.stages, []rune(s))
	}
	p.stage = 0
	p.shown = 0
	p.done = false
	return p.advance()
}

// Update handles the player's own tick messages.
func (p *Player) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case charMsg:
		if msg.run != p.run || p.done {
			return nil
		}
		p.shown++
		return p.advance()
	case stageMsg:
		if msg.run != p.run || p.done {
			return nil
		}
		p.stage++
		p.shown = 0
		return p.advance()
	}
	return nil
}

// Skip reveals the rest of the current run at once.
func (p *Player) Skip() tea.Cmd {
	if p.done || len(p.stages) == 0 {
		return nil
	}
	p.stage = len(p.stages) - 1
	p.shown = len(p.stages[p.stage])
	return p.advance()
}

// advance schedules the next step or completes the run.
func (p *Player) advance() tea.Cmd {
	if len(p.stages) == 0 {
		return p.finish()
	}
	cur := p.stages[p.stage]
	if p.shown < len(cur) {
		return tick(p.CharDelay, charMsg{run: p.run})
	}
	if p.stage < len(p.stages)-1 {
		return tick(p.StageDelay, stageMsg{run: p.run})
	}
	return p.finish()
}

func (p *Player) finish() tea.Cmd {
	p.done = true
	if !p.seq.HasCompletion() {
		return nil
	}
	result := *p.seq.Result
	return func() tea.Msg { return FinishedMsg{Result: result} }
}

// Text is the currently revealed text.
func (p Player) Text() string {
	if len(p.stages) == 0 {
		return ""
	}
	return string(p.stages[p.stage][:min(p.shown, len(p.stages[p.stage]))])
}

// Done reports whether the current run finished.
func (p Player) Done() bool { return p.done }

// Typing reports whether characters are still being revealed.
func (p Player) Typing() bool {
	return !p.done && len(p.stages) > 0 && p.shown < len(p.stages[p.stage])
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
