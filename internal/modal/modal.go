// Package modal presents the share prompt after the session raises its modal
// signal.
package modal

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultDelay is how long the presenter waits after a signal before opening.
const DefaultDelay = 2 * time.Second

// FireMsg is delivered when an armed timer elapses.
type FireMsg struct{ token uint64 }

// Timer delays opening the modal. At most one delay is pending: arming again
// restarts it, and a fire message from a cancelled or replaced delay is
// ignored.
type Timer struct {
	Delay time.Duration

	token   uint64
	pending bool
}

// NewTimer returns a Timer with the given delay. Non-positive delays fall
// back to DefaultDelay.
func NewTimer(delay time.Duration) Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return Timer{Delay: delay}
}

// Arm starts or restarts the delay.
func (t *Timer) Arm() tea.Cmd {
	t.token++
	t.pending = true
	token := t.token
	return tea.Tick(t.Delay, func(time.Time) tea.Msg { return FireMsg{token: token} })
}

// Cancel drops the pending delay, if any.
func (t *Timer) Cancel() {
	if t.pending {
		t.token++
		t.pending = false
	}
}

// Pending reports whether a delay is running.
func (t Timer) Pending() bool { return t.pending }

// Fired reports whether msg is the fire message of the current delay. A
// matching message clears the pending state.
func (t *Timer) Fired(msg tea.Msg) bool {
	m, ok := msg.(FireMsg)
	if !ok || !t.pending || m.token != t.token {
		return false
	}
	t.pending = false
	return true
}
