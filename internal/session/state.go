package session

import (
	"slices"

	"github.com/abhisek/weirdtraffic/internal/dialog"
)

// View is the content pane currently shown next to the narrator.
type View string

const (
	ViewChat        View = "chat"
	ViewSlotMachine View = "slotmachine"
	ViewClapWords   View = "clapwords"
	ViewFillBlank   View = "fillblank"
)

// Views lists every view in menu order.
func Views() []View {
	return []View{ViewChat, ViewSlotMachine, ViewClapWords, ViewFillBlank}
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return slices.Contains(Views(), v)
}

// Title is the human label for the view.
func (v View) Title() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewSlotMachine:
		return "Slot Machine"
	case ViewClapWords:
		return "Clap Words"
	case ViewFillBlank:
		return "Fill in the Blank"
	}
	return string(v)
}

// WelcomeScript returns the narration shown when entering v.
func WelcomeScript(v View) dialog.Sequence {
	switch v {
	case ViewSlotMachine:
		return dialog.Script(dialog.SlotMachineWelcome)
	case ViewClapWords:
		return dialog.Script(dialog.ClapWordsWelcome)
	case ViewFillBlank:
		return dialog.Script(dialog.FillBlankWelcome)
	default:
		return dialog.Script(dialog.Welcome)
	}
}

// MessageKind distinguishes conversation entries.
type MessageKind string

const (
	KindUserText     MessageKind = "user-text"
	KindImageChoices MessageKind = "image-choices"
)

// NoSelection marks an image-choices message nobody has picked from yet.
const NoSelection = -1

// Message is one entry in the conversation history.
type Message struct {
	// ID is a time-ordered unique identifier.
	ID   string
	Kind MessageKind

	// Text is the prompt for KindUserText.
	Text string

	// Images holds the candidate image references (data URIs) for
	// KindImageChoices, in display order.
	Images []string

	// Loading is true while the candidates are still being generated.
	Loading bool

	// SelectedIndex indexes Images once the player picked a candidate,
	// NoSelection otherwise.
	SelectedIndex int

	// Detecting is true while a detection call for the selection is in flight.
	Detecting bool

	// Detection is set once detection completed for this message.
	Detection *Detection
}

// Selected returns the picked candidate index, if any.
func (m Message) Selected() (int, bool) {
	if m.Kind != KindImageChoices || m.SelectedIndex < 0 || m.SelectedIndex >= len(m.Images) {
		return 0, false
	}
	return m.SelectedIndex, true
}

// Detection is the frozen outcome of a detection call.
type Detection struct {
	Image  string
	Score  float64
	Points int
}

// State is the session record. Only the Orchestrator mutates it; callers see
// copies through Orchestrator.Snapshot.
type State struct {
	// SessionID identifies this session in logs.
	SessionID string

	Messages []Message

	// Prompt is the draft text bound to the input.
	Prompt string

	// Generating is true while a generation request is in flight.
	Generating bool

	// Dialog is the active narration.
	Dialog dialog.Sequence

	// DialogRev increases every time Dialog is assigned, even to an equal
	// value, so the narration player can tell a new run from a re-render.
	DialogRev uint64

	View View

	// Points is the cumulative score. Never decreases.
	Points int

	// Progress is the training meter in [0, 100]. Never decreases until reset.
	Progress int

	// InteractionCount counts successful detections since the last reset.
	InteractionCount int

	// ModalSignal requests the delayed share modal. It stays set until
	// ResetModalSignal is called.
	ModalSignal bool

	// ModalRev increases every time the signal is raised, so the presenter
	// can restart its delay when a new signal arrives.
	ModalRev uint64
}

// Message returns the message with the given id.
func (s State) Message(id string) (Message, bool) {
	for _, m := range s.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// LastImageChoices returns the newest image-choices message, if any.
func (s State) LastImageChoices() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Kind == KindImageChoices {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// clone returns a deep copy safe to hand to readers.
func (s State) clone() State {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		m.Images = slices.Clone(m.Images)
		if m.Detection != nil {
			d := *m.Detection
			m.Detection = &d
		}
		out.Messages[i] = m
	}
	if s.Dialog.Result != nil {
		r := *s.Dialog.Result
		out.Dialog.Result = &r
	}
	return out
}

func newState(sessionID string) State {
	return State{
		SessionID: sessionID,
		View:      ViewChat,
		Dialog:    WelcomeScript(ViewChat),
	}
}
