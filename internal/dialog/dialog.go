// Package dialog holds the narration scripts the car mascot speaks.
//
// A Sequence is a tagged variant: a plain two-stage script (a short line
// followed by a longer one) or a detection result whose expanded stage is
// built from the score and points at render time.
package dialog

import (
	"fmt"
	"math"
)

// Kind discriminates the Sequence variants.
type Kind int

const (
	KindPlain Kind = iota
	KindDetectionResult
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindDetectionResult:
		return "detection-result"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Key identifies an entry in the script table.
type Key string

const (
	Welcome            Key = "welcome"
	Loading            Key = "loading"
	Completed          Key = "completed"
	ImageSelected      Key = "image-selected"
	Error              Key = "error"
	SlotMachineWelcome Key = "slot-machine-welcome"
	ClapWordsWelcome   Key = "clap-words-welcome"
	FillBlankWelcome   Key = "fill-blank-welcome"
	DetectionResultKey Key = "detection-result"
)

// Sequence is the active narration descriptor.
type Sequence struct {
	Kind Kind
	Key  Key

	// Initial is the first stage shown.
	Initial string

	// Expanded is the second stage for KindPlain. Empty for results.
	Expanded string

	// Result is set only for KindDetectionResult.
	Result *DetectionResult
}

// DetectionResult is the structured payload of a detection-result narration.
// The values are frozen when detection succeeds; the narration consumer
// hands them back unchanged to finalize the score.
type DetectionResult struct {
	BaseInitial  string
	BaseExpanded string
	Score        float64
	Points       int

	// InteractionCount is the interaction count captured when the detection
	// completed.
	InteractionCount int
}

// AnalysisComplete is the initial stage of every detection-result narration.
const AnalysisComplete = "Analysis Complete!"

var table = map[Key]Sequence{
	Welcome: plain(Welcome,
		"Hellooo! Got a weird idea?\nHit me with your wildest prompt!",
		"Hellooo! Got a weird idea?\nHit me with your wildest prompt!\n\nNeed ideas? Just pick one of the mini-games up top. They're there to spark your genius!",
	),
	Loading: plain(Loading,
		"Thanks for your prompt, you're helping make the roads a little safer, one idea at a time.\nJust a sec while we cook up some weirdness...",
		"Thanks for your prompt, you're helping make the roads a little safer, one idea at a time.\nJust a sec while we cook up some weirdness...",
	),
	Completed: plain(Completed,
		"Nice!\n\nPick the image that best matches your prompt, or regenerate if you want something different.",
		"Nice!\n\nPick the image that best matches your prompt, or regenerate if you want something different.",
	),
	ImageSelected: plain(ImageSelected,
		"Interesting choice!",
		"Sending it to the other model... though I wouldn't get my hopes up. I'm still the sharpest mind in the room.",
	),
	Error: plain(Error,
		"Hmm, something didn't work right.\nWant to try again with a different prompt?",
		"Hmm, something didn't work right.\nWant to try again with a different prompt?\n\nSometimes being a bit more specific helps!",
	),
	SlotMachineWelcome: plain(SlotMachineWelcome,
		"Welcome to Slot Machine!",
		"Welcome to Slot Machine!\n\nJust hit Spin and let the crazy prompts roll, or pick a word to add it!",
	),
	ClapWordsWelcome: plain(ClapWordsWelcome,
		"Welcome to clap words!",
		"Welcome to clap words!\n\nClap the words as they fly by and watch the weird prompts come to life!",
	),
	FillBlankWelcome: plain(FillBlankWelcome,
		"Welcome to fill in the blank!",
		"Welcome to fill in the blank!\n\nTime to get creative, just fill in the blanks and watch the madness unfold!",
	),
}

func plain(key Key, initial, expanded string) Sequence {
	return Sequence{Kind: KindPlain, Key: key, Initial: initial, Expanded: expanded}
}

// Script returns the plain script for key. Unknown keys fall back to Welcome.
func Script(key Key) Sequence {
	if s, ok := table[key]; ok {
		return s
	}
	return table[Welcome]
}

// Keys returns every plain script key in the table.
func Keys() []Key {
	return []Key{Welcome, Loading, Completed, ImageSelected, Error, SlotMachineWelcome, ClapWordsWelcome, FillBlankWelcome}
}

// Detection builds the detection-result narration for a frozen score,
// points award and interaction count.
func Detection(score float64, points, interactionCount int) Sequence {
	return Sequence{
		Kind:    KindDetectionResult,
		Key:     DetectionResultKey,
		Initial: AnalysisComplete,
		Result: &DetectionResult{
			BaseInitial:      "Based on my analysis, the similarity score is...",
			BaseExpanded:     "Based on my analysis, the similarity score between your prompt and the selected image is ",
			Score:            score,
			Points:           points,
			InteractionCount: interactionCount,
		},
	}
}

// ExpandedText returns the text of the expanded stage.
func (s Sequence) ExpandedText() string {
	switch s.Kind {
	case KindDetectionResult:
		if s.Result == nil {
			return s.Initial
		}
		return s.Result.Message()
	default:
		return s.Expanded
	}
}

// Message renders the score line shown as the expanded stage of a result.
func (r DetectionResult) Message() string {
	return fmt.Sprintf("%s%d%%\nYou've earned %d points!", r.BaseExpanded, int(math.Round(r.Score)), r.Points)
}

// Stages returns the texts to reveal in order. A plain script whose expanded
// text equals its initial one has a single stage. Results always have two.
func (s Sequence) Stages() []string {
	switch s.Kind {
	case KindDetectionResult:
		return []string{s.Initial, s.ExpandedText()}
	default:
		if s.Expanded == "" || s.Expanded == s.Initial {
			return []string{s.Initial}
		}
		return []string{s.Initial, s.Expanded}
	}
}

// HasCompletion reports whether finishing this narration must trigger score
// finalization.
func (s Sequence) HasCompletion() bool {
	return s.Kind == KindDetectionResult && s.Result != nil
}
