package wordbank

import (
	"math/rand/v2"
	"strings"
)

// Reel is one column of the slot machine.
type Reel int

const (
	ReelAdjective Reel = iota
	ReelNoun
	ReelVerb
	reelCount
)

// Spin is the result of one pull of the slot machine.
type Spin [reelCount]string

// EmptySpin is shown before the first pull.
var EmptySpin = Spin{placeholder, placeholder, placeholder}

// SpinSlots picks one adjective, noun and verb.
func (b Bank) SpinSlots(r *rand.Rand) Spin {
	return Spin{
		pickWord(r, b.Adjectives),
		pickWord(r, b.Nouns),
		pickWord(r, b.Verbs),
	}
}

// Word returns the word on a reel. Unset reels return "".
func (s Spin) Word(reel Reel) string {
	if reel < 0 || reel >= reelCount || s[reel] == placeholder {
		return ""
	}
	return s[reel]
}

// Complete reports whether every reel shows a word.
func (s Spin) Complete() bool {
	for r := range reelCount {
		if s.Word(r) == "" {
			return false
		}
	}
	return true
}

// Prompt joins the reels into a prompt, or "" if a reel is unset.
func (s Spin) Prompt() string {
	if !s.Complete() {
		return ""
	}
	return strings.Join(s[:], " ")
}
