package wordbank

import "strings"

var clapPhases = []struct {
	category    Category
	instruction string
}{
	{ClapNoun, "Clap a noun"},
	{ClapVerb, "Clap a verb"},
	{ClapPlace, "Clap a place/situation"},
}

// Clap tracks a round of the clap words game: one word per phase, noun then
// verb then place.
type Clap struct {
	bank   Bank
	picked []string
}

// NewClap starts a round using b.
func NewClap(b Bank) *Clap {
	return &Clap{bank: b}
}

// Phase is the zero-based index of the current phase. It equals
// PhaseCount once the round is done.
func (c *Clap) Phase() int { return len(c.picked) }

// PhaseCount is the number of phases in a round.
func PhaseCount() int { return len(clapPhases) }

// Done reports whether every phase has a word.
func (c *Clap) Done() bool { return len(c.picked) >= len(clapPhases) }

// Instruction is the hint for the current phase.
func (c *Clap) Instruction() string {
	if c.Done() {
		return "Done!"
	}
	return clapPhases[c.Phase()].instruction
}

// Words are the candidates for the current phase.
func (c *Clap) Words() []string {
	if c.Done() {
		return nil
	}
	return c.bank.List(clapPhases[c.Phase()].category)
}

// Pick claps a word for the current phase and returns the phrase so far.
// It reports false when the round is over or word is blank.
func (c *Clap) Pick(word string) (string, bool) {
	if c.Done() || strings.TrimSpace(word) == "" {
		return c.Phrase(), false
	}
	c.picked = append(c.picked, word)
	return c.Phrase(), true
}

// Phrase is the words clapped so far, space separated.
func (c *Clap) Phrase() string { return strings.Join(c.picked, " ") }

// Restart clears the round.
func (c *Clap) Restart() { c.picked = c.picked[:0] }
