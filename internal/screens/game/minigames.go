package game

import (
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weirdtraffic/internal/session"
	"github.com/abhisek/weirdtraffic/internal/ui/components"
	"github.com/abhisek/weirdtraffic/internal/wordbank"
)

// clapInterval is how long each word stays on screen in clap words.
const clapInterval = 700 * time.Millisecond

type slotGame struct {
	spin  wordbank.Spin
	reel  wordbank.Reel
	spins int
}

func newSlotGame() slotGame {
	return slotGame{spin: wordbank.EmptySpin}
}

func (g *GameScreen) slotKey(msg tea.KeyPressMsg) tea.Cmd {
	s := &g.slot
	switch msg.String() {
	case "s", "space":
		s.spin = g.words.SpinSlots(g.rng)
		s.spins++
	case "left", "h":
		s.reel = (s.reel + 2) % 3
	case "right", "l":
		s.reel = (s.reel + 1) % 3
	case "enter":
		g.orch.AppendWord(s.spin.Word(s.reel))
	case "u":
		return g.usePrompt(s.spin.Prompt())
	case "esc":
		return g.switchView(session.ViewChat)
	}
	return nil
}

type clapTickMsg struct{ run uint64 }

type clapGame struct {
	round *wordbank.Clap
	run   uint64
	index int
}

func newClapGame(b wordbank.Bank) clapGame {
	return clapGame{round: wordbank.NewClap(b)}
}

// start begins a fresh tick loop. Ticks from an earlier loop are dropped,
// so revisiting the view never doubles the speed.
func (c *clapGame) start() tea.Cmd {
	c.run++
	return clapTick(c.run)
}

func (c *clapGame) tick(msg clapTickMsg, visible bool) tea.Cmd {
	if msg.run != c.run || !visible {
		return nil
	}
	if words := c.round.Words(); len(words) > 0 {
		c.index = (c.index + 1) % len(words)
	}
	return clapTick(c.run)
}

// current is the word flying by right now.
func (c clapGame) current() string {
	words := c.round.Words()
	if len(words) == 0 {
		return ""
	}
	return words[c.index%len(words)]
}

func clapTick(run uint64) tea.Cmd {
	return tea.Tick(clapInterval, func(time.Time) tea.Msg { return clapTickMsg{run: run} })
}

func (g *GameScreen) clapKey(msg tea.KeyPressMsg) tea.Cmd {
	c := &g.clap
	switch msg.String() {
	case "space", "c":
		if _, ok := c.round.Pick(c.current()); ok {
			c.index = 0
		}
	case "r":
		c.round.Restart()
		c.index = 0
	case "enter":
		if c.round.Done() {
			phrase := c.round.Phrase()
			c.round.Restart()
			c.index = 0
			return g.usePrompt(phrase)
		}
	case "esc":
		return g.switchView(session.ViewChat)
	}
	return nil
}

type blankGame struct {
	template string
	pickers  []components.Picker
	active   int
}

// optionsPerBlank is how many candidate words each blank offers.
const optionsPerBlank = 4

func newBlankGame() blankGame { return blankGame{} }

// reset picks a new template and deals candidate words for its blanks.
func (b *blankGame) reset(words wordbank.Bank, rng *rand.Rand) {
	b.template = words.PickTemplate(rng)
	n := wordbank.BlankCount(b.template)

	options := make([][]string, n)
	for range optionsPerBlank {
		for i, w := range words.Suggest(rng, b.template) {
			options[i] = appendUnique(options[i], w)
		}
	}

	b.pickers = make([]components.Picker, n)
	for i := range b.pickers {
		b.pickers[i] = components.NewPicker(blankLabel(i), options[i])
	}
	b.active = 0
	b.focus()
}

func (b *blankGame) focus() {
	for i := range b.pickers {
		b.pickers[i].Active = i == b.active
	}
}

func (b blankGame) words() []string {
	out := make([]string, len(b.pickers))
	for i, p := range b.pickers {
		out[i] = p.Value()
	}
	return out
}

func (g *GameScreen) blankKey(msg tea.KeyPressMsg) tea.Cmd {
	b := &g.blank
	switch msg.String() {
	case "up", "k":
		if n := len(b.pickers); n > 0 {
			b.active = (b.active - 1 + n) % n
			b.focus()
		}
	case "down", "j", "tab":
		if n := len(b.pickers); n > 0 {
			b.active = (b.active + 1) % n
			b.focus()
		}
	case "n":
		b.reset(g.words, g.rng)
	case "enter":
		filled, err := wordbank.Fill(b.template, b.words())
		if err != nil {
			g.log.Debug().Err(err).Msg("fill in the blank incomplete")
			return nil
		}
		return g.usePrompt(filled)
	case "esc":
		return g.switchView(session.ViewChat)
	default:
		if b.active < len(b.pickers) {
			b.pickers[b.active], _ = b.pickers[b.active].Update(msg)
		}
	}
	return nil
}

func blankLabel(i int) string {
	return "Blank " + string(rune('1'+i))
}

func appendUnique(list []string, w string) []string {
	for _, x := range list {
		if x == w {
			return list
		}
	}
	return append(list, w)
}
