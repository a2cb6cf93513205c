// Package wordbank supplies the words behind the prompt mini-games.
package wordbank

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Category names a word list.
type Category string

const (
	Adjective Category = "adjective"
	Noun      Category = "noun"
	Verb      Category = "verb"
	ClapNoun  Category = "clap-noun"
	ClapVerb  Category = "clap-verb"
	ClapPlace Category = "clap-place"
)

// Blank marks a slot in a fill-in-the-blank template.
const Blank = "___"

const placeholder = "---"

// Bank holds every word list used by the mini-games.
type Bank struct {
	Adjectives []string `json:"adjectives"`
	Nouns      []string `json:"nouns"`
	Verbs      []string `json:"verbs"`

	ClapNouns  []string `json:"clapNouns"`
	ClapVerbs  []string `json:"clapVerbs"`
	ClapPlaces []string `json:"clapPlaces"`

	// Templates are fill-in-the-blank sentences with one or more Blank
	// markers.
	Templates []string `json:"templates"`
}

// Default returns the built-in word lists.
func Default() Bank {
	return Bank{
		Adjectives: []string{"weird", "shiny", "fuzzy", "silent", "gigantic", "tiny", "blue", "fast", "sleepy", "dancing"},
		Nouns:      []string{"car", "banana", "robot", "cloud", "spoon", "mountain", "cat", "toast", "lamp", "book"},
		Verbs:      []string{"dances", "sings", "jumps", "whispers", "explodes", "melts", "flies", "crawls", "dreams", "calculates"},
		ClapNouns: []string{
			"A flamingo", "A refrigerator", "An excavator driver", "A hamster", "A clown",
			"An astronaut", "A llama", "A robot", "A magician", "A pizza delivery guy",
			"A garden gnome", "A skateboard", "A panda", "A dumpster", "A walker",
		},
		ClapVerbs: []string{
			"drifts", "explodes", "dances", "cries", "meditates", "giggles", "races",
			"teleports", "juggles", "chases", "snores", "shivers", "surfs", "trembles",
		},
		ClapPlaces: []string{
			"on the crosswalk", "in the roundabout", "under a truck", "between e-scooters",
			"at a bus stop", "on the roof of a bus", "next to a hydrant", "in a puddle",
			"on the middle lane", "under a drone", "at the taxi stand", "on a trampoline",
			"between honking cars",
		},
		Templates: []string{
			"A ___ is ___ in the middle of the crossing",
			"A ___ rides a ___ through the roundabout",
			"Three ___ wait at a bus stop holding a ___",
			"A traffic light made of ___ blinks at a ___",
			"A ___ parks on the roof of a ___",
			"A ___ directs traffic while ___",
		},
	}
}

// List returns the words of a category.
func (b Bank) List(c Category) []string {
	switch c {
	case Adjective:
		return b.Adjectives
	case Noun:
		return b.Nouns
	case Verb:
		return b.Verbs
	case ClapNoun:
		return b.ClapNouns
	case ClapVerb:
		return b.ClapVerbs
	case ClapPlace:
		return b.ClapPlaces
	}
	return nil
}

// Validate checks that every list has usable entries and every template has
// at least one blank.
func (b Bank) Validate() error {
	var errs []error
	for _, c := range []Category{Adjective, Noun, Verb, ClapNoun, ClapVerb, ClapPlace} {
		words := b.List(c)
		if len(words) == 0 {
			errs = append(errs, fmt.Errorf("%s list is empty", c))
			continue
		}
		if slices.ContainsFunc(words, func(w string) bool { return strings.TrimSpace(w) == "" }) {
			errs = append(errs, fmt.Errorf("%s list has a blank entry", c))
		}
	}
	if len(b.Templates) == 0 {
		errs = append(errs, errors.New("no fill-in-the-blank templates"))
	}
	for i, t := range b.Templates {
		if BlankCount(t) == 0 {
			errs = append(errs, fmt.Errorf("template %d has no %s", i, Blank))
		}
	}
	return errors.Join(errs...)
}

// Merge returns b with every non-empty list of other replacing its own.
func (b Bank) Merge(other Bank) Bank {
	pick := func(mine, theirs []string) []string {
		if len(theirs) > 0 {
			return slices.Clone(theirs)
		}
		return mine
	}
	return Bank{
		Adjectives: pick(b.Adjectives, other.Adjectives),
		Nouns:      pick(b.Nouns, other.Nouns),
		Verbs:      pick(b.Verbs, other.Verbs),
		ClapNouns:  pick(b.ClapNouns, other.ClapNouns),
		ClapVerbs:  pick(b.ClapVerbs, other.ClapVerbs),
		ClapPlaces: pick(b.ClapPlaces, other.ClapPlaces),
		Templates:  pick(b.Templates, other.Templates),
	}
}

// pickWord returns a random entry, or "" for an empty list.
func pickWord(r *rand.Rand, words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[r.IntN(len(words))]
}
