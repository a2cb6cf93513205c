package wordbank

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// BlankCount returns the number of Blank markers in template.
func BlankCount(template string) int {
	return strings.Count(template, Blank)
}

// Fill replaces the blanks of template in order. Every blank needs a
// non-empty word.
func Fill(template string, words []string) (string, error) {
	n := BlankCount(template)
	if len(words) != n {
		return "", fmt.Errorf("template has %d blanks, got %d words", n, len(words))
	}
	parts := strings.Split(template, Blank)
	var b strings.Builder
	b.WriteString(parts[0])
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return "", fmt.Errorf("blank %d is empty", i+1)
		}
		b.WriteString(w)
		b.WriteString(parts[i+1])
	}
	return b.String(), nil
}

// PickTemplate returns a random template.
func (b Bank) PickTemplate(r *rand.Rand) string {
	return pickWord(r, b.Templates)
}

// Suggest proposes one word per blank, alternating nouns and verbs, with
// adjectives sprinkled in front of nouns.
func (b Bank) Suggest(r *rand.Rand, template string) []string {
	n := BlankCount(template)
	out := make([]string, n)
	for i := range out {
		if i%2 == 1 {
			out[i] = pickWord(r, b.Verbs)
			continue
		}
		word := pickWord(r, b.Nouns)
		if r.IntN(2) == 0 {
			word = pickWord(r, b.Adjectives) + " " + word
		}
		out[i] = word
	}
	return out
}
