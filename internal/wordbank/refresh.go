package wordbank

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/weirdtraffic/internal/llm"
)

const refreshSystem = `You write word lists for a party game where players invent absurd
traffic scenes that a self-driving car has to recognise. Keep every entry
short, family friendly and concrete enough to draw.`

const refreshPrompt = `Give fresh word lists for three mini-games.
Slot machine: single-word adjectives, nouns and third-person verbs.
Clap words: nouns with an article ("A llama"), third-person verbs, and
traffic places or situations ("under a truck").
Fill in the blank: short traffic sentences containing one or two "___" blanks.
Return between 8 and 15 entries per list.`

func listSchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string", "minLength": 1},
		"minItems":    3,
		"maxItems":    30,
	}
}

// refreshSchema is the structured output requested from the LLM.
var refreshSchema = &llm.Schema{
	Name:        "word-bank",
	Description: "Word lists for the prompt mini-games",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"adjectives": listSchema("slot machine adjectives"),
			"nouns":      listSchema("slot machine nouns"),
			"verbs":      listSchema("slot machine verbs"),
			"clapNouns":  listSchema("clap words nouns with article"),
			"clapVerbs":  listSchema("clap words verbs"),
			"clapPlaces": listSchema("clap words places"),
			"templates": map[string]any{
				"type":        "array",
				"description": "fill in the blank sentences",
				"items":       map[string]any{"type": "string", "pattern": "___"},
				"minItems":    3,
				"maxItems":    30,
			},
		},
		"required":             []any{"adjectives", "nouns", "verbs", "clapNouns", "clapVerbs", "clapPlaces", "templates"},
		"additionalProperties": false,
	},
}

// Refresh asks p for new word lists and merges them over current. On any
// failure current is returned unchanged together with the error.
func Refresh(ctx context.Context, p llm.Provider, current Bank, log zerolog.Logger) (Bank, error) {
	ctx = llm.WithPurpose(ctx, "word-bank")
	resp, err := p.Generate(ctx, llm.UserPrompt(refreshSystem, refreshPrompt, refreshSchema, 2048))
	if err != nil {
		log.Warn().Err(err).Msg("word bank refresh failed, keeping current lists")
		return current, fmt.Errorf("refresh word bank: %w", err)
	}

	var fresh Bank
	if err := json.Unmarshal(resp.Content, &fresh); err != nil {
		return current, fmt.Errorf("decode word bank: %w", err)
	}
	merged := current.Merge(fresh)
	if err := merged.Validate(); err != nil {
		log.Warn().Err(err).Msg("refreshed word bank rejected")
		return current, fmt.Errorf("refreshed word bank: %w", err)
	}

	log.Info().
		Str("model", resp.Model).
		Int("nouns", len(merged.Nouns)).
		Int("templates", len(merged.Templates)).
		Msg("word bank refreshed")
	return merged, nil
}
