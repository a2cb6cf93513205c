package wordbank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a JSON word bank and merges it over the built-in lists, so
// a file may override only some of them.
func LoadFile(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("reading word bank: %w", err)
	}
	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return Bank{}, fmt.Errorf("decoding word bank %s: %w", path, err)
	}
	merged := Default().Merge(b)
	if err := merged.Validate(); err != nil {
		return Bank{}, fmt.Errorf("word bank %s: %w", path, err)
	}
	return merged, nil
}

// WriteJSON writes b as indented JSON.
func (b Bank) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
