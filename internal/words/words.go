// Package words holds the secret word bank.
//
// The bank is read-only reference data: it is loaded once at startup
// (from an embedded default list, or a JSON file named by WORDS_FILE)
// and is safe for concurrent reads afterwards.
package words

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"whisperchase/internal/models"
)

//go:embed secret_words.json
var embeddedWords []byte

// Bank is a fixed set of candidate secret words tagged with difficulty
type Bank struct {
	entries []models.WordEntry
}

// Load builds a word bank from the JSON file at path, or from the embedded
// default list when path is empty.
func Load(path string) (*Bank, error) {
	data := embeddedWords
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
		}
		data = fileData
	}

	var entries []models.WordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse word list: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("word list is empty")
	}

	return &Bank{entries: entries}, nil
}

// Select picks a secret word uniformly at random. When difficulty is
// positive and at least one word matches it, the pick is limited to that
// subset; otherwise the whole bank is used. A difficulty with no matching
// words is not an error.
func (b *Bank) Select(difficulty int) models.WordEntry {
	pool := b.entries

	if difficulty > 0 {
		var filtered []models.WordEntry
		for _, entry := range b.entries {
			if entry.Difficulty == difficulty {
				filtered = append(filtered, entry)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	return pool[rand.Intn(len(pool))]
}

// Size returns the number of words in the bank
func (b *Bank) Size() int {
	return len(b.entries)
}
