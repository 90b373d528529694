package models

// WordEntry is one candidate secret word in the word bank
type WordEntry struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
}
