package words

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedBank(t *testing.T) {
	bank, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bank.Size() == 0 {
		t.Fatal("embedded bank should not be empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	content := `[{"name": "elephant", "difficulty": 2}, {"name": "mirage", "difficulty": 5}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}

	bank, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bank.Size() != 2 {
		t.Errorf("Size() = %d, want 2", bank.Size())
	}
}

func TestLoadEmptyListFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on an empty word list")
	}
}

func TestSelectMatchingDifficulty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	content := `[
		{"name": "dog", "difficulty": 1},
		{"name": "cat", "difficulty": 1},
		{"name": "guitar", "difficulty": 2},
		{"name": "bicycle", "difficulty": 2}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}

	bank, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// A difficulty with matching words must never return a word from
	// outside that subset.
	for i := 0; i < 50; i++ {
		entry := bank.Select(2)
		if entry.Difficulty != 2 {
			t.Fatalf("Select(2) returned %q with difficulty %d", entry.Name, entry.Difficulty)
		}
	}
}

func TestSelectFallsBackToFullBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	content := `[
		{"name": "dog", "difficulty": 1},
		{"name": "guitar", "difficulty": 2}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}

	bank, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Difficulty 5 has no words; the pick must fall back to the full
	// bank rather than fail.
	for i := 0; i < 20; i++ {
		entry := bank.Select(5)
		if entry.Name != "dog" && entry.Name != "guitar" {
			t.Fatalf("Select(5) returned unexpected word %q", entry.Name)
		}
	}
}

func TestSelectNoDifficultyUsesFullBank(t *testing.T) {
	bank, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[bank.Select(0).Name] = true
	}
	if len(seen) < 2 {
		t.Error("Select(0) should draw from the whole bank")
	}
}
