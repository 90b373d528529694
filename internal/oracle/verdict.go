package oracle

import "strings"

// Verdict is the normalized answer to a yes/no/maybe question
type Verdict string

const (
	VerdictYes   Verdict = "Yes"
	VerdictNo    Verdict = "No"
	VerdictMaybe Verdict = "Maybe"
)

// Bool reports the persisted form of a question verdict: only a yes is
// recorded as true. No, maybe and anything unexpected collapse to false.
func (v Verdict) Bool() bool {
	return v == VerdictYes
}

// GuessVerdict is the normalized judgment of a guess
type GuessVerdict string

const (
	GuessCorrect   GuessVerdict = "Correct"
	GuessIncorrect GuessVerdict = "Incorrect"
)

// NormalizeAnswer reduces the model's free-text answer to a closed verdict.
// Matching is case-insensitive after trimming whitespace and one trailing
// period. Unexpected text is treated as a non-answer and maps to Maybe,
// which persists as false.
func NormalizeAnswer(raw string) Verdict {
	switch strings.ToLower(trimVerdict(raw)) {
	case "yes":
		return VerdictYes
	case "no":
		return VerdictNo
	default:
		return VerdictMaybe
	}
}

// NormalizeGuess reduces the model's free-text judgment to Correct or
// Incorrect. Only an exact case-insensitive "correct" (after trimming
// whitespace and one trailing period) counts; anything else is Incorrect.
func NormalizeGuess(raw string) GuessVerdict {
	if strings.ToLower(trimVerdict(raw)) == "correct" {
		return GuessCorrect
	}
	return GuessIncorrect
}

func trimVerdict(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, ".")
	return trimmed
}
