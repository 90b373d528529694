package models

import "time"

// GameStatus is the lifecycle state of a game session. Sessions start in
// StatusPlaying and move to StatusFinished exactly once; finished is
// terminal.
type GameStatus string

const (
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// MaxQuestions is how many questions a session allows before it ends
// without a winner.
const MaxQuestions = 20

// DefaultGameType is used when a session is started without a game type.
const DefaultGameType = "solo"

// GameSession represents one 20-Questions game against a secret word
type GameSession struct {
	ID              string
	HostPlayerID    string
	SecretWord      string
	Difficulty      int
	Status          GameStatus
	QuestionsAsked  int
	CurrentPlayerID string
	WinnerID        *string
	CompletedAt     *time.Time
	GameType        string
	MaxPlayers      int
	GuessedWord     string
	EnableTTS       bool
	VoiceID         string
	CreatedAt       time.Time
}

// IsPlaying reports whether the session still accepts questions and guesses
func (g *GameSession) IsPlaying() bool {
	return g.Status == StatusPlaying
}

// Participant represents a player's membership in a game session
type Participant struct {
	ID       int64
	GameID   string
	PlayerID string
	JoinedAt time.Time
}

// QuestionRecord is one asked question with its normalized answer.
// QuestionNumber is 1-based and scoped to the session; it always matches
// the session's questions_asked counter at the time of recording.
type QuestionRecord struct {
	ID             int64
	GameID         string
	PlayerID       string
	Question       string
	Answer         bool
	QuestionNumber int
	CreatedAt      time.Time
}
