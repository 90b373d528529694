package service

import (
	"context"
	"time"

	"whisperchase/internal/models"
)

// GameStore is the persistence interface the game engine needs for
// sessions and participants. *repository.GameRepository satisfies it.
type GameStore interface {
	CreateSession(s *models.GameSession) (*models.GameSession, error)
	GetSession(id string) (*models.GameSession, error)
	AddParticipant(gameID, playerID string) (*models.Participant, error)
	ListParticipants(gameID string) ([]models.Participant, error)
	CountParticipants(gameID string) (int, error)
	IncrementQuestionsAsked(gameID string, expected int) (bool, error)
	FinishSession(gameID string, winnerID *string, completedAt time.Time) (bool, error)
	UpdateTTSSettings(gameID string, enableTTS bool, voiceID string) error
}

// QuestionStore is the persistence interface for question records.
// *repository.QuestionRepository satisfies it.
type QuestionStore interface {
	RecordQuestion(gameID, playerID, question string, answer bool, questionNumber int) (*models.QuestionRecord, error)
	CountPlayerQuestions(gameID, playerID string) (int, error)
}

// StatsStore is the persistence interface for player statistics.
// *repository.StatsRepository satisfies it.
type StatsStore interface {
	GetOverallStats(playerID string) (*models.PlayerStats, error)
	SaveOverallStats(stats *models.PlayerStats) error
	GetDifficultyStats(playerID string, difficulty int) (*models.PlayerDifficultyStats, error)
	SaveDifficultyStats(stats *models.PlayerDifficultyStats) error
}

// PlayerStore is the persistence interface for player accounts.
// *repository.PlayerRepository satisfies it.
type PlayerStore interface {
	CreatePlayer(email, passwordHash, displayName string) (*models.Player, error)
	GetPlayerByID(id string) (*models.Player, error)
	GetPlayerByEmail(email string) (*models.Player, error)
	UpdateLastLogin(id string, at time.Time) error
	UpdateProfile(id, displayName, email, bio, favoriteCategory, avatarURL string) (*models.Player, error)
}

// Oracle judges questions and guesses against a secret word, returning the
// model's free text. *oracle.Client satisfies it.
type Oracle interface {
	AnswerQuestion(ctx context.Context, secretWord, question string) (string, error)
	JudgeGuess(ctx context.Context, secretWord, guess string) (string, error)
}
