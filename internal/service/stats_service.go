package service

import (
	"fmt"
	"math"

	"whisperchase/internal/models"
)

// StatsService maintains per-player aggregates, both overall and broken
// down by difficulty. Updates for a player are serialized through a
// per-player lock so the read-modify-write cycle stays consistent.
type StatsService struct {
	stats       StatsStore
	games       GameStore
	questions   QuestionStore
	playerLocks *keyedLocks
}

// NewStatsService creates a new stats service
func NewStatsService(stats StatsStore, games GameStore, questions QuestionStore) *StatsService {
	return &StatsService{
		stats:       stats,
		games:       games,
		questions:   questions,
		playerLocks: newKeyedLocks(),
	}
}

// RecordGameResult folds a finished game into the aggregates of every
// participant. winnerID names the player whose guess ended the game; only
// that player's win counters and average advance.
func (s *StatsService) RecordGameResult(game *models.GameSession, winnerID string) error {
	participants, err := s.games.ListParticipants(game.ID)
	if err != nil {
		return &PersistenceError{Entity: "game_participants", Op: "select", Err: err}
	}
	if len(participants) == 0 {
		return fmt.Errorf("game %s has no participants", game.ID)
	}

	for _, p := range participants {
		asked, err := s.questions.CountPlayerQuestions(game.ID, p.PlayerID)
		if err != nil {
			return &PersistenceError{Entity: "game_questions", Op: "select", Err: err}
		}
		won := p.PlayerID == winnerID

		if err := s.updatePlayer(p.PlayerID, game.Difficulty, asked, won); err != nil {
			return err
		}
	}

	return nil
}

func (s *StatsService) updatePlayer(playerID string, difficulty, questionsAsked int, won bool) error {
	s.playerLocks.Lock(playerID)
	defer s.playerLocks.Unlock(playerID)

	overall, err := s.stats.GetOverallStats(playerID)
	if err != nil {
		return &PersistenceError{Entity: "player_stats", Op: "select", Err: err}
	}
	if overall == nil {
		overall = &models.PlayerStats{PlayerID: playerID}
	}
	applyResult(overall, questionsAsked, won)
	if err := s.stats.SaveOverallStats(overall); err != nil {
		return &PersistenceError{Entity: "player_stats", Op: "upsert", Err: err}
	}

	byDifficulty, err := s.stats.GetDifficultyStats(playerID, difficulty)
	if err != nil {
		return &PersistenceError{Entity: "player_stats_difficulty", Op: "select", Err: err}
	}
	if byDifficulty == nil {
		byDifficulty = &models.PlayerDifficultyStats{
			PlayerStats: models.PlayerStats{PlayerID: playerID},
			Difficulty:  difficulty,
		}
	}
	applyResult(&byDifficulty.PlayerStats, questionsAsked, won)
	if err := s.stats.SaveDifficultyStats(byDifficulty); err != nil {
		return &PersistenceError{Entity: "player_stats_difficulty", Op: "upsert", Err: err}
	}

	return nil
}

// applyResult advances one aggregate record by one finished game. The
// average-questions-to-win is reweighted from the win count as it stood
// before this game.
func applyResult(stats *models.PlayerStats, questionsAsked int, won bool) {
	prevWon := stats.GamesWon

	stats.GamesPlayed++
	stats.TotalQuestionsAsked += questionsAsked
	if won {
		stats.GamesWon++
		total := stats.AverageQuestionsToWin*float64(prevWon) + float64(questionsAsked)
		stats.AverageQuestionsToWin = total / float64(stats.GamesWon)
	}

	stats.WinRate = winRate(stats.GamesWon, stats.GamesPlayed)
}

// GetPlayerStats returns a player's overall aggregates, zeroed when the
// player has no finished games yet.
func (s *StatsService) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	s.playerLocks.Lock(playerID)
	defer s.playerLocks.Unlock(playerID)

	stats, err := s.stats.GetOverallStats(playerID)
	if err != nil {
		return nil, &PersistenceError{Entity: "player_stats", Op: "select", Err: err}
	}
	if stats == nil {
		stats = &models.PlayerStats{PlayerID: playerID}
	}
	return stats, nil
}

// GetPlayerDifficultyStats returns a player's aggregates for one
// difficulty, zeroed when none are recorded.
func (s *StatsService) GetPlayerDifficultyStats(playerID string, difficulty int) (*models.PlayerDifficultyStats, error) {
	s.playerLocks.Lock(playerID)
	defer s.playerLocks.Unlock(playerID)

	stats, err := s.stats.GetDifficultyStats(playerID, difficulty)
	if err != nil {
		return nil, &PersistenceError{Entity: "player_stats_difficulty", Op: "select", Err: err}
	}
	if stats == nil {
		stats = &models.PlayerDifficultyStats{
			PlayerStats: models.PlayerStats{PlayerID: playerID},
			Difficulty:  difficulty,
		}
	}
	return stats, nil
}

func winRate(won, played int) float64 {
	if played == 0 {
		return 0
	}
	return math.Round(float64(won)/float64(played)*100*100) / 100
}
