package repository

import (
	"database/sql"
	"errors"

	"whisperchase/internal/database"
	"whisperchase/internal/models"
)

// StatsRepository handles player statistics database operations
type StatsRepository struct {
	db database.DBTX
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetOverallStats retrieves a player's overall stats, or nil when the
// player has no stats row yet.
func (r *StatsRepository) GetOverallStats(playerID string) (*models.PlayerStats, error) {
	query := `
		SELECT player_id, games_played, games_won, total_questions_asked,
		       average_questions_to_win, win_rate
		FROM player_stats
		WHERE player_id = ?
	`

	stats := &models.PlayerStats{}
	err := r.db.QueryRow(query, playerID).Scan(
		&stats.PlayerID,
		&stats.GamesPlayed,
		&stats.GamesWon,
		&stats.TotalQuestionsAsked,
		&stats.AverageQuestionsToWin,
		&stats.WinRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// SaveOverallStats upserts a player's overall stats row
func (r *StatsRepository) SaveOverallStats(stats *models.PlayerStats) error {
	updateQuery := `
		UPDATE player_stats
		SET games_played = ?, games_won = ?, total_questions_asked = ?,
		    average_questions_to_win = ?, win_rate = ?
		WHERE player_id = ?
	`

	result, err := r.db.Exec(updateQuery,
		stats.GamesPlayed,
		stats.GamesWon,
		stats.TotalQuestionsAsked,
		stats.AverageQuestionsToWin,
		stats.WinRate,
		stats.PlayerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO player_stats
			(player_id, games_played, games_won, total_questions_asked,
			 average_questions_to_win, win_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(insertQuery,
		stats.PlayerID,
		stats.GamesPlayed,
		stats.GamesWon,
		stats.TotalQuestionsAsked,
		stats.AverageQuestionsToWin,
		stats.WinRate,
	)
	return err
}

// GetDifficultyStats retrieves a player's stats at one difficulty, or nil
// when no row exists yet.
func (r *StatsRepository) GetDifficultyStats(playerID string, difficulty int) (*models.PlayerDifficultyStats, error) {
	query := `
		SELECT player_id, difficulty, games_played, games_won, total_questions_asked,
		       average_questions_to_win, win_rate
		FROM player_stats_difficulty
		WHERE player_id = ? AND difficulty = ?
	`

	stats := &models.PlayerDifficultyStats{}
	err := r.db.QueryRow(query, playerID, difficulty).Scan(
		&stats.PlayerID,
		&stats.Difficulty,
		&stats.GamesPlayed,
		&stats.GamesWon,
		&stats.TotalQuestionsAsked,
		&stats.AverageQuestionsToWin,
		&stats.WinRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// SaveDifficultyStats upserts a player's per-difficulty stats row
func (r *StatsRepository) SaveDifficultyStats(stats *models.PlayerDifficultyStats) error {
	updateQuery := `
		UPDATE player_stats_difficulty
		SET games_played = ?, games_won = ?, total_questions_asked = ?,
		    average_questions_to_win = ?, win_rate = ?
		WHERE player_id = ? AND difficulty = ?
	`

	result, err := r.db.Exec(updateQuery,
		stats.GamesPlayed,
		stats.GamesWon,
		stats.TotalQuestionsAsked,
		stats.AverageQuestionsToWin,
		stats.WinRate,
		stats.PlayerID,
		stats.Difficulty,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO player_stats_difficulty
			(player_id, difficulty, games_played, games_won, total_questions_asked,
			 average_questions_to_win, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(insertQuery,
		stats.PlayerID,
		stats.Difficulty,
		stats.GamesPlayed,
		stats.GamesWon,
		stats.TotalQuestionsAsked,
		stats.AverageQuestionsToWin,
		stats.WinRate,
	)
	return err
}
