package models

// PlayerStats holds a player's aggregate results across all games.
// AverageQuestionsToWin only reflects games the player won; WinRate is a
// percentage rounded to two decimals.
type PlayerStats struct {
	PlayerID              string  `json:"player_id"`
	GamesPlayed           int     `json:"games_played"`
	GamesWon              int     `json:"games_won"`
	TotalQuestionsAsked   int     `json:"total_questions_asked"`
	AverageQuestionsToWin float64 `json:"average_questions_to_win"`
	WinRate               float64 `json:"win_rate"`
}

// PlayerDifficultyStats holds the same aggregates scoped to a single
// difficulty level.
type PlayerDifficultyStats struct {
	PlayerStats
	Difficulty int `json:"difficulty"`
}
