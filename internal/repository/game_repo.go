package repository

import (
	"database/sql"
	"time"

	"whisperchase/internal/database"
	"whisperchase/internal/models"

	"github.com/google/uuid"
)

// GameRepository handles game session and participant database operations
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// CreateSession inserts a new game session and returns the stored row.
// The session id is assigned here.
func (r *GameRepository) CreateSession(s *models.GameSession) (*models.GameSession, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO game_sessions
			(id, host_player_id, secret_word, difficulty, status, questions_asked,
			 current_player_id, game_type, max_players, guessed_word, enable_tts, voice_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		s.HostPlayerID,
		s.SecretWord,
		s.Difficulty,
		s.Status,
		s.QuestionsAsked,
		s.CurrentPlayerID,
		s.GameType,
		s.MaxPlayers,
		s.GuessedWord,
		s.EnableTTS,
		s.VoiceID,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	return r.GetSession(id)
}

// GetSession retrieves a game session by id
func (r *GameRepository) GetSession(id string) (*models.GameSession, error) {
	query := `
		SELECT id, host_player_id, secret_word, difficulty, status, questions_asked,
		       current_player_id, winner_id, completed_at, game_type, max_players,
		       guessed_word, enable_tts, voice_id, created_at
		FROM game_sessions
		WHERE id = ?
	`

	session := &models.GameSession{}
	var winnerID sql.NullString
	var completedAt sql.NullTime
	var guessedWord sql.NullString
	var voiceID sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.HostPlayerID,
		&session.SecretWord,
		&session.Difficulty,
		&session.Status,
		&session.QuestionsAsked,
		&session.CurrentPlayerID,
		&winnerID,
		&completedAt,
		&session.GameType,
		&session.MaxPlayers,
		&guessedWord,
		&session.EnableTTS,
		&voiceID,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if winnerID.Valid {
		session.WinnerID = &winnerID.String
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	session.GuessedWord = guessedWord.String
	session.VoiceID = voiceID.String

	return session, nil
}

// AddParticipant inserts a participant row for a game. There is no dedup or
// capacity gate here; remaining slots are reported, not enforced.
func (r *GameRepository) AddParticipant(gameID, playerID string) (*models.Participant, error) {
	joinedAt := time.Now()

	query := `
		INSERT INTO game_participants (game_id, player_id, joined_at)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, gameID, playerID, joinedAt)
	if err != nil {
		return nil, err
	}

	return &models.Participant{
		ID:       id,
		GameID:   gameID,
		PlayerID: playerID,
		JoinedAt: joinedAt,
	}, nil
}

// ListParticipants retrieves all participants of a game in join order
func (r *GameRepository) ListParticipants(gameID string) ([]models.Participant, error) {
	query := `
		SELECT id, game_id, player_id, joined_at
		FROM game_participants
		WHERE game_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.GameID, &p.PlayerID, &p.JoinedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// CountParticipants returns the number of participant rows for a game
func (r *GameRepository) CountParticipants(gameID string) (int, error) {
	query := "SELECT COUNT(*) FROM game_participants WHERE game_id = ?"

	var count int
	err := r.db.QueryRow(query, gameID).Scan(&count)
	return count, err
}

// IncrementQuestionsAsked bumps the questions counter from expected to
// expected+1 with a conditional update, so concurrent increments can never
// assign the same question number. Returns false when the row no longer
// matches (the counter moved, or the session finished).
func (r *GameRepository) IncrementQuestionsAsked(gameID string, expected int) (bool, error) {
	query := `
		UPDATE game_sessions
		SET questions_asked = ?
		WHERE id = ? AND questions_asked = ? AND status = ?
	`

	result, err := r.db.Exec(query, expected+1, gameID, expected, models.StatusPlaying)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FinishSession moves a playing session to finished, recording the winner
// (nil for a question-limit finish) and completion time. The status guard
// makes a second finish attempt a no-op; the return value reports whether
// this call performed the transition.
func (r *GameRepository) FinishSession(gameID string, winnerID *string, completedAt time.Time) (bool, error) {
	query := `
		UPDATE game_sessions
		SET status = ?, winner_id = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.Exec(query, models.StatusFinished, winnerID, completedAt, gameID, models.StatusPlaying)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateTTSSettings sets the per-session speech options
func (r *GameRepository) UpdateTTSSettings(gameID string, enableTTS bool, voiceID string) error {
	query := "UPDATE game_sessions SET enable_tts = ?, voice_id = ? WHERE id = ?"

	result, err := r.db.Exec(query, enableTTS, voiceID, gameID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
