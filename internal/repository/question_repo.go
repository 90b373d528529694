package repository

import (
	"time"

	"whisperchase/internal/database"
	"whisperchase/internal/models"
)

// QuestionRepository handles question record database operations
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// RecordQuestion inserts a question with its normalized answer and number.
// Records are immutable once written.
func (r *QuestionRepository) RecordQuestion(gameID, playerID, question string, answer bool, questionNumber int) (*models.QuestionRecord, error) {
	createdAt := time.Now()

	query := `
		INSERT INTO game_questions (game_id, player_id, question, answer, question_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, gameID, playerID, question, answer, questionNumber, createdAt)
	if err != nil {
		return nil, err
	}

	return &models.QuestionRecord{
		ID:             id,
		GameID:         gameID,
		PlayerID:       playerID,
		Question:       question,
		Answer:         answer,
		QuestionNumber: questionNumber,
		CreatedAt:      createdAt,
	}, nil
}

// CountPlayerQuestions returns how many questions a player asked in a game
func (r *QuestionRepository) CountPlayerQuestions(gameID, playerID string) (int, error) {
	query := "SELECT COUNT(*) FROM game_questions WHERE game_id = ? AND player_id = ?"

	var count int
	err := r.db.QueryRow(query, gameID, playerID).Scan(&count)
	return count, err
}

// ListQuestions retrieves a game's question records in ask order
func (r *QuestionRepository) ListQuestions(gameID string) ([]models.QuestionRecord, error) {
	query := `
		SELECT id, game_id, player_id, question, answer, question_number, created_at
		FROM game_questions
		WHERE game_id = ?
		ORDER BY question_number ASC
	`

	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuestionRecord
	for rows.Next() {
		var q models.QuestionRecord
		err := rows.Scan(
			&q.ID,
			&q.GameID,
			&q.PlayerID,
			&q.Question,
			&q.Answer,
			&q.QuestionNumber,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
