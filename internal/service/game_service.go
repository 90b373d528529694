package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"whisperchase/internal/models"
	"whisperchase/internal/oracle"
	"whisperchase/internal/words"
)

// InactiveMessage is returned to callers when an operation hits a session
// that is no longer playing. It is a value, not an error: "can't proceed
// right now" is distinct from "something broke".
const InactiveMessage = "Game is not active"

// AskQuestionResult is the outcome of asking a question. When Active is
// false the session was not playing and nothing was mutated.
type AskQuestionResult struct {
	Active         bool
	Answer         oracle.Verdict
	QuestionNumber int
}

// GuessResult is the outcome of making a guess. When Active is false the
// session was not playing and nothing was mutated.
type GuessResult struct {
	Active   bool
	Correct  bool
	Message  string
	PlayerID string
}

// GameService owns the game session lifecycle: starting and joining games,
// validating questions and guesses against session state, question
// numbering, and win/loss determination.
type GameService struct {
	games     GameStore
	questions QuestionStore
	stats     *StatsService
	bank      *words.Bank
	oracle    Oracle

	// sessionLocks serializes the questions counter per session so
	// concurrent asks never share or skip a question number.
	sessionLocks *keyedLocks
}

// NewGameService creates a new game service
func NewGameService(games GameStore, questions QuestionStore, stats *StatsService, bank *words.Bank, oracleClient Oracle) *GameService {
	return &GameService{
		games:        games,
		questions:    questions,
		stats:        stats,
		bank:         bank,
		oracle:       oracleClient,
		sessionLocks: newKeyedLocks(),
	}
}

// StartGame draws a secret word (filtered by difficulty when positive),
// creates a playing session and auto-joins the host as first participant.
func (s *GameService) StartGame(hostPlayerID string, difficulty int, gameType string, maxPlayers int, guessedWord string) (*models.GameSession, error) {
	entry := s.bank.Select(difficulty)

	if gameType == "" {
		gameType = models.DefaultGameType
	}
	if maxPlayers <= 0 {
		maxPlayers = 1
	}

	session := &models.GameSession{
		HostPlayerID:    hostPlayerID,
		SecretWord:      entry.Name,
		Difficulty:      entry.Difficulty,
		Status:          models.StatusPlaying,
		QuestionsAsked:  0,
		CurrentPlayerID: hostPlayerID,
		GameType:        gameType,
		MaxPlayers:      maxPlayers,
		GuessedWord:     guessedWord,
	}

	created, err := s.games.CreateSession(session)
	if err != nil {
		return nil, &PersistenceError{Entity: "game_sessions", Op: "insert", Err: err}
	}

	if _, err := s.games.AddParticipant(created.ID, hostPlayerID); err != nil {
		return nil, &PersistenceError{Entity: "game_participants", Op: "insert", Err: err}
	}

	return created, nil
}

// JoinGame adds a player to a game. Capacity is reported via
// GetRemainingSlots, not enforced here.
func (s *GameService) JoinGame(gameID, playerID string) (*models.Participant, error) {
	participant, err := s.games.AddParticipant(gameID, playerID)
	if err != nil {
		return nil, &PersistenceError{Entity: "game_participants", Op: "insert", Err: err}
	}
	return participant, nil
}

// GetRemainingSlots reports how many seats a game has left. The value can
// go negative when joins exceed capacity; it is informational only.
func (s *GameService) GetRemainingSlots(gameID string) (int, error) {
	session, err := s.getSession(gameID)
	if err != nil {
		return 0, err
	}

	maxPlayers := session.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = 1
	}

	count, err := s.games.CountParticipants(gameID)
	if err != nil {
		return 0, &PersistenceError{Entity: "game_participants", Op: "select", Err: err}
	}

	return maxPlayers - count, nil
}

// GetGame retrieves a game session
func (s *GameService) GetGame(gameID string) (*models.GameSession, error) {
	return s.getSession(gameID)
}

// AskQuestion puts a player's question to the oracle, assigns the next
// question number and records the normalized answer. The 20th question
// finishes the session with no winner.
func (s *GameService) AskQuestion(ctx context.Context, gameID, playerID, question string) (*AskQuestionResult, error) {
	session, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}
	if !session.IsPlaying() {
		return &AskQuestionResult{Active: false}, nil
	}

	// The oracle call happens before the critical section; no lock is
	// held across network I/O.
	raw, err := s.oracle.AnswerQuestion(ctx, session.SecretWord, question)
	if err != nil {
		return nil, &OracleError{Op: "answer_question", Err: err}
	}
	verdict := oracle.NormalizeAnswer(raw)

	questionNumber, active, err := s.assignQuestionNumber(gameID)
	if err != nil {
		return nil, err
	}
	if !active {
		return &AskQuestionResult{Active: false}, nil
	}

	if _, err := s.questions.RecordQuestion(gameID, playerID, question, verdict.Bool(), questionNumber); err != nil {
		return nil, &PersistenceError{Entity: "game_questions", Op: "insert", Err: err}
	}

	if questionNumber >= models.MaxQuestions {
		if _, err := s.games.FinishSession(gameID, nil, time.Now()); err != nil {
			return nil, &PersistenceError{Entity: "game_sessions", Op: "update", Err: err}
		}
	}

	return &AskQuestionResult{
		Active:         true,
		Answer:         verdict,
		QuestionNumber: questionNumber,
	}, nil
}

// assignQuestionNumber increments the session's questions counter inside
// the per-session critical section and returns the new 1-based number.
// The store-level conditional update backs up the in-process lock, so the
// sequence stays gapless even with multiple server processes.
func (s *GameService) assignQuestionNumber(gameID string) (int, bool, error) {
	s.sessionLocks.Lock(gameID)
	defer s.sessionLocks.Unlock(gameID)

	for {
		session, err := s.getSession(gameID)
		if err != nil {
			return 0, false, err
		}
		if !session.IsPlaying() {
			return 0, false, nil
		}

		ok, err := s.games.IncrementQuestionsAsked(gameID, session.QuestionsAsked)
		if err != nil {
			return 0, false, &PersistenceError{Entity: "game_sessions", Op: "update", Err: err}
		}
		if ok {
			return session.QuestionsAsked + 1, true, nil
		}
		// Counter moved underneath us; re-read and retry.
	}
}

// MakeGuess asks the oracle to judge a guess. A correct guess finishes the
// session, credits the winner and recomputes stats for every participant
// before returning.
func (s *GameService) MakeGuess(ctx context.Context, gameID, playerID, guess string) (*GuessResult, error) {
	session, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}
	if !session.IsPlaying() {
		return &GuessResult{Active: false, PlayerID: playerID}, nil
	}

	raw, err := s.oracle.JudgeGuess(ctx, session.SecretWord, guess)
	if err != nil {
		return nil, &OracleError{Op: "judge_guess", Err: err}
	}

	if oracle.NormalizeGuess(raw) != oracle.GuessCorrect {
		return &GuessResult{
			Active:   true,
			Correct:  false,
			Message:  fmt.Sprintf("Wrong guess! The secret word was %q. Keep trying!", session.SecretWord),
			PlayerID: playerID,
		}, nil
	}

	finished, err := s.games.FinishSession(gameID, &playerID, time.Now())
	if err != nil {
		return nil, &PersistenceError{Entity: "game_sessions", Op: "update", Err: err}
	}

	// Stats run once, by whichever call performed the playing→finished
	// transition. A losing racer sees finished=false and skips them.
	if finished {
		if err := s.stats.RecordGameResult(session, playerID); err != nil {
			return nil, err
		}
	}

	return &GuessResult{
		Active:   true,
		Correct:  true,
		Message:  fmt.Sprintf("Congratulations! You guessed it: the secret word was %q.", session.SecretWord),
		PlayerID: playerID,
	}, nil
}

// UpdateTTSSettings sets a session's speech options
func (s *GameService) UpdateTTSSettings(gameID string, enableTTS bool, voiceID string) error {
	if err := s.games.UpdateTTSSettings(gameID, enableTTS, voiceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "game session", ID: gameID}
		}
		return &PersistenceError{Entity: "game_sessions", Op: "update", Err: err}
	}
	return nil
}

func (s *GameService) getSession(gameID string) (*models.GameSession, error) {
	session, err := s.games.GetSession(gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "game session", ID: gameID}
	}
	if err != nil {
		return nil, &PersistenceError{Entity: "game_sessions", Op: "select", Err: err}
	}
	return session, nil
}
