package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"whisperchase/internal/models"
	"whisperchase/internal/words"
)

// fakeGameStore is an in-memory GameStore with the same conditional-update
// semantics as the SQL repository.
type fakeGameStore struct {
	mu           sync.Mutex
	sessions     map[string]*models.GameSession
	participants []models.Participant
	nextPartID   int64
	nextGameID   int
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{sessions: make(map[string]*models.GameSession)}
}

func (f *fakeGameStore) CreateSession(s *models.GameSession) (*models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextGameID++
	clone := *s
	clone.ID = fmt.Sprintf("game-%d", f.nextGameID)
	clone.CreatedAt = time.Now()
	f.sessions[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeGameStore) GetSession(id string) (*models.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *s
	return &out, nil
}

func (f *fakeGameStore) AddParticipant(gameID, playerID string) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextPartID++
	p := models.Participant{ID: f.nextPartID, GameID: gameID, PlayerID: playerID, JoinedAt: time.Now()}
	f.participants = append(f.participants, p)
	return &p, nil
}

func (f *fakeGameStore) ListParticipants(gameID string) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Participant
	for _, p := range f.participants {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeGameStore) CountParticipants(gameID string) (int, error) {
	list, _ := f.ListParticipants(gameID)
	return len(list), nil
}

func (f *fakeGameStore) IncrementQuestionsAsked(gameID string, expected int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[gameID]
	if !ok || s.Status != models.StatusPlaying || s.QuestionsAsked != expected {
		return false, nil
	}
	s.QuestionsAsked = expected + 1
	return true, nil
}

func (f *fakeGameStore) FinishSession(gameID string, winnerID *string, completedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[gameID]
	if !ok || s.Status != models.StatusPlaying {
		return false, nil
	}
	s.Status = models.StatusFinished
	s.WinnerID = winnerID
	at := completedAt
	s.CompletedAt = &at
	return true, nil
}

func (f *fakeGameStore) UpdateTTSSettings(gameID string, enableTTS bool, voiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[gameID]
	if !ok {
		return sql.ErrNoRows
	}
	s.EnableTTS = enableTTS
	s.VoiceID = voiceID
	return nil
}

type fakeQuestionStore struct {
	mu      sync.Mutex
	records []models.QuestionRecord
	nextID  int64
}

func (f *fakeQuestionStore) RecordQuestion(gameID, playerID, question string, answer bool, questionNumber int) (*models.QuestionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	rec := models.QuestionRecord{
		ID:             f.nextID,
		GameID:         gameID,
		PlayerID:       playerID,
		Question:       question,
		Answer:         answer,
		QuestionNumber: questionNumber,
		CreatedAt:      time.Now(),
	}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeQuestionStore) CountPlayerQuestions(gameID, playerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, r := range f.records {
		if r.GameID == gameID && r.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

type fakeStatsStore struct {
	mu          sync.Mutex
	overall     map[string]*models.PlayerStats
	difficulty  map[string]*models.PlayerDifficultyStats
	overallSave int
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{
		overall:    make(map[string]*models.PlayerStats),
		difficulty: make(map[string]*models.PlayerDifficultyStats),
	}
}

func (f *fakeStatsStore) GetOverallStats(playerID string) (*models.PlayerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.overall[playerID]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (f *fakeStatsStore) SaveOverallStats(stats *models.PlayerStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *stats
	f.overall[stats.PlayerID] = &clone
	f.overallSave++
	return nil
}

func (f *fakeStatsStore) GetDifficultyStats(playerID string, difficulty int) (*models.PlayerDifficultyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.difficulty[fmt.Sprintf("%s/%d", playerID, difficulty)]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (f *fakeStatsStore) SaveDifficultyStats(stats *models.PlayerDifficultyStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *stats
	f.difficulty[fmt.Sprintf("%s/%d", stats.PlayerID, stats.Difficulty)] = &clone
	return nil
}

// fakeOracle returns canned replies and counts calls.
type fakeOracle struct {
	mu          sync.Mutex
	answerReply string
	guessReply  string
	answerCalls int
	guessCalls  int
}

func (f *fakeOracle) AnswerQuestion(ctx context.Context, secretWord, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answerCalls++
	return f.answerReply, nil
}

func (f *fakeOracle) JudgeGuess(ctx context.Context, secretWord, guess string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guessCalls++
	return f.guessReply, nil
}

func testBank(t *testing.T) *words.Bank {
	t.Helper()
	bank, err := words.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return bank
}

func newTestGameService(t *testing.T, o *fakeOracle) (*GameService, *fakeGameStore, *fakeQuestionStore, *fakeStatsStore) {
	t.Helper()
	games := newFakeGameStore()
	questions := &fakeQuestionStore{}
	statsStore := newFakeStatsStore()
	stats := NewStatsService(statsStore, games, questions)
	svc := NewGameService(games, questions, stats, testBank(t), o)
	return svc, games, questions, statsStore
}

func TestStartGameAutoJoinsHost(t *testing.T) {
	svc, games, _, _ := newTestGameService(t, &fakeOracle{})

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	if session.Status != models.StatusPlaying {
		t.Errorf("Status = %q, want %q", session.Status, models.StatusPlaying)
	}
	if session.SecretWord == "" {
		t.Error("SecretWord is empty")
	}
	if session.GameType != models.DefaultGameType {
		t.Errorf("GameType = %q, want %q", session.GameType, models.DefaultGameType)
	}
	if session.MaxPlayers != 1 {
		t.Errorf("MaxPlayers = %d, want 1", session.MaxPlayers)
	}
	if session.CurrentPlayerID != "host-1" {
		t.Errorf("CurrentPlayerID = %q, want %q", session.CurrentPlayerID, "host-1")
	}

	participants, _ := games.ListParticipants(session.ID)
	if len(participants) != 1 || participants[0].PlayerID != "host-1" {
		t.Errorf("participants = %+v, want just the host", participants)
	}
}

func TestGetRemainingSlotsGoesNegative(t *testing.T) {
	svc, _, _, _ := newTestGameService(t, &fakeOracle{})

	session, err := svc.StartGame("host-1", 0, "multi", 2, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	slots, err := svc.GetRemainingSlots(session.ID)
	if err != nil {
		t.Fatalf("GetRemainingSlots() error = %v", err)
	}
	if slots != 1 {
		t.Errorf("slots = %d, want 1", slots)
	}

	for _, player := range []string{"p2", "p3"} {
		if _, err := svc.JoinGame(session.ID, player); err != nil {
			t.Fatalf("JoinGame(%q) error = %v", player, err)
		}
	}

	slots, err = svc.GetRemainingSlots(session.ID)
	if err != nil {
		t.Fatalf("GetRemainingSlots() error = %v", err)
	}
	if slots != -1 {
		t.Errorf("slots = %d, want -1", slots)
	}
}

func TestAskQuestionNumbersSequentially(t *testing.T) {
	o := &fakeOracle{answerReply: "Yes."}
	svc, _, questions, _ := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		res, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "Is it alive?")
		if err != nil {
			t.Fatalf("AskQuestion() error = %v", err)
		}
		if !res.Active {
			t.Fatal("AskQuestion() reported inactive session")
		}
		if res.QuestionNumber != i {
			t.Errorf("QuestionNumber = %d, want %d", res.QuestionNumber, i)
		}
		if !res.Answer.Bool() {
			t.Errorf("Answer = %q, want affirmative", res.Answer)
		}
	}

	if got := len(questions.records); got != 3 {
		t.Errorf("recorded %d questions, want 3", got)
	}
}

func TestAskQuestionConcurrentNumbersAreUnique(t *testing.T) {
	o := &fakeOracle{answerReply: "No"}
	svc, _, questions, _ := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "multi", 4, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	const asks = 10
	var wg sync.WaitGroup
	errs := make(chan error, asks)
	for i := 0; i < asks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "Is it bigger than a breadbox?")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AskQuestion() error = %v", err)
		}
	}

	var numbers []int
	for _, r := range questions.records {
		numbers = append(numbers, r.QuestionNumber)
	}
	sort.Ints(numbers)
	if len(numbers) != asks {
		t.Fatalf("recorded %d questions, want %d", len(numbers), asks)
	}
	for i, n := range numbers {
		if n != i+1 {
			t.Fatalf("question numbers = %v, want 1..%d with no gaps", numbers, asks)
		}
	}
}

func TestAskQuestionInactiveSkipsOracle(t *testing.T) {
	o := &fakeOracle{answerReply: "Yes"}
	svc, games, _, _ := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := games.FinishSession(session.ID, nil, time.Now()); err != nil {
		t.Fatalf("FinishSession() error = %v", err)
	}

	res, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "Is it alive?")
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}
	if res.Active {
		t.Error("AskQuestion() reported active on finished session")
	}
	if o.answerCalls != 0 {
		t.Errorf("oracle called %d times on a finished game, want 0", o.answerCalls)
	}
}

func TestQuestionLimitFinishesWithoutWinnerOrStats(t *testing.T) {
	o := &fakeOracle{answerReply: "No"}
	svc, games, _, statsStore := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	for i := 1; i <= models.MaxQuestions; i++ {
		res, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "Is it blue?")
		if err != nil {
			t.Fatalf("AskQuestion() #%d error = %v", i, err)
		}
		if !res.Active {
			t.Fatalf("AskQuestion() #%d reported inactive", i)
		}
	}

	got, err := games.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Status != models.StatusFinished {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusFinished)
	}
	if got.WinnerID != nil {
		t.Errorf("WinnerID = %q, want nil", *got.WinnerID)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt is nil")
	}
	if statsStore.overallSave != 0 {
		t.Errorf("stats saved %d times on an exhausted game, want 0", statsStore.overallSave)
	}

	res, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "One more?")
	if err != nil {
		t.Fatalf("AskQuestion() after finish error = %v", err)
	}
	if res.Active {
		t.Error("AskQuestion() reported active after question limit")
	}
}

func TestMakeGuessCorrectFinishesAndRunsStats(t *testing.T) {
	o := &fakeOracle{answerReply: "Yes", guessReply: "Correct"}
	svc, games, _, statsStore := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "multi", 2, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := svc.JoinGame(session.ID, "p2"); err != nil {
		t.Fatalf("JoinGame() error = %v", err)
	}
	if _, err := svc.AskQuestion(context.Background(), session.ID, "host-1", "Is it alive?"); err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	res, err := svc.MakeGuess(context.Background(), session.ID, "host-1", "penguin")
	if err != nil {
		t.Fatalf("MakeGuess() error = %v", err)
	}
	if !res.Active || !res.Correct {
		t.Fatalf("result = %+v, want active correct guess", res)
	}
	if res.PlayerID != "host-1" {
		t.Errorf("PlayerID = %q, want host-1", res.PlayerID)
	}

	got, _ := games.GetSession(session.ID)
	if got.Status != models.StatusFinished {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusFinished)
	}
	if got.WinnerID == nil || *got.WinnerID != "host-1" {
		t.Errorf("WinnerID = %v, want host-1", got.WinnerID)
	}

	// One overall save per participant.
	if statsStore.overallSave != 2 {
		t.Errorf("overall stats saved %d times, want 2", statsStore.overallSave)
	}

	winner := statsStore.overall["host-1"]
	if winner == nil || winner.GamesWon != 1 || winner.GamesPlayed != 1 {
		t.Errorf("winner stats = %+v, want 1 played 1 won", winner)
	}
	if winner != nil && winner.AverageQuestionsToWin != 1 {
		t.Errorf("AverageQuestionsToWin = %v, want 1", winner.AverageQuestionsToWin)
	}
	loser := statsStore.overall["p2"]
	if loser == nil || loser.GamesWon != 0 || loser.GamesPlayed != 1 {
		t.Errorf("loser stats = %+v, want 1 played 0 won", loser)
	}
}

func TestMakeGuessIncorrectKeepsPlaying(t *testing.T) {
	o := &fakeOracle{guessReply: "Incorrect"}
	svc, games, _, statsStore := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	res, err := svc.MakeGuess(context.Background(), session.ID, "host-1", "submarine")
	if err != nil {
		t.Fatalf("MakeGuess() error = %v", err)
	}
	if !res.Active || res.Correct {
		t.Fatalf("result = %+v, want active incorrect guess", res)
	}
	if res.Message == "" {
		t.Error("Message is empty")
	}

	got, _ := games.GetSession(session.ID)
	if got.Status != models.StatusPlaying {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusPlaying)
	}
	if statsStore.overallSave != 0 {
		t.Errorf("stats saved %d times after a wrong guess, want 0", statsStore.overallSave)
	}
}

func TestMakeGuessInactiveSkipsOracle(t *testing.T) {
	o := &fakeOracle{guessReply: "Correct"}
	svc, games, _, _ := newTestGameService(t, o)

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := games.FinishSession(session.ID, nil, time.Now()); err != nil {
		t.Fatalf("FinishSession() error = %v", err)
	}

	res, err := svc.MakeGuess(context.Background(), session.ID, "host-1", "penguin")
	if err != nil {
		t.Fatalf("MakeGuess() error = %v", err)
	}
	if res.Active {
		t.Error("MakeGuess() reported active on finished session")
	}
	if o.guessCalls != 0 {
		t.Errorf("oracle called %d times on a finished game, want 0", o.guessCalls)
	}
}

func TestGetGameNotFound(t *testing.T) {
	svc, _, _, _ := newTestGameService(t, &fakeOracle{})

	_, err := svc.GetGame("no-such-game")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetGame() error = %v, want *NotFoundError", err)
	}
	if notFound.ID != "no-such-game" {
		t.Errorf("NotFoundError.ID = %q, want no-such-game", notFound.ID)
	}
}

func TestUpdateTTSSettings(t *testing.T) {
	svc, games, _, _ := newTestGameService(t, &fakeOracle{})

	session, err := svc.StartGame("host-1", 0, "", 0, "")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	if err := svc.UpdateTTSSettings(session.ID, true, "voice-a"); err != nil {
		t.Fatalf("UpdateTTSSettings() error = %v", err)
	}

	got, _ := games.GetSession(session.ID)
	if !got.EnableTTS || got.VoiceID != "voice-a" {
		t.Errorf("session = enable_tts %v voice %q, want true voice-a", got.EnableTTS, got.VoiceID)
	}

	err = svc.UpdateTTSSettings("no-such-game", true, "voice-a")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("UpdateTTSSettings() error = %v, want *NotFoundError", err)
	}
}
