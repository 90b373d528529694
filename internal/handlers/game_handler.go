package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"whisperchase/internal/audio"
	"whisperchase/internal/service"
)

// GameHandler handles game-related HTTP requests
type GameHandler struct {
	gameService *service.GameService
	ttsService  *audio.TTSService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, ttsService *audio.TTSService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		ttsService:  ttsService,
	}
}

type startGameRequest struct {
	Difficulty  int    `json:"difficulty"`
	GameType    string `json:"game_type"`
	MaxPlayers  int    `json:"max_players"`
	GuessedWord string `json:"guessed_word"`
}

type startGameResponse struct {
	GameID       string `json:"game_id"`
	SecretWord   string `json:"secret_word"`
	HostPlayerID string `json:"host_player_id"`
	GameType     string `json:"game_type"`
	MaxPlayers   int    `json:"max_players"`
	GuessedWord  string `json:"guessed_word"`
	Difficulty   int    `json:"difficulty"`
}

// StartGame creates a new game hosted by the authenticated player. The
// secret word never leaves the server; the response carries a placeholder.
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	game, err := h.gameService.StartGame(player.ID, req.Difficulty, req.GameType, req.MaxPlayers, req.GuessedWord)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to start game", "StartGame failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, startGameResponse{
		GameID:       game.ID,
		SecretWord:   "hidden_for_players",
		HostPlayerID: player.ID,
		GameType:     game.GameType,
		MaxPlayers:   game.MaxPlayers,
		GuessedWord:  game.GuessedWord,
		Difficulty:   game.Difficulty,
	})
}

type joinGameRequest struct {
	GameID string `json:"game_id"`
}

type joinGameResponse struct {
	ID             int64  `json:"id"`
	GameID         string `json:"game_id"`
	PlayerID       string `json:"player_id"`
	RemainingSlots int    `json:"remaining_slots"`
}

// JoinGame joins the authenticated player to a game
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.GameID == "" {
		respondWithError(w, http.StatusBadRequest, "game_id is required", "", nil)
		return
	}

	participant, err := h.gameService.JoinGame(req.GameID, player.ID)
	if err != nil {
		respondWithGameError(w, "Failed to join game", err)
		return
	}

	slots, err := h.gameService.GetRemainingSlots(req.GameID)
	if err != nil {
		respondWithGameError(w, "Failed to join game", err)
		return
	}

	respondWithJSON(w, http.StatusOK, joinGameResponse{
		ID:             participant.ID,
		GameID:         participant.GameID,
		PlayerID:       participant.PlayerID,
		RemainingSlots: slots,
	})
}

type askQuestionRequest struct {
	GameID   string `json:"game_id"`
	Question string `json:"question"`
}

// AskQuestion forwards the player's question to the oracle and records the
// numbered answer. When the session has speech enabled and a TTS backend is
// configured, the spoken answer rides along base64-encoded.
func (h *GameHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var req askQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.GameID == "" || req.Question == "" {
		respondWithError(w, http.StatusBadRequest, "game_id and question are required", "", nil)
		return
	}

	result, err := h.gameService.AskQuestion(r.Context(), req.GameID, player.ID, req.Question)
	if err != nil {
		respondWithGameError(w, "Failed to ask question", err)
		return
	}
	if !result.Active {
		respondWithJSON(w, http.StatusOK, map[string]string{"error": service.InactiveMessage})
		return
	}

	payload := map[string]interface{}{
		"answer":          string(result.Answer),
		"question_number": result.QuestionNumber,
	}
	h.attachAudio(r, req.GameID, string(result.Answer), payload)

	respondWithJSON(w, http.StatusOK, payload)
}

type makeGuessRequest struct {
	GameID string `json:"game_id"`
	Guess  string `json:"guess"`
}

// MakeGuess submits the player's guess for the secret word
func (h *GameHandler) MakeGuess(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var req makeGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.GameID == "" || req.Guess == "" {
		respondWithError(w, http.StatusBadRequest, "game_id and guess are required", "", nil)
		return
	}

	result, err := h.gameService.MakeGuess(r.Context(), req.GameID, player.ID, req.Guess)
	if err != nil {
		respondWithGameError(w, "Failed to make guess", err)
		return
	}
	if !result.Active {
		respondWithJSON(w, http.StatusOK, map[string]string{"error": service.InactiveMessage})
		return
	}

	payload := map[string]interface{}{
		"correct":   result.Correct,
		"message":   result.Message,
		"player_id": result.PlayerID,
	}
	h.attachAudio(r, req.GameID, result.Message, payload)

	respondWithJSON(w, http.StatusOK, payload)
}

type gameResponse struct {
	ID              string  `json:"id"`
	HostPlayerID    string  `json:"host_player_id"`
	SecretWord      string  `json:"secret_word,omitempty"`
	Difficulty      int     `json:"difficulty"`
	Status          string  `json:"status"`
	QuestionsAsked  int     `json:"questions_asked"`
	CurrentPlayerID string  `json:"current_player_id"`
	WinnerID        *string `json:"winner_id"`
	GameType        string  `json:"game_type"`
	MaxPlayers      int     `json:"max_players"`
	GuessedWord     string  `json:"guessed_word"`
	EnableTTS       bool    `json:"enable_tts"`
	VoiceID         string  `json:"voice_id"`
}

// GetGame returns game information. The secret word is included only for
// authenticated callers.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		respondWithGameError(w, "Failed to get game", err)
		return
	}

	resp := gameResponse{
		ID:              game.ID,
		HostPlayerID:    game.HostPlayerID,
		Difficulty:      game.Difficulty,
		Status:          string(game.Status),
		QuestionsAsked:  game.QuestionsAsked,
		CurrentPlayerID: game.CurrentPlayerID,
		WinnerID:        game.WinnerID,
		GameType:        game.GameType,
		MaxPlayers:      game.MaxPlayers,
		GuessedWord:     game.GuessedWord,
		EnableTTS:       game.EnableTTS,
		VoiceID:         game.VoiceID,
	}
	if GetPlayerFromContext(r.Context()) != nil {
		resp.SecretWord = game.SecretWord
	}

	respondWithJSON(w, http.StatusOK, resp)
}

type ttsSettingsRequest struct {
	EnableTTS bool   `json:"enable_tts"`
	VoiceID   string `json:"voice_id"`
}

// UpdateTTSSettings sets a game's speech options
func (h *GameHandler) UpdateTTSSettings(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	var req ttsSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.gameService.UpdateTTSSettings(gameID, req.EnableTTS, req.VoiceID); err != nil {
		respondWithGameError(w, "Failed to update settings", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":    gameID,
		"enable_tts": req.EnableTTS,
		"voice_id":   req.VoiceID,
		"message":    "Voice settings updated successfully",
	})
}

// attachAudio adds a base64 mp3 of text to payload when the game has
// speech enabled. Audio failures degrade to a text-only response.
func (h *GameHandler) attachAudio(r *http.Request, gameID, text string, payload map[string]interface{}) {
	if h.ttsService == nil || !h.ttsService.Available() {
		return
	}

	game, err := h.gameService.GetGame(gameID)
	if err != nil || !game.EnableTTS {
		return
	}

	voiceID := game.VoiceID
	if voiceID == "" {
		voiceID = audio.DefaultVoiceID
	}

	speech, err := h.ttsService.GenerateSpeech(r.Context(), text, voiceID)
	if err != nil {
		log.Printf("Audio generation failed for game %s: %v", gameID, err)
		return
	}

	payload["audio"] = base64.StdEncoding.EncodeToString(speech)
	payload["audio_format"] = "mp3"
}

// respondWithGameError maps service errors onto HTTP statuses
func respondWithGameError(w http.ResponseWriter, userMsg string, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		respondWithError(w, http.StatusNotFound, notFound.Error(), "", nil)
		return
	}
	respondWithError(w, http.StatusInternalServerError, userMsg, userMsg, err)
}
