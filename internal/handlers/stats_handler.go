package handlers

import (
	"net/http"
	"strconv"

	"whisperchase/internal/service"
)

// StatsHandler handles player statistics HTTP requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetPlayerStats returns a player's overall aggregates
func (h *StatsHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("id")

	stats, err := h.statsService.GetPlayerStats(playerID)
	if err != nil {
		respondWithGameError(w, "Failed to get stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetPlayerDifficultyStats returns a player's aggregates for one difficulty
func (h *StatsHandler) GetPlayerDifficultyStats(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("id")

	difficulty, err := strconv.Atoi(r.PathValue("difficulty"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid difficulty", "", nil)
		return
	}

	stats, err := h.statsService.GetPlayerDifficultyStats(playerID, difficulty)
	if err != nil {
		respondWithGameError(w, "Failed to get stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
