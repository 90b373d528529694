package handlers

import (
	"encoding/json"
	"net/http"

	"whisperchase/internal/audio"
)

// VoiceHandler handles text-to-speech HTTP requests
type VoiceHandler struct {
	ttsService *audio.TTSService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(ttsService *audio.TTSService) *VoiceHandler {
	return &VoiceHandler{ttsService: ttsService}
}

type textToSpeechRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

// TextToSpeech converts text to spoken audio and streams back the mp3
func (h *VoiceHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	if !h.ttsService.Available() {
		respondWithError(w, http.StatusServiceUnavailable, "Text-to-speech is not configured", "", nil)
		return
	}

	var req textToSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required", "", nil)
		return
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = audio.DefaultVoiceID
	}

	speech, err := h.ttsService.GenerateSpeech(r.Context(), req.Text, voiceID)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Text-to-speech conversion failed", "GenerateSpeech failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "attachment; filename=speech.mp3")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(speech)
}

// GetVoices lists the available voices
func (h *VoiceHandler) GetVoices(w http.ResponseWriter, r *http.Request) {
	if !h.ttsService.Available() {
		respondWithError(w, http.StatusServiceUnavailable, "Text-to-speech is not configured", "", nil)
		return
	}

	voices, err := h.ttsService.GetVoices(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to fetch voices", "GetVoices failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"voices": voices})
}
