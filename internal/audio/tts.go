// Package audio provides text-to-speech via the ElevenLabs API. Speech is
// a side channel for rendering oracle answers; nothing in the game engine
// depends on it.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const ttsRequestTimeout = 30 * time.Second

// DefaultVoiceID is used when a session has TTS enabled without a voice
const DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"

const defaultModelID = "eleven_turbo_v2"

// Voice describes one available ElevenLabs voice
type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// TTSService synthesizes speech through the ElevenLabs API
type TTSService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTTSService creates a new TTS service. An empty apiKey disables it.
func NewTTSService(apiKey, baseURL string) *TTSService {
	return &TTSService{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Available reports whether the service has an API key configured
func (s *TTSService) Available() bool {
	return s.apiKey != ""
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// GenerateSpeech converts text to MP3 audio using the given voice.
// An empty voiceID falls back to the default voice.
func (s *TTSService) GenerateSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !s.Available() {
		return nil, fmt.Errorf("text-to-speech is not configured")
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}

	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: defaultModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	return audio, nil
}

// GetVoices lists the voices available to the configured account
func (s *TTSService) GetVoices(ctx context.Context) ([]Voice, error) {
	if !s.Available() {
		return nil, fmt.Errorf("text-to-speech is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode voices: %w", err)
	}

	return body.Voices, nil
}
