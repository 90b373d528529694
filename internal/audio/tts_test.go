package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	svc := NewTTSService("test-key", server.URL)
	audio, err := svc.GenerateSpeech(context.Background(), "Yes", "voice-123")
	if err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Errorf("GenerateSpeech() = %q, want %q", audio, "audio-bytes")
	}
}

func TestGenerateSpeechDefaultVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/"+DefaultVoiceID {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	svc := NewTTSService("test-key", server.URL)
	if _, err := svc.GenerateSpeech(context.Background(), "No", ""); err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}
}

func TestGenerateSpeechUnconfigured(t *testing.T) {
	svc := NewTTSService("", "http://unused")
	if svc.Available() {
		t.Error("Available() should be false without an API key")
	}
	if _, err := svc.GenerateSpeech(context.Background(), "Yes", ""); err == nil {
		t.Error("GenerateSpeech() should fail without an API key")
	}
}

func TestGetVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voices" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"voices": []Voice{{VoiceID: "v1", Name: "Adam", Category: "premade"}},
		})
	}))
	defer server.Close()

	svc := NewTTSService("test-key", server.URL)
	voices, err := svc.GetVoices(context.Background())
	if err != nil {
		t.Fatalf("GetVoices() error = %v", err)
	}
	if len(voices) != 1 || voices[0].VoiceID != "v1" {
		t.Errorf("GetVoices() = %+v, want one voice v1", voices)
	}
}
