// Package oracle wraps the language model that judges questions and
// guesses against a session's secret word. The secret word only ever
// appears in the instruction sent to the model; callers receive the
// model's free text and normalize it with the functions in verdict.go.
package oracle

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

const requestTimeout = 15 * time.Second

// Client calls the OpenAI chat completions API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new oracle client
func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnswerQuestion asks the model a player's question about the secret word
// and returns its free-text answer.
func (c *Client) AnswerQuestion(ctx context.Context, secretWord, question string) (string, error) {
	instruction := fmt.Sprintf("You are playing 20 Questions. The secret word is %q.", secretWord)
	prompt := fmt.Sprintf("The player asked: %q Answer with only one word: Yes, No, or Maybe.", question)
	return c.complete(ctx, instruction, prompt)
}

// JudgeGuess asks the model whether a guess names the secret word and
// returns its free-text judgment.
func (c *Client) JudgeGuess(ctx context.Context, secretWord, guess string) (string, error) {
	instruction := fmt.Sprintf("You are playing 20 Questions. The secret word is %q.", secretWord)
	prompt := fmt.Sprintf("The player guessed: %q\nReply with exactly one word: Correct or Incorrect.", guess)
	return c.complete(ctx, instruction, prompt)
}

func (c *Client) complete(ctx context.Context, instruction, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return chat.Choices[0].Message.Content, nil
}
