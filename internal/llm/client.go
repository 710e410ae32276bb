// Package llm is the thin client for the language-model collaborator: a
// composed prompt in, plain response text out. No core logic inspects
// the model beyond that contract.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultURL targets a chat-completions compatible endpoint.
const DefaultURL = "https://api.together.xyz/v1/chat/completions"

// DefaultModel is an instruction-following model suited to factual,
// low-creativity billing analysis.
const DefaultModel = "meta-llama/Llama-3-70b-chat-hf"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("llm: api key not configured")

// Client posts chat-completion requests to a remote LLM service.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
	log        zerolog.Logger
}

// NewClient builds a Client. Empty url or model fall back to the
// defaults; the api key may be empty, in which case Complete fails fast.
func NewClient(url, apiKey, model string, log zerolog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		apiKey:     apiKey,
		model:      model,
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the system instruction and user prompt and returns the
// model's text.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   2048,
		Temperature: 0.1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build llm request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("llm response")

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("llm service returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("llm returned no choices")
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("llm returned an empty response")
	}
	return content, nil
}
