// Package ai calls the OpenAI-compatible chat completion endpoint used for
// text generation (profile summaries, meeting minutes).
//
// The remote service is a plain REST API: POST {base}/chat/completions with a
// bearer key, a single user message, and a temperature. Failures with an HTTP
// status surface as *StatusError so callers can render the "[Code: N] body"
// form the clients display; transport failures propagate as-is.
package ai

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
)

// Generator produces completion text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// StatusError is a non-2xx reply from the completion endpoint.
type StatusError struct {
	Code int
	Body string
}

// Error renders the status-tagged form the card editor shows verbatim.
func (e *StatusError) Error() string {
	return fmt.Sprintf("[Code: %d] %s", e.Code, e.Body)
}

// ErrEmptyCompletion is returned when the endpoint answers 2xx but carries no
// usable completion text.
var ErrEmptyCompletion = errors.New("empty completion")

// Client posts chat completion requests to an OpenAI-compatible endpoint.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewClient builds a completion client. When httpc is nil a default client
// with a 30s timeout is used.
func NewClient(httpc *http.Client, baseURL, apiKey, model string) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpc:   httpc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as a single user message and returns the trimmed
// completion text.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

var _ Generator = (*Client)(nil)
