// Package summarize calls an OpenAI-compatible chat-completions API to turn
// a month of treatment sessions into a short plain-language report. The
// returned text is opaque to the rest of the system.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrMissingAPIKey indicates that no API credential is configured.
var ErrMissingAPIKey = errors.New("missing api key")

// ErrNoSessions indicates there was nothing to summarize.
var ErrNoSessions = errors.New("no sessions to summarize")

// SessionLine is one treatment row fed to the model.
type SessionLine struct {
	Date            string
	Patient         string
	TreatmentType   string
	DurationMinutes int
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from OPENAI_API_KEY, OPENAI_MODEL, and
// OPENAI_BASE_URL. A client without a key is still usable; Summarize will
// return ErrMissingAPIKey.
func NewFromEnv() *Client {
	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}
	base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if base == "" {
		base = "https://api.openai.com"
	}
	return &Client{
		APIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:      model,
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize asks the model for a plain-language report covering monthLabel.
func (c *Client) Summarize(ctx context.Context, monthLabel string, lines []SessionLine) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	if len(lines) == 0 {
		return "", ErrNoSessions
	}

	body := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an assistant for a physiotherapy clinic. Answer with plain text only, no markdown."},
			{Role: "user", Content: buildPrompt(monthLabel, lines)},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary upstream: %w", err)
	}
	defer resp.Body.Close()

	slurp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("summary upstream status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(slurp, &out); err != nil {
		return "", fmt.Errorf("decode summary response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("summary response has no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func buildPrompt(monthLabel string, lines []SessionLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short payroll summary for the treatment sessions logged in %s. ", monthLabel)
	b.WriteString("Mention total sessions, total hours, and anything notable. The sessions:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "%s | %s | %s | %d min\n", l.Date, l.Patient, l.TreatmentType, l.DurationMinutes)
	}
	return b.String()
}
