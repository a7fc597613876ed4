package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLines() []SessionLine {
	return []SessionLine{
		{Date: "2026-08-03", Patient: "A. Patient", TreatmentType: "Physiotherapy", DurationMinutes: 45},
		{Date: "2026-08-05", Patient: "B. Patient", TreatmentType: "Sports Massage", DurationMinutes: 60},
	}
}

func TestSummarizeMissingKey(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}
	if _, err := c.Summarize(context.Background(), "August 2026", testLines()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	c := &Client{APIKey: "k", HTTPClient: http.DefaultClient}
	if _, err := c.Summarize(context.Background(), "August 2026", nil); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions, got %v", err)
	}
}

func TestSummarizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system+user messages, got %d", len(req.Messages))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  Two sessions were logged.  "}},
			},
		})
	}))
	defer srv.Close()

	c := &Client{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL, HTTPClient: srv.Client()}
	text, err := c.Summarize(context.Background(), "August 2026", testLines())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Two sessions were logged." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{APIKey: "k", Model: "m", BaseURL: srv.URL, HTTPClient: srv.Client()}
	if _, err := c.Summarize(context.Background(), "August 2026", testLines()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestSummarizeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := &Client{APIKey: "k", Model: "m", BaseURL: srv.URL, HTTPClient: srv.Client()}
	if _, err := c.Summarize(context.Background(), "August 2026", testLines()); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
