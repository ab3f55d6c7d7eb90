package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pulseboard/pulseboard/internal/summary"
)

func TestSummarize_Success(t *testing.T) {
	var gotSource string
	var gotCount int
	h, _ := setupHandlerWithSummarizer(t, &stubSummarizer{
		fn: func(ctx context.Context, source string, msgs []summary.Message) (string, error) {
			gotSource = source
			gotCount = len(msgs)
			return "Two things happened.", nil
		},
	})

	body := `{"source":"GitHub","messages":[
		{"notification":"merged PR #42","created_at":"2026-08-01T10:00:00Z"},
		{"todo_text":"review PR #43","created_at":"2026-08-01T11:00:00Z"}
	]}`
	rr := doJSON(t, h, http.MethodPost, "/api/summarize", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success      bool   `json:"success"`
		Summary      string `json:"summary"`
		Source       string `json:"source"`
		MessageCount int    `json:"messageCount"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Summary != "Two things happened." {
		t.Errorf("summary = %q", resp.Summary)
	}
	if resp.Source != "GitHub" || resp.MessageCount != 2 {
		t.Errorf("source = %q, messageCount = %d", resp.Source, resp.MessageCount)
	}
	if gotSource != "GitHub" || gotCount != 2 {
		t.Errorf("summarizer got source = %q, count = %d", gotSource, gotCount)
	}
}

func TestSummarize_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing source", `{"messages":[{"notification":"x"}]}`},
		{"empty messages", `{"source":"GitHub","messages":[]}`},
		{"missing messages", `{"source":"GitHub"}`},
		{"not json", `nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := setupHandler(t)

			rr := doJSON(t, h, http.MethodPost, "/api/summarize", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSummarize_NoContent(t *testing.T) {
	h, _ := setupHandlerWithSummarizer(t, &stubSummarizer{
		fn: func(ctx context.Context, source string, msgs []summary.Message) (string, error) {
			return "", summary.ErrNoContent
		},
	})

	rr := doJSON(t, h, http.MethodPost, "/api/summarize",
		`{"source":"GitHub","messages":[{"created_at":"2026-08-01T10:00:00Z"}]}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSummarize_MissingCredential(t *testing.T) {
	h, _ := setupHandlerWithSummarizer(t, &stubSummarizer{
		fn: func(ctx context.Context, source string, msgs []summary.Message) (string, error) {
			return "", summary.ErrNoAPIKey
		},
	})

	rr := doJSON(t, h, http.MethodPost, "/api/summarize",
		`{"source":"GitHub","messages":[{"notification":"x"}]}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestSummarize_UpstreamErrorPropagated(t *testing.T) {
	h, _ := setupHandlerWithSummarizer(t, &stubSummarizer{
		fn: func(ctx context.Context, source string, msgs []summary.Message) (string, error) {
			return "", &summary.UpstreamError{Status: http.StatusServiceUnavailable, Body: "model overloaded"}
		},
	})

	rr := doJSON(t, h, http.MethodPost, "/api/summarize",
		`{"source":"GitHub","messages":[{"notification":"x"}]}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want upstream 503", rr.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Details != "model overloaded" {
		t.Errorf("details = %q, upstream detail not passed through", resp.Details)
	}
}
