package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/summary"
)

type summarizeRequest struct {
	Source   string            `json:"source"`
	Messages []summary.Message `json:"messages"`
}

func handleSummarize(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}

		if req.Source == "" || len(req.Messages) == 0 {
			httpError(w, http.StatusBadRequest, "invalid request: source and messages array required")
			return
		}

		text, err := deps.Summarizer.Summarize(r.Context(), req.Source, req.Messages)
		if errors.Is(err, summary.ErrNoContent) {
			httpError(w, http.StatusBadRequest, "no message content to summarize")
			return
		}
		if errors.Is(err, summary.ErrNoAPIKey) {
			httpError(w, http.StatusInternalServerError, "Groq API key not configured")
			return
		}
		var upstream *summary.UpstreamError
		if errors.As(err, &upstream) {
			httpErrorDetails(w, upstream.Status, "failed to generate summary", upstream.Body)
			return
		}
		if err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to generate summary", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"summary":      text,
			"source":       req.Source,
			"messageCount": len(req.Messages),
		})
	}
}
