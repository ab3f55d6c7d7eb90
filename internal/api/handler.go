package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/pulseboard/internal/storage"
	"github.com/pulseboard/pulseboard/internal/summary"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Summarizer abstracts the upstream summarization call for the API layer.
type Summarizer interface {
	Summarize(ctx context.Context, source string, msgs []summary.Message) (string, error)
}

// Deps holds the dependencies shared by all HTTP handlers. Lifecycle of the
// store and the event hub is owned by the process entry point.
type Deps struct {
	Store      *storage.Store
	Summarizer Summarizer
	Events     *Hub // optional; nil disables change-event publishing
}

// NewHandler returns the dashboard HTTP API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(CORS)

	r.Get("/health", handleHealth)

	r.Get("/api/webhook", handleWebhookHealth)
	r.Post("/api/webhook", handleWebhook(deps))

	r.Get("/api/notifications", handleListRecords(deps))
	r.Get("/api/notifications/{id}", handleGetRecord(deps))
	r.Patch("/api/notifications/{id}", handleUpdateRecord(deps))
	r.Delete("/api/notifications/{id}", handleDeleteRecord(deps))

	r.Get("/api/stats", handleStats(deps))
	r.Post("/api/summarize", handleSummarize(deps))

	if deps.Events != nil {
		r.Get("/api/events", handleEvents(deps.Events))
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// publish sends a change event when a hub is configured.
func publish(deps Deps, evt Event) {
	if deps.Events != nil {
		deps.Events.Publish(evt)
	}
}
