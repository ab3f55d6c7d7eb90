package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/storage"
)

// WebhookPayload is an inbound event from the external automation tool.
// IsTodo is a pointer so a missing field is distinguishable from false.
type WebhookPayload struct {
	Source       string  `json:"source"`
	IsTodo       *bool   `json:"is_todo"`
	TodoText     string  `json:"todo_text"`
	Notification *string `json:"notification"`
	Status       string  `json:"status"`
	DueDate      *string `json:"due_date"`
}

// NewRecord normalizes an accepted payload into a record: todo_text and
// status only exist for todos, status defaults to "new", and created_at is
// assigned server-side.
func NewRecord(source string, isTodo bool, todoText, status string, notification, dueDate *string) storage.Record {
	rec := storage.Record{
		ID:           uuid.New().String(),
		Source:       source,
		IsTodo:       isTodo,
		Notification: notification,
		DueDate:      dueDate,
		CreatedAt:    time.Now().UTC(),
	}
	if isTodo {
		rec.TodoText = &todoText
		if status == "" {
			status = storage.StatusNew
		}
		rec.Status = &status
	}
	return rec
}

func handleWebhook(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}

		if req.Source == "" || req.IsTodo == nil {
			httpError(w, http.StatusBadRequest, "missing required fields: source and is_todo")
			return
		}
		if *req.IsTodo && req.TodoText == "" {
			httpError(w, http.StatusBadRequest, "todo_text is required when is_todo is true")
			return
		}

		rec := NewRecord(req.Source, *req.IsTodo, req.TodoText, req.Status, req.Notification, req.DueDate)

		// At-most-once: a store failure drops the event, the caller retries.
		if err := deps.Store.InsertRecord(rec); err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to save notification", err.Error())
			return
		}

		publish(deps, Event{Type: EventInsert, Record: &rec})

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Notification saved successfully",
			"data":    rec,
		})
	}
}

// handleWebhookHealth answers automation-tool health probes.
func handleWebhookHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "webhook endpoint",
	})
}
