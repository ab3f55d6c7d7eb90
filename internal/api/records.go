package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/pulseboard/internal/storage"
)

func handleListRecords(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := storage.ListFilter{
			Source: r.URL.Query().Get("source"),
			Limit:  parseIntParam(r, "limit"),
			Offset: parseIntParam(r, "offset"),
		}

		if s := r.URL.Query().Get("is_todo"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid is_todo value: %q", s)
				return
			}
			filter.IsTodo = &v
		}

		records, err := deps.Store.ListRecords(filter)
		if err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to fetch notifications", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    records,
			"count":   len(records),
		})
	}
}

func handleGetRecord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := deps.Store.GetRecord(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "notification not found")
			return
		}
		if err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to fetch notification", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    rec,
		})
	}
}

type updateRequest struct {
	Status  *string `json:"status"`
	DueDate *string `json:"due_date"`
}

func handleUpdateRecord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}

		if req.Status != nil && !storage.ValidStatus(*req.Status) {
			httpError(w, http.StatusBadRequest, "invalid status. Must be: new, in_progress, or completed")
			return
		}

		update := storage.RecordUpdate{Status: req.Status, DueDate: req.DueDate}
		if update.IsEmpty() {
			httpError(w, http.StatusBadRequest, "no valid fields to update")
			return
		}

		rec, err := deps.Store.UpdateRecord(id, update)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "notification not found")
			return
		}
		if err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to update notification", err.Error())
			return
		}

		publish(deps, Event{Type: EventUpdate, Record: &rec})

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Notification updated successfully",
			"data":    rec,
		})
	}
}

func handleDeleteRecord(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		// Deleting a non-existent id is treated as success.
		if err := deps.Store.DeleteRecord(id); err != nil {
			httpErrorDetails(w, http.StatusInternalServerError, "failed to delete notification", err.Error())
			return
		}

		publish(deps, Event{Type: EventDelete, ID: id})

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Notification deleted successfully",
		})
	}
}

// parseIntParam returns the named query parameter as a non-negative int, or
// -1 when absent or unparsable.
func parseIntParam(r *http.Request, key string) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return -1
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return -1
	}
	return v
}
