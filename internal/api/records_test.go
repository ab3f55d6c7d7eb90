package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/storage"
)

func strPtr(s string) *string { return &s }

func seedRecord(t *testing.T, store *storage.Store, source string, isTodo bool, createdAt time.Time) storage.Record {
	t.Helper()
	rec := storage.Record{
		ID:        fmt.Sprintf("%s-%d", source, createdAt.UnixNano()),
		Source:    source,
		IsTodo:    isTodo,
		CreatedAt: createdAt,
	}
	if isTodo {
		rec.TodoText = strPtr("task for " + source)
		rec.Status = strPtr(storage.StatusNew)
	} else {
		rec.Notification = strPtr("note from " + source)
	}
	if err := store.InsertRecord(rec); err != nil {
		t.Fatalf("InsertRecord: %v", err)
	}
	return rec
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) ([]storage.Record, int) {
	t.Helper()
	var resp struct {
		Success bool             `json:"success"`
		Data    []storage.Record `json:"data"`
		Count   int              `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	return resp.Data, resp.Count
}

func TestListRecords_NoFilters(t *testing.T) {
	h, store := setupHandler(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, "GitHub", false, base)
	seedRecord(t, store, "Email", true, base.Add(time.Hour))

	rr := doJSON(t, h, http.MethodGet, "/api/notifications", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	records, count := decodeList(t, rr)
	if count != 2 || len(records) != 2 {
		t.Fatalf("count = %d, len = %d, want 2", count, len(records))
	}
	// Newest first.
	if records[0].Source != "Email" {
		t.Errorf("first record source = %q, want Email", records[0].Source)
	}
}

func TestListRecords_Filtered(t *testing.T) {
	h, store := setupHandler(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, "GitHub", false, base)
	seedRecord(t, store, "GitHub", true, base.Add(time.Minute))
	seedRecord(t, store, "Slack", false, base.Add(2*time.Minute))

	rr := doJSON(t, h, http.MethodGet, "/api/notifications?source=GitHub&is_todo=false", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	records, count := decodeList(t, rr)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if records[0].Source != "GitHub" || records[0].IsTodo {
		t.Errorf("wrong record matched: %+v", records[0])
	}
}

func TestListRecords_EmptyMatchIsNotError(t *testing.T) {
	h, _ := setupHandler(t)

	rr := doJSON(t, h, http.MethodGet, "/api/notifications?source=Jira", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	records, count := decodeList(t, rr)
	if count != 0 || records == nil || len(records) != 0 {
		t.Errorf("count = %d, records = %v, want empty list", count, records)
	}
}

func TestListRecords_Window(t *testing.T) {
	h, store := setupHandler(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		seedRecord(t, store, "Email", false, base.Add(time.Duration(i)*time.Hour))
	}

	rr := doJSON(t, h, http.MethodGet, "/api/notifications?limit=2&offset=1", "")
	records, count := decodeList(t, rr)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	all := doJSON(t, h, http.MethodGet, "/api/notifications", "")
	allRecords, _ := decodeList(t, all)
	if records[0].ID != allRecords[1].ID || records[1].ID != allRecords[2].ID {
		t.Errorf("window [1,2] mismatch: got %s,%s", records[0].ID, records[1].ID)
	}
}

func TestListRecords_InvalidIsTodo(t *testing.T) {
	h, _ := setupHandler(t)

	rr := doJSON(t, h, http.MethodGet, "/api/notifications?is_todo=maybe", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetRecord(t *testing.T) {
	h, store := setupHandler(t)

	rec := seedRecord(t, store, "GitHub", false, time.Now().UTC().Truncate(time.Second))

	rr := doJSON(t, h, http.MethodGet, "/api/notifications/"+rec.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decodeData(t, rr)
	if got.ID != rec.ID {
		t.Errorf("id = %q, want %q", got.ID, rec.ID)
	}

	missing := doJSON(t, h, http.MethodGet, "/api/notifications/nope", "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", missing.Code)
	}
}

func TestUpdateRecord_StatusAndDueDate(t *testing.T) {
	h, store := setupHandler(t)

	rec := seedRecord(t, store, "Email", true, time.Now().UTC().Truncate(time.Second))

	rr := doJSON(t, h, http.MethodPatch, "/api/notifications/"+rec.ID,
		`{"status":"completed","due_date":"2026-09-10T00:00:00Z"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	got := decodeData(t, rr)
	if got.Status == nil || *got.Status != storage.StatusCompleted {
		t.Errorf("Status = %v, want completed", got.Status)
	}
	if got.DueDate == nil || *got.DueDate != "2026-09-10T00:00:00Z" {
		t.Errorf("DueDate = %v", got.DueDate)
	}
}

func TestUpdateRecord_InvalidStatusLeavesRecordUnchanged(t *testing.T) {
	h, store := setupHandler(t)

	rec := seedRecord(t, store, "Email", true, time.Now().UTC().Truncate(time.Second))

	rr := doJSON(t, h, http.MethodPatch, "/api/notifications/"+rec.ID, `{"status":"bogus"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	stored, err := store.GetRecord(rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if stored.Status == nil || *stored.Status != storage.StatusNew {
		t.Errorf("stored Status = %v, want unchanged %q", stored.Status, storage.StatusNew)
	}
}

func TestUpdateRecord_EmptyBody(t *testing.T) {
	h, store := setupHandler(t)

	rec := seedRecord(t, store, "Email", true, time.Now().UTC().Truncate(time.Second))

	rr := doJSON(t, h, http.MethodPatch, "/api/notifications/"+rec.ID, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	// Unknown fields alone do not make a valid update.
	rr = doJSON(t, h, http.MethodPatch, "/api/notifications/"+rec.ID, `{"source":"Hacked"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown-field status = %d, want 400", rr.Code)
	}

	stored, err := store.GetRecord(rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if stored.Source != "Email" {
		t.Errorf("Source was modified: %q", stored.Source)
	}
}

func TestUpdateRecord_NotFound(t *testing.T) {
	h, _ := setupHandler(t)

	rr := doJSON(t, h, http.MethodPatch, "/api/notifications/missing", `{"status":"new"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestDeleteRecord(t *testing.T) {
	h, store := setupHandler(t)

	rec := seedRecord(t, store, "Email", false, time.Now().UTC().Truncate(time.Second))

	rr := doJSON(t, h, http.MethodDelete, "/api/notifications/"+rec.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	after := doJSON(t, h, http.MethodGet, "/api/notifications/"+rec.ID, "")
	if after.Code != http.StatusNotFound {
		t.Errorf("record still fetchable after delete: %d", after.Code)
	}

	// Deleting a non-existent id is still a success.
	again := doJSON(t, h, http.MethodDelete, "/api/notifications/"+rec.ID, "")
	if again.Code != http.StatusOK {
		t.Errorf("repeat delete status = %d, want 200", again.Code)
	}
}
