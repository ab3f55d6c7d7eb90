package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// httpError writes a JSON {error} body and logs the failure.
func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Error("request failed", "status", code, "error", msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"error": msg})
}

// httpErrorDetails writes a JSON {error, details} body, passing upstream
// diagnostic detail through for observability.
func httpErrorDetails(w http.ResponseWriter, code int, msg, details string) {
	slog.Error("request failed", "status", code, "error", msg, "details", details)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"error": msg, "details": details})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
