package api

import "net/http"

// CORS allows the dashboard UI and external automation tools to call the API
// from any origin. Preflight requests are answered directly.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			h.Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
