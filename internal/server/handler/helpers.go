// Package handler contains the HTTP handlers for the scanner API. Each
// handler declares the service interface it needs locally so the package does
// not depend on concrete service implementations.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// setEdgeCache sets cache-control hints permitting short edge-caching.
func setEdgeCache(w http.ResponseWriter, maxAge, staleWhileRevalidate int) {
	w.Header().Set("Cache-Control",
		fmt.Sprintf("s-maxage=%d, stale-while-revalidate=%d", maxAge, staleWhileRevalidate))
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// logHandler is a convenience to attach slog fields in handler code.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}
