package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeError sends the {"error": message} body every API failure uses.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]string{"error": message})
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
