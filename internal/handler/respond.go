package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/ctxkeys"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps a service error to its status and client message.
// Errors without a client message fall back to fallback and are logged.
func handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error(fallback,
			"error", err,
			"request_id", ctxkeys.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeError(w, status, apperr.Message(err, fallback))
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched so
// required-field checks report what is missing.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	err := decoder.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrValidation, err, "Invalid JSON payload.")
	}
	return nil
}
