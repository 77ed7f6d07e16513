package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/templui/datanexus/internal/ctxkeys"
)

// Recover turns a panicking handler into a 500 JSON response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.Error("panic recovered",
				"panic", rec,
				"request_id", ctxkeys.RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}()

		next.ServeHTTP(w, r)
	})
}
