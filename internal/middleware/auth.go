package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/ctxkeys"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/service"
)

// RequireBearer verifies the Authorization bearer token and adds the
// identity to the request context. Requests without a valid token stop
// here with 401.
func RequireBearer(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			user, err := authService.Verify(token)
			if err != nil {
				slog.Warn("auth verification failed",
					"error", errors.Unwrap(err),
					"reason", err.Error(),
					"path", r.URL.Path,
				)
				writeError(w, http.StatusUnauthorized, apperr.Message(err, "Invalid token."))
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets only administrators through. It must run after
// RequireBearer.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil || user.Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len("bearer ") || !strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("bearer "):])
}
