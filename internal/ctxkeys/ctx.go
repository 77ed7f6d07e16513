package ctxkeys

import (
	"context"

	"github.com/templui/datanexus/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	RequestIDKey contextKey = "request_id"
)

// User returns the authenticated identity, or nil for anonymous requests.
func User(ctx context.Context) *model.PublicUser {
	user, _ := ctx.Value(UserKey).(*model.PublicUser)
	return user
}

func WithUser(ctx context.Context, user *model.PublicUser) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Actor names the user behind a request for audit entries.
func Actor(ctx context.Context) string {
	user := User(ctx)
	if user == nil {
		return ""
	}
	return user.Username
}
