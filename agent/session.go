package agent

import (
	"context"

	"github.com/google/uuid"
)

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey sets the routing key that scopes state storage to one
// conversation.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the routing key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(sessionKeyContext{}).(string)
	return key, ok && key != ""
}

func sessionKeyOrDefault(ctx context.Context) string {
	if key, ok := SessionKeyFromContext(ctx); ok {
		return key
	}
	return defaultSessionKey
}

// NewSessionKey returns a fresh unique session key.
func NewSessionKey() string {
	return uuid.NewString()
}
