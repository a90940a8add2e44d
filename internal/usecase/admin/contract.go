package admin

import (
	"context"
	"time"
)

// SessionStore persists admin session tokens.
type SessionStore interface {
	Put(ctx context.Context, token, phone string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
