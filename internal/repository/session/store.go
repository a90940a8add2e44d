package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/folio/internal/db"
	"github.com/kailas-cloud/folio/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "session:"

// store is the consumer interface for admin sessions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store maps session tokens to the admin phone that opened them.
type Store struct {
	store store
}

// New creates a session store.
func New(s store) *Store {
	return &Store{store: s}
}

// Put stores token -> phone for ttl.
func (s *Store) Put(ctx context.Context, token, phone string, ttl time.Duration) error {
	if err := s.store.SetWithTTL(ctx, keyPrefix+token, []byte(phone), ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Lookup returns the phone bound to token, or ErrUnauthorized if the token is unknown or expired.
func (s *Store) Lookup(ctx context.Context, token string) (string, error) {
	data, err := s.store.Get(ctx, keyPrefix+token)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return string(data), nil
}

// Delete revokes a token.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.store.Del(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
