package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/db"
	"github.com/kailas-cloud/folio/internal/domain"
	domrecent "github.com/kailas-cloud/folio/internal/domain/recent"
)

var keyPrefix = domain.KeyPrefix + "recent:"

// store is the consumer interface for recent-search logs (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store keeps one JSON array of recent queries per session.
type Store struct {
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a recent-search store. Logs expire ttl after their last write.
func New(s store, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{store: s, ttl: ttl, logger: logger}
}

func sessionKey(session string) string {
	return keyPrefix + session
}

// Load returns the session's log. A missing, unreadable or corrupt entry is an empty log.
func (s *Store) Load(ctx context.Context, session string) domrecent.Log {
	key := sessionKey(session)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to read recent searches", zap.String("key", key), zap.Error(err))
		}
		return domrecent.New(nil)
	}

	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		s.logger.Warn("Failed to parse recent searches", zap.String("key", key), zap.Error(err))
		return domrecent.New(nil)
	}
	return domrecent.New(terms)
}

// Save overwrites the session's log and refreshes its TTL.
func (s *Store) Save(ctx context.Context, session string, log domrecent.Log) error {
	data, err := json.Marshal(log.Terms())
	if err != nil {
		return fmt.Errorf("marshal recent searches: %w", err)
	}
	key := sessionKey(session)
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Clear removes the session's log.
func (s *Store) Clear(ctx context.Context, session string) error {
	key := sessionKey(session)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
