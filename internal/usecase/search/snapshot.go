package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/metrics"
)

// Snapshot holds the current immutable Index of every collection.
// Readers never block writers: a reload builds a new Index and swaps the pointer.
type Snapshot struct {
	src     Lister
	logger  *zap.Logger
	version atomic.Uint64
	indexes map[item.Kind]*atomic.Pointer[Index]

	mu        sync.Mutex
	listeners []func(item.Kind)
}

// NewSnapshot creates an empty snapshot backed by src.
func NewSnapshot(src Lister, logger *zap.Logger) *Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Snapshot{
		src:     src,
		logger:  logger,
		indexes: make(map[item.Kind]*atomic.Pointer[Index], len(item.Kinds())),
	}
	for _, k := range item.Kinds() {
		s.indexes[k] = &atomic.Pointer[Index]{}
	}
	return s
}

// Load rebuilds the index of every collection.
func (s *Snapshot) Load(ctx context.Context) error {
	for _, k := range item.Kinds() {
		if err := s.Reload(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Reload rebuilds the index of one collection and notifies listeners.
func (s *Snapshot) Reload(ctx context.Context, kind item.Kind) error {
	slot, ok := s.indexes[kind]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	items, err := s.src.List(ctx, kind)
	if err != nil {
		metrics.SnapshotReloadsTotal.WithLabelValues(string(kind), "error").Inc()
		return fmt.Errorf("list %s: %w", kind, err)
	}
	idx := NewIndex(items, s.version.Add(1))
	slot.Store(idx)

	metrics.SnapshotReloadsTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.SnapshotItems.WithLabelValues(string(kind)).Set(float64(idx.Len()))
	s.logger.Debug("snapshot reloaded",
		zap.String("kind", string(kind)),
		zap.Int("items", idx.Len()),
		zap.Uint64("version", idx.Version()),
	)

	s.notify(kind)
	return nil
}

// Index returns the current index of kind.
func (s *Snapshot) Index(kind item.Kind) (*Index, error) {
	slot, ok := s.indexes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	idx := slot.Load()
	if idx == nil {
		return nil, domain.ErrSnapshotNotReady
	}
	return idx, nil
}

// Ready reports whether every collection has been loaded at least once.
func (s *Snapshot) Ready() bool {
	for _, slot := range s.indexes {
		if slot.Load() == nil {
			return false
		}
	}
	return true
}

// OnChange registers fn to be called after a collection is reloaded.
// It returns a function that unregisters fn.
func (s *Snapshot) OnChange(fn func(item.Kind)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	id := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[id] = nil
	}
}

func (s *Snapshot) notify(kind item.Kind) {
	s.mu.Lock()
	fns := make([]func(item.Kind), 0, len(s.listeners))
	for _, fn := range s.listeners {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(kind)
	}
}

// Run reloads the affected collection on every change event until ctx is canceled.
// Reload failures are logged; the previous index stays in place.
func (s *Snapshot) Run(ctx context.Context, sub ChangeSubscriber) error {
	err := sub.SubscribeChanges(ctx, func(ev item.ChangeEvent) {
		if err := s.Reload(ctx, ev.Kind); err != nil {
			s.logger.Warn("snapshot reload failed",
				zap.String("kind", string(ev.Kind)),
				zap.String("op", string(ev.Op)),
				zap.String("id", ev.ID),
				zap.Error(err),
			)
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("subscribe changes: %w", err)
	}
	return nil
}
