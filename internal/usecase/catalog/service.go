package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
)

// Service handles catalog CRUD and change publication.
type Service struct {
	repo   Repository
	pub    Publisher
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a catalog service.
func New(repo Repository, pub Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		pub:    pub,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithIDGenerator overrides how IDs are assigned to new items.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// List returns every item of kind in collection order.
func (s *Service) List(ctx context.Context, kind item.Kind) ([]item.Item, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, kind item.Kind, id string) (item.Item, error) {
	if err := checkKind(kind); err != nil {
		return item.Item{}, err
	}
	it, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return item.Item{}, fmt.Errorf("get %s: %w", kind, err)
	}
	return it, nil
}

// Create validates and stores a new item. An empty id is replaced with a UUID.
func (s *Service) Create(ctx context.Context, kind item.Kind, id string, f item.Fields) (item.Item, error) {
	if id == "" {
		id = s.newID()
	}
	it, err := item.New(id, kind, f)
	if err != nil {
		return item.Item{}, invalid(kind, err)
	}
	now := s.now()
	it = it.WithTimestamps(now, now)

	if err := s.repo.Insert(ctx, it); err != nil {
		return item.Item{}, fmt.Errorf("insert %s: %w", kind, err)
	}
	s.publish(ctx, item.ChangeEvent{Kind: kind, Op: item.OpInsert, ID: id})
	return it, nil
}

// Update replaces the editable fields of an existing item. created_at is preserved.
func (s *Service) Update(ctx context.Context, kind item.Kind, id string, f item.Fields) (item.Item, error) {
	it, err := item.New(id, kind, f)
	if err != nil {
		return item.Item{}, invalid(kind, err)
	}
	if id == "" {
		return item.Item{}, fmt.Errorf("%w: id is required", domain.ErrInvalidItem)
	}

	existing, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return item.Item{}, fmt.Errorf("get %s: %w", kind, err)
	}
	it = it.WithTimestamps(existing.CreatedAt(), s.now())

	if err := s.repo.Update(ctx, it); err != nil {
		return item.Item{}, fmt.Errorf("update %s: %w", kind, err)
	}
	s.publish(ctx, item.ChangeEvent{Kind: kind, Op: item.OpUpdate, ID: id})
	return it, nil
}

// Upsert creates the item if id is unknown and updates it otherwise.
// It reports whether the item was created. An empty id always creates.
func (s *Service) Upsert(ctx context.Context, kind item.Kind, id string, f item.Fields) (bool, error) {
	if id == "" {
		if _, err := s.Create(ctx, kind, id, f); err != nil {
			return false, err
		}
		return true, nil
	}
	_, err := s.Update(ctx, kind, id, f)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, kind, id, f); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, kind item.Kind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	s.publish(ctx, item.ChangeEvent{Kind: kind, Op: item.OpDelete, ID: id})
	return nil
}

// publish is best-effort; failures are logged.
func (s *Service) publish(ctx context.Context, ev item.ChangeEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishChange(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish catalog change",
			zap.String("kind", string(ev.Kind)),
			zap.String("op", string(ev.Op)),
			zap.String("id", ev.ID),
			zap.Error(err),
		)
	}
}

func checkKind(kind item.Kind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	return nil
}

func invalid(kind item.Kind, err error) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %w", domain.ErrInvalidKind, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidItem, err)
}
