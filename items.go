package folio

import (
	"context"
	"fmt"
)

// ItemService manages the items of one collection.
type ItemService struct {
	kind   Kind
	client *Client
}

// List returns every item, newest first.
func (s *ItemService) List(ctx context.Context) ([]Item, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return nil, err
	}
	items, err := s.client.catalogSvc.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = fromInternalItem(it)
	}
	return out, nil
}

// Get returns one item by ID.
func (s *ItemService) Get(ctx context.Context, id string) (Item, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return Item{}, err
	}
	it, err := s.client.catalogSvc.Get(ctx, kind, id)
	if err != nil {
		return Item{}, fmt.Errorf("get: %w", err)
	}
	return fromInternalItem(it), nil
}

// Create stores a new item. An empty ID is replaced with a generated one.
func (s *ItemService) Create(ctx context.Context, it Item) (Item, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return Item{}, err
	}
	created, err := s.client.catalogSvc.Create(ctx, kind, it.ID, it.fields())
	if err != nil {
		return Item{}, fmt.Errorf("create: %w", err)
	}
	s.client.reload(ctx, kind)
	return fromInternalItem(created), nil
}

// Upsert creates or updates an item. Returns true if created.
func (s *ItemService) Upsert(ctx context.Context, it Item) (bool, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return false, err
	}
	created, err := s.client.catalogSvc.Upsert(ctx, kind, it.ID, it.fields())
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	s.client.reload(ctx, kind)
	return created, nil
}

// Delete removes an item by ID.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	kind, err := s.kind.internal()
	if err != nil {
		return err
	}
	if err := s.client.catalogSvc.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	s.client.reload(ctx, kind)
	return nil
}

// Count returns the number of items in the current snapshot.
func (s *ItemService) Count(_ context.Context) (int, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return 0, err
	}
	idx, err := s.client.snapshot.Index(kind)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return idx.Len(), nil
}

// Categories returns the distinct categories in collection order.
func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	kind, err := s.kind.internal()
	if err != nil {
		return nil, err
	}
	cats, err := s.client.searchSvc.Categories(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return cats, nil
}
