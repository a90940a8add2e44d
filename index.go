package folio

import (
	"context"
	"fmt"
)

// TypedIndex is a generic, schema-first view of one collection.
// The item mapping is inferred from T's folio struct tags at construction time.
type TypedIndex[T any] struct {
	kind   Kind
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index handle for the given collection.
// T must be a struct with folio tags for at least id, title and category.
func NewIndex[T any](client *Client, kind Kind) (*TypedIndex[T], error) {
	if _, err := kind.internal(); err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", kind, err)
	}
	return &TypedIndex[T]{kind: kind, client: client, meta: meta}, nil
}

// Upsert creates or updates a single item. Returns true if created.
func (idx *TypedIndex[T]) Upsert(ctx context.Context, v T) (bool, error) {
	return idx.client.Items(idx.kind).Upsert(ctx, idx.meta.toItem(v))
}

// UpsertAll upserts items in order and stops at the first failure.
func (idx *TypedIndex[T]) UpsertAll(ctx context.Context, items []T) (int, error) {
	created := 0
	for i, v := range items {
		ok, err := idx.Upsert(ctx, v)
		if err != nil {
			return created, fmt.Errorf("item %d: %w", i, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// Get retrieves a typed item by ID.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	it, err := idx.client.Items(idx.kind).Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return idx.decode(it)
}

// List returns every typed item, newest first.
func (idx *TypedIndex[T]) List(ctx context.Context) ([]T, error) {
	items, err := idx.client.Items(idx.kind).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		v, err := idx.decode(it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Delete removes an item by ID.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	return idx.client.Items(idx.kind).Delete(ctx, id)
}

// Count returns the number of items in the collection.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int, error) {
	return idx.client.Items(idx.kind).Count(ctx)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func (idx *TypedIndex[T]) decode(it Item) (T, error) {
	v, ok := idx.meta.fromItem(it).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("decode %s: type assertion failed", it.ID)
	}
	return v, nil
}
