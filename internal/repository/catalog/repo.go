package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/folio/internal/db"
	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channel string, fn func(message string)) error
}

// Repo stores each collection as one hash: item ID -> item JSON.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func itemsKey(kind item.Kind) string {
	return domain.KeyPrefix + "items:" + string(kind)
}

// List returns every item of kind ordered by created_at descending, then ID.
// Entries that fail to decode are skipped.
func (r *Repo) List(ctx context.Context, kind item.Kind) ([]item.Item, error) {
	key := itemsKey(kind)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}

	items := make([]item.Item, 0, len(m))
	for id, raw := range m {
		var d itemDTO
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			continue
		}
		d.ID = id
		items = append(items, d.toItem(kind))
	}
	SortItems(items)
	return items, nil
}

// SortItems orders items newest first; equal timestamps fall back to ID order.
func SortItems(items []item.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID() < b.ID()
	})
}

// Get returns one item.
func (r *Repo) Get(ctx context.Context, kind item.Kind, id string) (item.Item, error) {
	key := itemsKey(kind)
	raw, err := r.store.HGet(ctx, key, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return item.Item{}, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
		}
		return item.Item{}, fmt.Errorf("hget %s: %w", key, err)
	}
	var d itemDTO
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return item.Item{}, fmt.Errorf("decode %s %q: %w", kind, id, err)
	}
	d.ID = id
	return d.toItem(kind), nil
}

// Insert stores a new item. It fails with ErrAlreadyExists if the ID is taken.
func (r *Repo) Insert(ctx context.Context, it item.Item) error {
	data, err := json.Marshal(toDTO(it))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	key := itemsKey(it.Kind())
	ok, err := r.store.HSetNX(ctx, key, it.ID(), string(data))
	if err != nil {
		return fmt.Errorf("hsetnx %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s %q: %w", it.Kind(), it.ID(), domain.ErrAlreadyExists)
	}
	return nil
}

// Update replaces an existing item.
func (r *Repo) Update(ctx context.Context, it item.Item) error {
	if _, err := r.Get(ctx, it.Kind(), it.ID()); err != nil {
		return err
	}
	return r.Put(ctx, it)
}

// Put stores an item, overwriting any existing one with the same ID.
func (r *Repo) Put(ctx context.Context, it item.Item) error {
	data, err := json.Marshal(toDTO(it))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	key := itemsKey(it.Kind())
	if err := r.store.HSet(ctx, key, map[string]string{it.ID(): string(data)}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes an item.
func (r *Repo) Delete(ctx context.Context, kind item.Kind, id string) error {
	key := itemsKey(kind)
	n, err := r.store.HDel(ctx, key, id)
	if err != nil {
		return fmt.Errorf("hdel %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// PublishChange announces a mutation on the changes channel.
func (r *Repo) PublishChange(ctx context.Context, ev item.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := r.store.Publish(ctx, domain.ChangesChannel, string(data)); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// SubscribeChanges calls fn for every valid change event until ctx is canceled.
func (r *Repo) SubscribeChanges(ctx context.Context, fn func(item.ChangeEvent)) error {
	err := r.store.Subscribe(ctx, domain.ChangesChannel, func(msg string) {
		var ev item.ChangeEvent
		if err := json.Unmarshal([]byte(msg), &ev); err != nil || !ev.Kind.IsValid() {
			return
		}
		fn(ev)
	})
	if err != nil {
		return fmt.Errorf("subscribe changes: %w", err)
	}
	return nil
}
