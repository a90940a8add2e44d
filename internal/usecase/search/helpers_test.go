package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/folio/internal/domain/item"
)

func mustItem(t *testing.T, id, title, category string, techs ...string) item.Item {
	t.Helper()
	it, err := item.New(id, item.Project, item.Fields{
		Title:        title,
		Technologies: techs,
		Category:     category,
	})
	if err != nil {
		t.Fatalf("item.New(%q): %v", id, err)
	}
	return it
}

func withDescription(t *testing.T, it item.Item, desc string) item.Item {
	t.Helper()
	f := it.Fields()
	f.Description = desc
	out, err := item.New(it.ID(), it.Kind(), f)
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return out
}

func withCode(t *testing.T, it item.Item, code string) item.Item {
	t.Helper()
	f := it.Fields()
	f.Code = code
	out, err := item.New(it.ID(), it.Kind(), f)
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return out
}

func ids(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

// --- Mocks ---

type mockLister struct {
	mu    sync.Mutex
	items map[item.Kind][]item.Item
	err   error
	calls int
}

func (m *mockLister) List(_ context.Context, kind item.Kind) ([]item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.items[kind], nil
}

func (m *mockLister) set(kind item.Kind, items []item.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[item.Kind][]item.Item)
	}
	m.items[kind] = items
}

type mockSubscriber struct {
	events []item.ChangeEvent
	err    error
}

func (m *mockSubscriber) SubscribeChanges(ctx context.Context, fn func(item.ChangeEvent)) error {
	if m.err != nil {
		return m.err
	}
	for _, ev := range m.events {
		fn(ev)
	}
	<-ctx.Done()
	return ctx.Err()
}

var errBoom = errors.New("boom")
