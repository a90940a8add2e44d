package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/folio/internal/db"
	"github.com/kailas-cloud/folio/internal/domain/item"
)

// mockStore is an in-memory hash store implementing the consumer interface.
type mockStore struct {
	hashes    map[string]map[string]string
	published []string
	messages  []string

	hgetAllErr error
	publishErr error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) hash(key string) map[string]string {
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	return h
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	h := m.hash(key)
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	h := m.hash(key)
	if _, ok := h[field]; ok {
		return false, nil
	}
	h[field] = value
	return true, nil
}

func (m *mockStore) HGet(_ context.Context, key, field string) (string, error) {
	v, ok := m.hashes[key][field]
	if !ok {
		return "", db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.hgetAllErr != nil {
		return nil, m.hgetAllErr
	}
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) HDel(_ context.Context, key string, fields ...string) (int64, error) {
	var n int64
	for _, f := range fields {
		if _, ok := m.hashes[key][f]; ok {
			delete(m.hashes[key], f)
			n++
		}
	}
	return n, nil
}

func (m *mockStore) Publish(_ context.Context, _, message string) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, message)
	return nil
}

func (m *mockStore) Subscribe(_ context.Context, _ string, fn func(string)) error {
	for _, msg := range m.messages {
		fn(msg)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms), ms
}

func testItem(t *testing.T, id string, created time.Time) item.Item {
	t.Helper()
	it, err := item.New(id, item.Project, item.Fields{
		Title:        "Project " + id,
		Technologies: []string{"Go"},
		Category:     "Tools",
		Code:         "SIH2024",
	})
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return it.WithTimestamps(created, created)
}
