package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
)

// --- Mocks ---

type mockRepo struct {
	items     map[string]item.Item
	insertErr error
	listErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]item.Item)}
}

func (m *mockRepo) List(_ context.Context, kind item.Kind) ([]item.Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []item.Item
	for _, it := range m.items {
		if it.Kind() == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, kind item.Kind, id string) (item.Item, error) {
	it, ok := m.items[string(kind)+"/"+id]
	if !ok {
		return item.Item{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *mockRepo) Insert(_ context.Context, it item.Item) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	key := string(it.Kind()) + "/" + it.ID()
	if _, ok := m.items[key]; ok {
		return domain.ErrAlreadyExists
	}
	m.items[key] = it
	return nil
}

func (m *mockRepo) Update(_ context.Context, it item.Item) error {
	m.items[string(it.Kind())+"/"+it.ID()] = it
	return nil
}

func (m *mockRepo) Delete(_ context.Context, kind item.Kind, id string) error {
	key := string(kind) + "/" + id
	if _, ok := m.items[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, key)
	return nil
}

type mockPublisher struct {
	events []item.ChangeEvent
	err    error
}

func (m *mockPublisher) PublishChange(_ context.Context, ev item.ChangeEvent) error {
	m.events = append(m.events, ev)
	return m.err
}

var (
	t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func fields() item.Fields {
	return item.Fields{Title: "Flood Alerts", Category: "IoT", Technologies: []string{"Go"}}
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockPublisher) {
	t.Helper()
	repo := newMockRepo()
	pub := &mockPublisher{}
	clock := t0
	svc := New(repo, pub, nil).
		WithClock(func() time.Time { return clock }).
		WithIDGenerator(func() string { return "generated" })
	return svc, repo, pub
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	svc, _, pub := newTestService(t)

	it, err := svc.Create(context.Background(), item.Project, "", fields())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.ID() != "generated" {
		t.Errorf("ID = %q", it.ID())
	}
	if !it.CreatedAt().Equal(t0) || !it.UpdatedAt().Equal(t0) {
		t.Errorf("timestamps = %v / %v", it.CreatedAt(), it.UpdatedAt())
	}
	want := item.ChangeEvent{Kind: item.Project, Op: item.OpInsert, ID: "generated"}
	if len(pub.events) != 1 || pub.events[0] != want {
		t.Errorf("events = %v", pub.events)
	}
}

func TestCreate_DefaultIDIsUUID(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, nil, nil)

	it, err := svc.Create(context.Background(), item.Post, "", fields())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(it.ID()) != 36 {
		t.Errorf("ID = %q, want UUID", it.ID())
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc, _, pub := newTestService(t)

	f := fields()
	f.Title = " "
	if _, err := svc.Create(context.Background(), item.Project, "x", f); !errors.Is(err, domain.ErrInvalidItem) {
		t.Errorf("err = %v, want ErrInvalidItem", err)
	}
	if _, err := svc.Create(context.Background(), item.Kind("video"), "x", fields()); !errors.Is(err, domain.ErrInvalidKind) {
		t.Errorf("err = %v, want ErrInvalidKind", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("events = %v, want none", pub.events)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, item.Project, "a", fields()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, item.Project, "a", fields()); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("err = %v", err)
	}
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	svc, repo, pub := newTestService(t)
	pub.err = errors.New("broker down")

	if _, err := svc.Create(context.Background(), item.Project, "a", fields()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(repo.items) != 1 {
		t.Error("item should be stored")
	}
}

func TestUpdate_PreservesCreatedAt(t *testing.T) {
	repo := newMockRepo()
	pub := &mockPublisher{}
	clock := t0
	svc := New(repo, pub, nil).WithClock(func() time.Time { return clock })
	ctx := context.Background()

	if _, err := svc.Create(ctx, item.Project, "a", fields()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	clock = t1
	f := fields()
	f.Title = "Flood Alerts v2"
	it, err := svc.Update(ctx, item.Project, "a", f)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !it.CreatedAt().Equal(t0) || !it.UpdatedAt().Equal(t1) {
		t.Errorf("timestamps = %v / %v", it.CreatedAt(), it.UpdatedAt())
	}
	if pub.events[len(pub.events)-1].Op != item.OpUpdate {
		t.Errorf("last event = %v", pub.events[len(pub.events)-1])
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Update(context.Background(), item.Project, "missing", fields())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestUpsert(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, item.Project, "a", fields())
	if err != nil || !created {
		t.Fatalf("first Upsert = %v, %v", created, err)
	}
	created, err = svc.Upsert(ctx, item.Project, "a", fields())
	if err != nil || created {
		t.Fatalf("second Upsert = %v, %v", created, err)
	}
	if len(pub.events) != 2 || pub.events[0].Op != item.OpInsert || pub.events[1].Op != item.OpUpdate {
		t.Errorf("events = %v", pub.events)
	}
}

func TestDelete(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	if err := svc.Delete(ctx, item.Project, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Create(ctx, item.Project, "a", fields()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, item.Project, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	last := pub.events[len(pub.events)-1]
	if last.Op != item.OpDelete || last.ID != "a" {
		t.Errorf("last event = %v", last)
	}
}

func TestList_InvalidKind(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.List(context.Background(), item.Kind("x")); !errors.Is(err, domain.ErrInvalidKind) {
		t.Errorf("err = %v", err)
	}
}

func TestList_RepoError(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.listErr = errors.New("down")
	if _, err := svc.List(context.Background(), item.Project); err == nil {
		t.Fatal("expected error")
	}
}
