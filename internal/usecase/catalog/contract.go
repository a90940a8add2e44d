package catalog

import (
	"context"

	"github.com/kailas-cloud/folio/internal/domain/item"
)

// Repository defines the storage contract for catalog items.
type Repository interface {
	List(ctx context.Context, kind item.Kind) ([]item.Item, error)
	Get(ctx context.Context, kind item.Kind, id string) (item.Item, error)
	Insert(ctx context.Context, it item.Item) error
	Update(ctx context.Context, it item.Item) error
	Delete(ctx context.Context, kind item.Kind, id string) error
}

// Publisher announces catalog mutations to search snapshots.
type Publisher interface {
	PublishChange(ctx context.Context, ev item.ChangeEvent) error
}
