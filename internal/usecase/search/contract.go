package search

import (
	"context"

	"github.com/kailas-cloud/folio/internal/domain/item"
)

// Lister reads a whole collection in collection order.
type Lister interface {
	List(ctx context.Context, kind item.Kind) ([]item.Item, error)
}

// ChangeSubscriber delivers catalog mutations until ctx is canceled.
type ChangeSubscriber interface {
	SubscribeChanges(ctx context.Context, fn func(item.ChangeEvent)) error
}
