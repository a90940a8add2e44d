package recent

import (
	"context"

	domrecent "github.com/kailas-cloud/folio/internal/domain/recent"
)

// Store persists one recent-search log per session.
type Store interface {
	Load(ctx context.Context, session string) domrecent.Log
	Save(ctx context.Context, session string, log domrecent.Log) error
	Clear(ctx context.Context, session string) error
}
