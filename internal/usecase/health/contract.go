package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotChecker reports whether search snapshots are loaded.
type SnapshotChecker interface {
	Ready() bool
}
