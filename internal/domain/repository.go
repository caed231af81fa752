package domain

import "context"

// SnapshotStore persists immutable batches of product records. One batch is
// produced per ingestion run; consumers read the latest batch unless a
// specific name is given.
type SnapshotStore interface {
	// Save writes a new snapshot. Returns ErrSnapshotExists if the name is taken.
	Save(ctx context.Context, name string, records []ProductRecord) error
	// Load reads one snapshot by name.
	Load(ctx context.Context, name string) ([]ProductRecord, error)
	// Latest returns the newest snapshot and its name, or ErrNoData.
	Latest(ctx context.Context) (string, []ProductRecord, error)
	// List returns the available snapshot names, newest first.
	List(ctx context.Context) ([]string, error)
}
