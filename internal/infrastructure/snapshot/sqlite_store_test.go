package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/igomarket/backend/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "produtos_20260831_103000", sampleRecords()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := store.Load(ctx, "produtos_20260831_103000")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Arroz Branco" || records[0].Price != 21.90 {
		t.Errorf("records[0] = %+v", records[0])
	}
}

func TestSQLiteStore_WriteOnce(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "produtos_20260831_103000", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "produtos_20260831_103000", nil); !errors.Is(err, domain.ErrSnapshotExists) {
		t.Fatalf("second Save err = %v, want ErrSnapshotExists", err)
	}
}

func TestSQLiteStore_LatestAndList(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, _, err := store.Latest(ctx); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("Latest on empty store err = %v, want ErrNoData", err)
	}

	if err := store.Save(ctx, "produtos_20260830_090000", sampleRecords()[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "produtos_20260831_103000", sampleRecords()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	name, records, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if name != "produtos_20260831_103000" || len(records) != 2 {
		t.Errorf("latest = %q with %d records", name, len(records))
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "produtos_20260831_103000" {
		t.Errorf("names = %v, want newest first", names)
	}
}

func TestSQLiteStore_LoadUnknown(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.Load(context.Background(), "produtos_nope"); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}
}
