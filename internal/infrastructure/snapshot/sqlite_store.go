package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/igomarket/backend/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	snapshot_id   INTEGER NOT NULL REFERENCES snapshots(id),
	segmento      TEXT NOT NULL,
	produto       TEXT NOT NULL,
	marca         TEXT NOT NULL,
	quantidade    TEXT NOT NULL,
	preco         REAL NOT NULL,
	preco_oferta  REAL NOT NULL,
	mercado       TEXT NOT NULL,
	url_fonte     TEXT NOT NULL DEFAULT '',
	data_extracao TEXT NOT NULL DEFAULT '',
	tipo          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_snapshot ON products(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_products_produto ON products(produto);
`

// SQLiteStore persists snapshots in a single SQLite database file. Like the
// CSV store, snapshots are write-once.
type SQLiteStore struct {
	db *sql.DB
}

var _ domain.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save writes a new snapshot. Returns ErrSnapshotExists if the name is taken.
func (s *SQLiteStore) Save(ctx context.Context, name string, records []domain.ProductRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking snapshot %s: %w", name, err)
	}
	if exists > 0 {
		return domain.ErrSnapshotExists
	}

	query, args, err := sq.Insert("snapshots").
		Columns("name", "created_at").
		Values(name, time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting snapshot %s: %w", name, err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}

	for _, r := range records {
		query, args, err := sq.Insert("products").
			Columns("snapshot_id", "segmento", "produto", "marca", "quantidade",
				"preco", "preco_oferta", "mercado", "url_fonte", "data_extracao", "tipo").
			Values(snapshotID, r.Segment, r.Name, r.Brand, r.Quantity,
				r.Price, r.OfferPrice, r.Vendor, r.SourceURL, r.ExtractionDate, r.Variant).
			ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads one snapshot by name.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]domain.ProductRecord, error) {
	var snapshotID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, name).Scan(&snapshotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up snapshot %s: %w", name, err)
	}
	return s.loadRecords(ctx, snapshotID)
}

// Latest returns the newest snapshot by embedded timestamp.
func (s *SQLiteStore) Latest(ctx context.Context) (string, []domain.ProductRecord, error) {
	var (
		snapshotID int64
		name       string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM snapshots ORDER BY name DESC LIMIT 1`).Scan(&snapshotID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, domain.ErrNoData
	}
	if err != nil {
		return "", nil, fmt.Errorf("looking up latest snapshot: %w", err)
	}
	records, err := s.loadRecords(ctx, snapshotID)
	if err != nil {
		return "", nil, err
	}
	return name, records, nil
}

// List returns the available snapshot names, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM snapshots ORDER BY name DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) loadRecords(ctx context.Context, snapshotID int64) ([]domain.ProductRecord, error) {
	query, args, err := sq.Select("segmento", "produto", "marca", "quantidade",
		"preco", "preco_oferta", "mercado", "url_fonte", "data_extracao", "tipo").
		From("products").
		Where(sq.Eq{"snapshot_id": snapshotID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var records []domain.ProductRecord
	for rows.Next() {
		var r domain.ProductRecord
		if err := rows.Scan(&r.Segment, &r.Name, &r.Brand, &r.Quantity,
			&r.Price, &r.OfferPrice, &r.Vendor, &r.SourceURL, &r.ExtractionDate, &r.Variant); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
