package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/igomarket/backend/internal/domain"
)

// canonicalColumns is the column order written to new snapshot files.
var canonicalColumns = []string{
	"segmento", "produto", "marca", "quantidade", "preco",
	"preco_oferta", "mercado", "url_fonte", "data_extracao", "tipo",
}

// requiredColumns must be present (directly or via a synonym) for a snapshot
// to be accepted.
var requiredColumns = []string{"produto", "marca", "quantidade"}

// columnSynonyms remaps header spellings from older exports and third-party
// sources onto the canonical column names.
var columnSynonyms = map[string]string{
	"product":         "produto",
	"item":            "produto",
	"nome":            "produto",
	"brand":           "marca",
	"brand_name":      "marca",
	"quantity":        "quantidade",
	"qtd":             "quantidade",
	"qty":             "quantidade",
	"price":           "preco",
	"cost":            "preco",
	"valor":           "preco",
	"preço":           "preco",
	"price_offer":     "preco_oferta",
	"offer_price":     "preco_oferta",
	"vendor":          "mercado",
	"market":          "mercado",
	"loja":            "mercado",
	"source_url":      "url_fonte",
	"url":             "url_fonte",
	"link":            "url_fonte",
	"extraction_date": "data_extracao",
	"data":            "data_extracao",
	"segment":         "segmento",
	"categoria":       "segmento",
	"category":        "segmento",
	"type":            "tipo",
	"variante":        "tipo",
}

// CSVStore persists snapshots as one CSV file per batch under a directory.
// Files are write-once; Latest picks the newest by the timestamp embedded in
// the snapshot name.
type CSVStore struct {
	dir string
}

// NewCSVStore creates the directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir %s: %w", dir, err)
	}
	return &CSVStore{dir: dir}, nil
}

// Save writes a new snapshot file. Returns ErrSnapshotExists if the name is
// already taken.
func (s *CSVStore) Save(_ context.Context, name string, records []domain.ProductRecord) error {
	path := s.path(name)
	if _, err := os.Stat(path); err == nil {
		return domain.ErrSnapshotExists
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(canonicalColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Segment, r.Name, r.Brand, r.Quantity,
			formatPrice(r.Price), formatPrice(r.OfferPrice),
			r.Vendor, r.SourceURL, r.ExtractionDate, r.Variant,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing snapshot %s: %w", name, err)
	}
	return f.Close()
}

// Load reads one snapshot by name.
func (s *CSVStore) Load(_ context.Context, name string) ([]domain.ProductRecord, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("opening snapshot %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, &domain.MissingColumnsError{Missing: requiredColumns}
	}

	index, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.ProductRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		records = append(records, domain.ProductRecord{
			Segment:        cell("segmento"),
			Name:           cell("produto"),
			Brand:          cell("marca"),
			Quantity:       cell("quantidade"),
			Price:          parsePrice(cell("preco")),
			OfferPrice:     parsePrice(cell("preco_oferta")),
			Vendor:         cell("mercado"),
			SourceURL:      cell("url_fonte"),
			ExtractionDate: cell("data_extracao"),
			Variant:        cell("tipo"),
		})
	}
	return records, nil
}

// Latest returns the newest snapshot. Snapshot names embed the run timestamp,
// so lexicographic order is chronological order.
func (s *CSVStore) Latest(ctx context.Context) (string, []domain.ProductRecord, error) {
	names, err := s.List(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, domain.ErrNoData
	}
	records, err := s.Load(ctx, names[0])
	if err != nil {
		return "", nil, err
	}
	return names[0], records, nil
}

// List returns the available snapshot names, newest first. Only product
// snapshots count; exports written next to them (comparison tables and the
// like) are not snapshots.
func (s *CSVStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		if !strings.HasPrefix(e.Name(), "produtos_") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *CSVStore) path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// mapHeader resolves the header row to canonical column indexes, applying
// synonyms, and validates the required columns.
func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	present := make([]string, 0, len(header))
	for i, raw := range header {
		column := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := columnSynonyms[column]; ok {
			column = canonical
		}
		if _, taken := index[column]; !taken {
			index[column] = i
		}
		present = append(present, column)
	}

	var missing []string
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Missing: missing, Present: present}
	}
	return index, nil
}

// parsePrice accepts "13.95", "13,95" and "R$ 13,95".
func parsePrice(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
