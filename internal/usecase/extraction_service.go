package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/igomarket/backend/internal/domain"
)

// IngestRequest is one batch of raw text lines from a single vendor source.
type IngestRequest struct {
	Lines     []string
	Vendor    string
	SourceURL string
}

// IngestResult reports where a batch landed and how much of it survived
// parsing and validation.
type IngestResult struct {
	Snapshot string `json:"snapshot"`
	Total    int    `json:"total_linhas"`
	Accepted int    `json:"produtos_extraidos"`
}

// ExtractionConfig holds configuration for the extraction service.
type ExtractionConfig struct {
	EnableDebugLogging bool
}

// ExtractionService runs the full ingestion pipeline: merge raw lines into
// blocks, parse them in parallel, normalize and classify the candidates, drop
// invalid records and persist the batch as a new immutable snapshot.
type ExtractionService struct {
	parser             *LineParser
	normalizer         *FieldNormalizer
	classifier         *SegmentClassifier
	store              domain.SnapshotStore
	enableDebugLogging bool

	// now is swappable so tests get deterministic snapshot names.
	now func() time.Time
}

// NewExtractionService wires the pipeline stages together.
func NewExtractionService(
	parser *LineParser,
	normalizer *FieldNormalizer,
	classifier *SegmentClassifier,
	store domain.SnapshotStore,
	config ExtractionConfig,
) *ExtractionService {
	return &ExtractionService{
		parser:             parser,
		normalizer:         normalizer,
		classifier:         classifier,
		store:              store,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// IngestLines processes one batch and persists it. Noise lines are skipped
// silently; an entirely unparseable batch still produces an (empty) snapshot
// so the run is visible.
func (s *ExtractionService) IngestLines(ctx context.Context, req IngestRequest) (IngestResult, error) {
	records := s.ExtractRecords(ctx, req)

	name := fmt.Sprintf("produtos_%s", s.now().Format("20060102_150405"))
	if err := s.store.Save(ctx, name, records); err != nil {
		return IngestResult{}, fmt.Errorf("saving snapshot %s: %w", name, err)
	}

	if s.enableDebugLogging {
		log.Printf("[INGEST] %d lines -> %d records in snapshot %s", len(req.Lines), len(records), name)
	}
	return IngestResult{Snapshot: name, Total: len(req.Lines), Accepted: len(records)}, nil
}

// ExtractRecords runs the in-memory part of the pipeline without persisting.
func (s *ExtractionService) ExtractRecords(ctx context.Context, req IngestRequest) []domain.ProductRecord {
	candidates := s.parser.ParseBatch(ctx, req.Lines)
	extractionDate := s.now().Format(domain.DateFormat)

	records := make([]domain.ProductRecord, 0, len(candidates))
	for _, candidate := range candidates {
		record := domain.ProductRecord{
			Name:           candidate.Name,
			Brand:          candidate.Brand,
			Quantity:       candidate.Quantity,
			Price:          candidate.Price,
			Vendor:         req.Vendor,
			SourceURL:      req.SourceURL,
			ExtractionDate: extractionDate,
		}
		record = s.normalizer.Normalize(record)
		record.Segment = s.classifier.Classify(record.Name)
		record.ApplyDefaults()
		if !record.Valid() {
			continue
		}
		records = append(records, record)
	}
	return records
}

// LatestRecords loads the newest snapshot.
func (s *ExtractionService) LatestRecords(ctx context.Context) (string, []domain.ProductRecord, error) {
	return s.store.Latest(ctx)
}

// SnapshotRecords loads one snapshot by name.
func (s *ExtractionService) SnapshotRecords(ctx context.Context, name string) ([]domain.ProductRecord, error) {
	return s.store.Load(ctx, name)
}

// Snapshots lists the available snapshot names, newest first.
func (s *ExtractionService) Snapshots(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}
