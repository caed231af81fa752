package usecase

import (
	"strings"

	"github.com/igomarket/backend/internal/domain"
)

// SegmentClassifier assigns a segment label to a product name by scanning an
// ordered keyword table. The first segment whose keyword list matches wins;
// table order, not keyword specificity, is the tie-break.
type SegmentClassifier struct {
	segments []SegmentKeywords
}

// NewSegmentClassifier creates a classifier over the given table.
func NewSegmentClassifier(catalog *Catalog) *SegmentClassifier {
	return &SegmentClassifier{segments: catalog.Segments}
}

// Classify returns the segment label for a product name, or SegmentOther
// when no keyword matches.
func (c *SegmentClassifier) Classify(name string) string {
	lower := strings.ToLower(name)
	for _, seg := range c.segments {
		for _, kw := range seg.Keywords {
			if strings.Contains(lower, kw) {
				return seg.Segment
			}
		}
	}
	return domain.SegmentOther
}
