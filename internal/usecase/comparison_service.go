package usecase

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/igomarket/backend/internal/domain"
)

// defaultOutlierThresholdPct flags offers undercutting the next-best price by
// more than this percentage as likely loss-leaders.
const defaultOutlierThresholdPct = 30

// Filter restricts a comparison to records matching every non-empty field,
// using case-insensitive "contains" semantics.
type Filter struct {
	Name     string
	Brand    string
	Quantity string
}

// ComparisonConfig holds configuration for the comparison service.
type ComparisonConfig struct {
	// OutlierThresholdPct overrides the loss-leader cutoff (percent).
	OutlierThresholdPct float64
	EnableDebugLogging  bool
}

// ComparisonService groups vendor offers by identity key and derives the
// savings and outlier statistics for each group. It is stateless: every call
// operates on the record slice it is handed.
type ComparisonService struct {
	keys                *IdentityKeyBuilder
	outlierThresholdPct float64
	enableDebugLogging  bool
}

// NewComparisonService creates a comparison service using the given key
// builder.
func NewComparisonService(keys *IdentityKeyBuilder, config ComparisonConfig) *ComparisonService {
	threshold := config.OutlierThresholdPct
	if threshold <= 0 {
		threshold = defaultOutlierThresholdPct
	}
	return &ComparisonService{
		keys:                keys,
		outlierThresholdPct: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// Compare returns one group summary per distinct SKU present after filtering,
// ordered by descending savings. A filter matching nothing yields an empty
// slice.
func (s *ComparisonService) Compare(records []domain.ProductRecord, filter Filter) []domain.ComparisonGroup {
	var order []domain.IdentityKey
	grouped := make(map[domain.IdentityKey][]domain.ProductRecord)

	for _, record := range records {
		record.ApplyDefaults()
		if !record.Valid() {
			continue
		}
		if !matchesFilter(record, filter) {
			continue
		}
		key := s.keys.Key(record)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], record)
	}

	groups := make([]domain.ComparisonGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, s.summarize(grouped[key]))
	}

	// Largest absolute savings first; ties keep discovery order.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Savings > groups[j].Savings
	})

	if s.enableDebugLogging {
		log.Printf("[COMPARE] %d records -> %d groups", len(records), len(groups))
	}
	return groups
}

// summarize derives the statistics for one group of same-SKU offers.
func (s *ComparisonService) summarize(members []domain.ProductRecord) domain.ComparisonGroup {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Price < members[j].Price
	})

	cheapest := members[0]

	var sum float64
	allPrices := make([]domain.VendorPrice, 0, len(members))
	var vendors []string
	seenVendors := make(map[string]bool)
	for _, m := range members {
		sum += m.Price
		allPrices = append(allPrices, domain.VendorPrice{Vendor: m.Vendor, Price: m.Price})
		if !seenVendors[m.Vendor] {
			seenVendors[m.Vendor] = true
			vendors = append(vendors, m.Vendor)
		}
	}
	mean := sum / float64(len(members))

	var savings, savingsPct float64
	if len(members) > 1 {
		secondCheapest := members[1]
		savings = secondCheapest.Price - cheapest.Price
		if secondCheapest.Price > 0 {
			savingsPct = savings / secondCheapest.Price * 100
		}
	}

	deltaToMean := mean - cheapest.Price
	var deltaToMeanPct float64
	if mean > 0 {
		deltaToMeanPct = deltaToMean / mean * 100
	}

	return domain.ComparisonGroup{
		Name:           cheapest.Name,
		Brand:          cheapest.Brand,
		Quantity:       cheapest.Quantity,
		Segment:        cheapest.Segment,
		CheapestPrice:  cheapest.Price,
		OfferPrice:     cheapest.OfferPrice,
		MeanPrice:      round2(mean),
		CheapestVendor: cheapest.Vendor,
		AllPrices:      allPrices,
		Savings:        round2(savings),
		SavingsPct:     round2(savingsPct),
		DeltaToMean:    round2(deltaToMean),
		DeltaToMeanPct: round2(deltaToMeanPct),
		IsOutlierDeal:  savingsPct > s.outlierThresholdPct,
		Vendors:        vendors,
		SourceURL:      cheapest.SourceURL,
	}
}

// SearchRecords returns the records whose name or brand contains the query,
// case-insensitively.
func (s *ComparisonService) SearchRecords(records []domain.ProductRecord, query string) []domain.ProductRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []domain.ProductRecord
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Name), query) ||
			strings.Contains(strings.ToLower(record.Brand), query) {
			matches = append(matches, record)
		}
	}
	return matches
}

// BestOffers reduces the collection to the single cheapest offer per SKU,
// sorted by segment, then product name, then brand.
func (s *ComparisonService) BestOffers(records []domain.ProductRecord) []domain.BestOffer {
	cheapest := make(map[domain.IdentityKey]domain.ProductRecord)
	for _, record := range records {
		record.ApplyDefaults()
		if !record.Valid() {
			continue
		}
		key := s.keys.Key(record)
		if best, ok := cheapest[key]; !ok || record.Price < best.Price {
			cheapest[key] = record
		}
	}

	offers := make([]domain.BestOffer, 0, len(cheapest))
	for _, record := range cheapest {
		offers = append(offers, domain.BestOffer{
			Segment:   record.Segment,
			Name:      record.Name,
			Brand:     record.Brand,
			Quantity:  record.Quantity,
			Price:     record.Price,
			Vendor:    record.Vendor,
			SourceURL: record.SourceURL,
		})
	}
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].Segment != offers[j].Segment {
			return offers[i].Segment < offers[j].Segment
		}
		if offers[i].Name != offers[j].Name {
			return offers[i].Name < offers[j].Name
		}
		return offers[i].Brand < offers[j].Brand
	})
	return offers
}

// Stats summarizes one snapshot.
func (s *ComparisonService) Stats(records []domain.ProductRecord) domain.Stats {
	stats := domain.Stats{TotalProducts: len(records)}
	if len(records) == 0 {
		return stats
	}

	seen := make(map[string]bool)
	var sum float64
	stats.MinPrice = records[0].Price
	for _, record := range records {
		if record.Vendor != "" && !seen[record.Vendor] {
			seen[record.Vendor] = true
			stats.Vendors = append(stats.Vendors, record.Vendor)
		}
		sum += record.Price
		if record.Price < stats.MinPrice {
			stats.MinPrice = record.Price
		}
		if record.Price > stats.MaxPrice {
			stats.MaxPrice = record.Price
		}
		if record.ExtractionDate > stats.LastUpdated {
			stats.LastUpdated = record.ExtractionDate
		}
	}
	sort.Strings(stats.Vendors)
	stats.TotalVendors = len(stats.Vendors)
	stats.MeanPrice = round2(sum / float64(len(records)))
	return stats
}

func matchesFilter(record domain.ProductRecord, filter Filter) bool {
	return containsFold(record.Name, filter.Name) &&
		containsFold(record.Brand, filter.Brand) &&
		containsFold(record.Quantity, filter.Quantity)
}

// containsFold reports whether haystack contains needle, ignoring case. An
// empty needle matches anything.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
