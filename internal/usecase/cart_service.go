package usecase

import (
	"log"
	"sort"

	"github.com/igomarket/backend/internal/domain"
)

// CartConfig holds configuration for the cart service.
type CartConfig struct {
	EnableDebugLogging bool
}

// CartService prices a wish-list of product descriptors across vendors. For
// every SKU matched by any descriptor it keeps the single cheapest offer; a
// vendor's subtotal is the sum of the SKUs it happened to win. The vendor
// with the lowest subtotal is reported as the cheapest cart.
type CartService struct {
	keys               *IdentityKeyBuilder
	enableDebugLogging bool
}

// NewCartService creates a cart service using the given key builder.
func NewCartService(keys *IdentityKeyBuilder, config CartConfig) *CartService {
	return &CartService{keys: keys, enableDebugLogging: config.EnableDebugLogging}
}

// CheapestCart resolves the wish-list against the record collection. An empty
// collection returns ErrNoData; a descriptor matching nothing contributes
// nothing and is skipped silently.
func (s *CartService) CheapestCart(records []domain.ProductRecord, wanted []domain.CartDescriptor) (domain.CartResult, error) {
	if len(records) == 0 {
		return domain.CartResult{}, domain.ErrNoData
	}

	// Cheapest offer per matched SKU, deduplicated across descriptors that
	// overlap.
	var order []domain.IdentityKey
	matched := make(map[domain.IdentityKey]domain.CartItem)

	for _, descriptor := range wanted {
		for _, record := range records {
			record.ApplyDefaults()
			if !record.Valid() {
				continue
			}
			if !containsFold(record.Name, descriptor.Name) ||
				!containsFold(record.Brand, descriptor.Brand) ||
				!containsFold(record.Quantity, descriptor.Quantity) {
				continue
			}
			key := s.keys.Key(record)
			best, seen := matched[key]
			if !seen {
				order = append(order, key)
			}
			if !seen || record.Price < best.Price {
				matched[key] = domain.CartItem{
					Name:     record.Name,
					Brand:    record.Brand,
					Quantity: record.Quantity,
					Price:    record.Price,
					Vendor:   record.Vendor,
				}
			}
		}
	}

	result := domain.CartResult{
		VendorTotals: make(map[string]float64),
		VendorItems:  make(map[string][]domain.CartItem),
	}
	for _, key := range order {
		item := matched[key]
		result.VendorTotals[item.Vendor] += item.Price
		result.VendorItems[item.Vendor] = append(result.VendorItems[item.Vendor], item)
	}

	if len(result.VendorTotals) == 0 {
		if s.enableDebugLogging {
			log.Printf("[CART] no descriptor matched any record (%d wanted, %d records)",
				len(wanted), len(records))
		}
		return result, nil
	}

	var minTotal, maxTotal float64
	vendors := make([]string, 0, len(result.VendorTotals))
	for vendor := range result.VendorTotals {
		vendors = append(vendors, vendor)
	}
	sort.Strings(vendors)
	for i, vendor := range vendors {
		total := round2(result.VendorTotals[vendor])
		result.VendorTotals[vendor] = total
		if i == 0 || total < minTotal {
			minTotal = total
			result.CheapestVendor = vendor
		}
		if i == 0 || total > maxTotal {
			maxTotal = total
		}
	}
	result.CheapestTotal = minTotal
	result.TotalEconomy = round2(maxTotal - minTotal)

	return result, nil
}
