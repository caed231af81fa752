package usecase

import (
	"errors"
	"testing"

	"github.com/igomarket/backend/internal/domain"
)

func newTestCart(t *testing.T) *CartService {
	t.Helper()
	return NewCartService(NewIdentityKeyBuilder(DefaultCatalog()), CartConfig{})
}

func cartRecords() []domain.ProductRecord {
	return []domain.ProductRecord{
		{Name: "Arroz Branco", Brand: "Camil", Quantity: "5kg", Price: 21.90, Vendor: "Mercado A"},
		{Name: "Arroz Branco", Brand: "Camil", Quantity: "5kg", Price: 24.50, Vendor: "Mercado B"},
		{Name: "Leite Integral", Brand: "Italac", Quantity: "1L", Price: 4.80, Vendor: "Mercado A"},
		{Name: "Leite Integral", Brand: "Italac", Quantity: "1L", Price: 3.99, Vendor: "Mercado B"},
	}
}

func TestCheapestCart(t *testing.T) {
	service := newTestCart(t)

	result, err := service.CheapestCart(cartRecords(), []domain.CartDescriptor{
		{Name: "arroz"},
		{Name: "leite"},
	})
	if err != nil {
		t.Fatalf("CheapestCart: %v", err)
	}

	if got := result.VendorTotals["Mercado A"]; got != 21.90 {
		t.Errorf("Mercado A total = %.2f, want 21.90", got)
	}
	if got := result.VendorTotals["Mercado B"]; got != 3.99 {
		t.Errorf("Mercado B total = %.2f, want 3.99", got)
	}
	if result.CheapestVendor != "Mercado B" {
		t.Errorf("cheapest vendor = %q, want Mercado B", result.CheapestVendor)
	}
	if result.CheapestTotal != 3.99 {
		t.Errorf("cheapest total = %.2f, want 3.99", result.CheapestTotal)
	}
	if result.TotalEconomy != 17.91 {
		t.Errorf("economy = %.2f, want 17.91", result.TotalEconomy)
	}
	if len(result.VendorItems["Mercado A"]) != 1 || len(result.VendorItems["Mercado B"]) != 1 {
		t.Errorf("vendor items = %+v, want one item per vendor", result.VendorItems)
	}
}

func TestCheapestCart_EconomyNonNegative(t *testing.T) {
	service := newTestCart(t)

	result, err := service.CheapestCart(cartRecords(), []domain.CartDescriptor{{Name: "a"}})
	if err != nil {
		t.Fatalf("CheapestCart: %v", err)
	}
	if result.TotalEconomy < 0 {
		t.Errorf("economy = %.2f, must never be negative", result.TotalEconomy)
	}
}

func TestCheapestCart_UnmatchedDescriptorSkipped(t *testing.T) {
	service := newTestCart(t)

	result, err := service.CheapestCart(cartRecords(), []domain.CartDescriptor{
		{Name: "leite"},
		{Name: "chocolate"},
	})
	if err != nil {
		t.Fatalf("CheapestCart: %v", err)
	}
	if len(result.VendorTotals) != 1 {
		t.Fatalf("totals = %v, the unmatched descriptor must contribute nothing", result.VendorTotals)
	}
}

func TestCheapestCart_OverlappingDescriptorsDeduplicate(t *testing.T) {
	service := newTestCart(t)

	result, err := service.CheapestCart(cartRecords(), []domain.CartDescriptor{
		{Name: "leite"},
		{Name: "leite", Brand: "italac"},
	})
	if err != nil {
		t.Fatalf("CheapestCart: %v", err)
	}
	if got := result.VendorTotals["Mercado B"]; got != 3.99 {
		t.Errorf("Mercado B total = %.2f, want 3.99 (SKU counted once)", got)
	}
}

func TestCheapestCart_DescriptorFilters(t *testing.T) {
	service := newTestCart(t)

	result, err := service.CheapestCart(cartRecords(), []domain.CartDescriptor{
		{Name: "arroz", Brand: "camil", Quantity: "5kg"},
	})
	if err != nil {
		t.Fatalf("CheapestCart: %v", err)
	}
	if result.CheapestVendor != "Mercado A" {
		t.Errorf("cheapest vendor = %q, want Mercado A", result.CheapestVendor)
	}
	if result.CheapestTotal != 21.90 {
		t.Errorf("cheapest total = %.2f, want 21.90", result.CheapestTotal)
	}
}

func TestCheapestCart_EmptyCollection(t *testing.T) {
	service := newTestCart(t)

	_, err := service.CheapestCart(nil, []domain.CartDescriptor{{Name: "arroz"}})
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
