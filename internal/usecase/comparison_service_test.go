package usecase

import (
	"math"
	"testing"

	"github.com/igomarket/backend/internal/domain"
)

func newTestComparison(t *testing.T) *ComparisonService {
	t.Helper()
	return NewComparisonService(NewIdentityKeyBuilder(DefaultCatalog()), ComparisonConfig{})
}

func milkRecords() []domain.ProductRecord {
	return []domain.ProductRecord{
		{Segment: "Laticínios", Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 4.50, Vendor: "Mercado B"},
		{Segment: "Laticínios", Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 3.87, Vendor: "Mercado A"},
	}
}

func TestCompare_TwoVendorGroup(t *testing.T) {
	service := newTestComparison(t)

	groups := service.Compare(milkRecords(), Filter{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]

	if g.CheapestVendor != "Mercado A" {
		t.Errorf("cheapest vendor = %q, want Mercado A", g.CheapestVendor)
	}
	if g.CheapestPrice != 3.87 {
		t.Errorf("cheapest price = %.2f, want 3.87", g.CheapestPrice)
	}
	if g.Savings != 0.63 {
		t.Errorf("savings = %.2f, want 0.63", g.Savings)
	}
	if math.Abs(g.SavingsPct-14.0) > 0.5 {
		t.Errorf("savings pct = %.2f, want ≈14", g.SavingsPct)
	}
	if g.IsOutlierDeal {
		t.Error("a 14%% discount must not be flagged as an outlier deal")
	}
	if len(g.AllPrices) != 2 || g.AllPrices[0].Price > g.AllPrices[1].Price {
		t.Errorf("all prices not in ascending order: %+v", g.AllPrices)
	}
	if len(g.Vendors) != 2 {
		t.Errorf("vendors = %v, want both vendors listed", g.Vendors)
	}
}

func TestCompare_SingleVendorGroup(t *testing.T) {
	service := newTestComparison(t)

	groups := service.Compare([]domain.ProductRecord{
		{Name: "Café Torrado", Brand: "Pilão", Quantity: "500g", Price: 18.90, Vendor: "Mercado A"},
	}, Filter{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Savings != 0 || g.SavingsPct != 0 {
		t.Errorf("savings = %.2f (%.2f%%), want zero for a single-vendor group", g.Savings, g.SavingsPct)
	}
	if g.IsOutlierDeal {
		t.Error("single-vendor group must not be an outlier deal")
	}
	if g.Segment != domain.SegmentOther {
		t.Errorf("segment = %q, want default %q", g.Segment, domain.SegmentOther)
	}
}

func TestCompare_OutlierDeal(t *testing.T) {
	service := newTestComparison(t)

	groups := service.Compare([]domain.ProductRecord{
		{Name: "Óleo de Soja", Brand: "Soya", Quantity: "900ml", Price: 4.00, Vendor: "Mercado A"},
		{Name: "Óleo de Soja", Brand: "Soya", Quantity: "900ml", Price: 7.90, Vendor: "Mercado B"},
	}, Filter{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !groups[0].IsOutlierDeal {
		t.Errorf("savings pct %.2f should flag an outlier deal", groups[0].SavingsPct)
	}
}

func TestCompare_GroupingIgnoresCaseAndOrder(t *testing.T) {
	service := newTestComparison(t)

	records := []domain.ProductRecord{
		{Name: "FEIJAO CARIOCA", Brand: "TIO JOAO", Quantity: "1KG", Price: 8.99, Vendor: "Mercado B"},
		{Name: "Feijão Carioca", Brand: "Tio João", Quantity: "1kg", Price: 7.49, Vendor: "Mercado A"},
	}

	groups := service.Compare(records, Filter{})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (case/accent variants must collide)", len(groups))
	}

	reversed := []domain.ProductRecord{records[1], records[0]}
	again := service.Compare(reversed, Filter{})
	if len(again) != 1 || again[0].CheapestVendor != groups[0].CheapestVendor {
		t.Error("grouping must not depend on input order")
	}
}

func TestCompare_Filters(t *testing.T) {
	service := newTestComparison(t)

	records := append(milkRecords(), domain.ProductRecord{
		Name: "Arroz Branco", Brand: "Camil", Quantity: "5kg", Price: 22.90, Vendor: "Mercado A",
	})

	t.Run("name filter", func(t *testing.T) {
		groups := service.Compare(records, Filter{Name: "leite"})
		if len(groups) != 1 || groups[0].Name != "Leite" {
			t.Fatalf("groups = %+v, want only the milk group", groups)
		}
	})

	t.Run("brand filter", func(t *testing.T) {
		groups := service.Compare(records, Filter{Brand: "camil"})
		if len(groups) != 1 || groups[0].Brand != "Camil" {
			t.Fatalf("groups = %+v, want only the Camil group", groups)
		}
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		if groups := service.Compare(records, Filter{Name: "chocolate"}); len(groups) != 0 {
			t.Fatalf("groups = %+v, want none", groups)
		}
	})
}

func TestCompare_SortsBySavingsDescending(t *testing.T) {
	service := newTestComparison(t)

	groups := service.Compare([]domain.ProductRecord{
		{Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 4.50, Vendor: "Mercado B"},
		{Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 4.00, Vendor: "Mercado A"},
		{Name: "Arroz", Brand: "Camil", Quantity: "5kg", Price: 25.90, Vendor: "Mercado B"},
		{Name: "Arroz", Brand: "Camil", Quantity: "5kg", Price: 21.90, Vendor: "Mercado A"},
	}, Filter{})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Arroz" {
		t.Errorf("first group = %q, the larger savings must come first", groups[0].Name)
	}
}

func TestCompare_DropsInvalidRecords(t *testing.T) {
	service := newTestComparison(t)

	groups := service.Compare([]domain.ProductRecord{
		{Name: "", Price: 9.90, Vendor: "Mercado A"},
		{Name: "Sabão em Pó", Brand: "Omo", Quantity: "1kg", Price: 0, Vendor: "Mercado A"},
	}, Filter{})
	if len(groups) != 0 {
		t.Fatalf("groups = %+v, invalid records must be dropped", groups)
	}
}

func TestSearchRecords(t *testing.T) {
	service := newTestComparison(t)
	records := append(milkRecords(), domain.ProductRecord{
		Name: "Arroz Branco", Brand: "Camil", Quantity: "5kg", Price: 22.90, Vendor: "Mercado A",
	})

	t.Run("matches name", func(t *testing.T) {
		if got := service.SearchRecords(records, "arroz"); len(got) != 1 {
			t.Fatalf("got %d records, want 1", len(got))
		}
	})

	t.Run("matches brand", func(t *testing.T) {
		if got := service.SearchRecords(records, "italac"); len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		if got := service.SearchRecords(records, "  "); got != nil {
			t.Fatalf("got %v, want nil", got)
		}
	})
}

func TestBestOffers(t *testing.T) {
	service := newTestComparison(t)

	offers := service.BestOffers([]domain.ProductRecord{
		{Segment: "Laticínios", Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 4.50, Vendor: "Mercado B"},
		{Segment: "Laticínios", Name: "Leite", Brand: "Italac", Quantity: "1L", Price: 3.87, Vendor: "Mercado A"},
		{Segment: "Mercearia", Name: "Arroz", Brand: "Camil", Quantity: "5kg", Price: 21.90, Vendor: "Mercado A"},
	})
	if len(offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(offers))
	}
	if offers[0].Segment != "Laticínios" || offers[0].Vendor != "Mercado A" {
		t.Errorf("offers[0] = %+v, want the cheapest milk offer first", offers[0])
	}
}

func TestStats(t *testing.T) {
	service := newTestComparison(t)

	t.Run("empty collection", func(t *testing.T) {
		stats := service.Stats(nil)
		if stats.TotalProducts != 0 || stats.TotalVendors != 0 {
			t.Errorf("stats = %+v, want zero values", stats)
		}
	})

	t.Run("summary values", func(t *testing.T) {
		stats := service.Stats([]domain.ProductRecord{
			{Name: "Leite", Price: 4.00, Vendor: "Mercado B", ExtractionDate: "2026-08-30"},
			{Name: "Arroz", Price: 22.00, Vendor: "Mercado A", ExtractionDate: "2026-08-31"},
		})
		if stats.TotalProducts != 2 || stats.TotalVendors != 2 {
			t.Errorf("counts = %d products / %d vendors, want 2 / 2", stats.TotalProducts, stats.TotalVendors)
		}
		if stats.MinPrice != 4.00 || stats.MaxPrice != 22.00 || stats.MeanPrice != 13.00 {
			t.Errorf("prices = min %.2f mean %.2f max %.2f", stats.MinPrice, stats.MeanPrice, stats.MaxPrice)
		}
		if stats.LastUpdated != "2026-08-31" {
			t.Errorf("last updated = %q, want 2026-08-31", stats.LastUpdated)
		}
		if len(stats.Vendors) != 2 || stats.Vendors[0] != "Mercado A" {
			t.Errorf("vendors = %v, want sorted", stats.Vendors)
		}
	})
}
