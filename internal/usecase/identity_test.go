package usecase

import (
	"testing"

	"github.com/igomarket/backend/internal/domain"
)

func TestIdentityKey_Folding(t *testing.T) {
	builder := NewIdentityKeyBuilder(DefaultCatalog())

	t.Run("case accents and spacing collapse", func(t *testing.T) {
		a := builder.Key(domain.ProductRecord{
			Segment: "Mercearia", Name: "Feijão Carioca", Brand: "Tio João", Quantity: "1kg",
		})
		b := builder.Key(domain.ProductRecord{
			Segment: "mercearia", Name: "FEIJAO  CARIOCA", Brand: "TIO JOAO", Quantity: "1 KG",
		})
		if a != b {
			t.Errorf("keys differ:\na = %+v\nb = %+v", a, b)
		}
	})

	t.Run("different quantity is a different key", func(t *testing.T) {
		a := builder.Key(domain.ProductRecord{Name: "Arroz", Brand: "Camil", Quantity: "1kg"})
		b := builder.Key(domain.ProductRecord{Name: "Arroz", Brand: "Camil", Quantity: "5kg"})
		if a == b {
			t.Error("1kg and 5kg must not share a key")
		}
	})

	t.Run("vendor does not participate", func(t *testing.T) {
		a := builder.Key(domain.ProductRecord{Name: "Leite", Brand: "Italac", Quantity: "1L", Vendor: "Mercado A"})
		b := builder.Key(domain.ProductRecord{Name: "Leite", Brand: "Italac", Quantity: "1L", Vendor: "Mercado B"})
		if a != b {
			t.Error("records from different vendors must share a key")
		}
	})
}

func TestIdentityKey_BrandAliases(t *testing.T) {
	builder := NewIdentityKeyBuilder(DefaultCatalog())

	tests := []struct {
		name   string
		brandA string
		brandB string
	}{
		{"abbreviated tio joão", "t. joão", "Tio João"},
		{"dona elsa spelling", "Dona Elsa", "Dona Elza"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := builder.Key(domain.ProductRecord{Name: "Arroz", Brand: tt.brandA, Quantity: "5kg"})
			b := builder.Key(domain.ProductRecord{Name: "Arroz", Brand: tt.brandB, Quantity: "5kg"})
			if a != b {
				t.Errorf("brands %q and %q must fold to the same key (%q vs %q)",
					tt.brandA, tt.brandB, a.Brand, b.Brand)
			}
		})
	}
}
