package usecase

import (
	"testing"

	"github.com/igomarket/backend/internal/domain"
)

func newTestNormalizer(t *testing.T) *FieldNormalizer {
	t.Helper()
	return NewFieldNormalizer(DefaultCatalog(), NormalizerConfig{})
}

func TestRepairText(t *testing.T) {
	normalizer := newTestNormalizer(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"cedilla", "LinguiÃ§a toscana", "Linguiça toscana"},
		{"tilde a", "PÃ£o francÃªs", "Pão francês"},
		{"acute e", "CafÃ© torrado", "Café torrado"},
		{"grave a uses nbsp", "Ã\u00a0 milanesa", "à milanesa"},
		{"capital a tilde", "MAÇÃƒ Nacional", "MAÇÃ Nacional"},
		{"tilde-final word before space untouched", "MAÇÃ Nacional", "MAÇÃ Nacional"},
		{"clean passes through", "Feijão Carioca", "Feijão Carioca"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.RepairText(tt.in); got != tt.want {
				t.Errorf("RepairText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_BrandSimplification(t *testing.T) {
	normalizer := newTestNormalizer(t)

	record := normalizer.Normalize(domain.ProductRecord{
		Name:  "Leite Uht",
		Brand: "Italac Integral",
	})
	if record.Brand != "Italac" {
		t.Errorf("brand = %q, want Italac", record.Brand)
	}
}

func TestNormalize_BrandReinference(t *testing.T) {
	normalizer := newTestNormalizer(t)

	t.Run("display brand promoted from name", func(t *testing.T) {
		record := normalizer.Normalize(domain.ProductRecord{
			Name:  "Arroz Branco Ouro Nobre",
			Brand: domain.BrandGeneric,
		})
		if record.Brand != "Ouro Nobre" {
			t.Errorf("brand = %q, want Ouro Nobre", record.Brand)
		}
		if record.Name != "Arroz Branco Ouro Nobre" {
			t.Errorf("name = %q, re-inference must not rewrite the name", record.Name)
		}
	})

	t.Run("known brand untouched", func(t *testing.T) {
		record := normalizer.Normalize(domain.ProductRecord{
			Name:  "Arroz Máximo",
			Brand: "Tio João",
		})
		if record.Brand != "Tio João" {
			t.Errorf("brand = %q, want Tio João", record.Brand)
		}
	})

	t.Run("no match stays generic", func(t *testing.T) {
		record := normalizer.Normalize(domain.ProductRecord{
			Name:  "Banana Prata",
			Brand: domain.BrandGeneric,
		})
		if record.Brand != domain.BrandGeneric {
			t.Errorf("brand = %q, want %q", record.Brand, domain.BrandGeneric)
		}
	})
}

func TestNormalize_VariantExtraction(t *testing.T) {
	normalizer := newTestNormalizer(t)

	tests := []struct {
		name        string
		productName string
		wantVariant string
	}{
		{"rice variant", "Arroz Branco Tipo 1", "Branco Tipo 1"},
		{"two-word base", "Queijo Minas Frescal", "Frescal"},
		{"exact base has no variant", "Arroz", ""},
		{"unrelated name has no variant", "Detergente Neutro", ""},
		{"base prefix of longer word ignored", "Sucos Naturais Mistos", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := normalizer.Normalize(domain.ProductRecord{
				Name:  tt.productName,
				Brand: domain.BrandGeneric,
			})
			if record.Variant != tt.wantVariant {
				t.Errorf("variant = %q, want %q", record.Variant, tt.wantVariant)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	normalizer := newTestNormalizer(t)

	records := []domain.ProductRecord{
		{Name: "Arroz Branco Ouro Nobre", Brand: domain.BrandGeneric, Quantity: "5kg", Price: 13.95},
		{Name: "Leite Uht", Brand: "Italac Integral", Quantity: "1L", Price: 4.99},
		{Name: "LinguiÃ§a Toscana", Brand: domain.BrandGeneric, Quantity: "1kg", Price: 15.90},
		{Name: "MAÇÃƒ Nacional", Brand: domain.BrandGeneric, Quantity: "1kg", Price: 7.49},
	}

	for _, record := range records {
		once := normalizer.Normalize(record)
		twice := normalizer.Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not a fixed point:\n once: %+v\ntwice: %+v", once, twice)
		}
	}
}
