package usecase

import (
	"log"
	"strings"

	"github.com/igomarket/backend/internal/domain"
)

// mojibakeReplacer undoes the classic UTF-8-decoded-as-Latin-1 corruption seen
// in scraped pages and OCR exports. Only unambiguous digraphs are listed, so
// repairing already-clean text is a no-op.
var mojibakeReplacer = strings.NewReplacer(
	"Ã¡", "á",
	// "à" mojibakes to Ã followed by NBSP (U+00A0), not a plain space;
	// keying on the space would corrupt clean "Ã"-final words.
	"Ã\u00a0", "à",
	"Ã¢", "â",
	"Ã£", "ã",
	"Ã©", "é",
	"Ãª", "ê",
	"Ã­", "í",
	"Ã³", "ó",
	"Ã´", "ô",
	"Ãµ", "õ",
	"Ãº", "ú",
	"Ã¼", "ü",
	"Ã§", "ç",
	"Ã‰", "É",
	"Ã‡", "Ç",
	"Ã•", "Õ",
	"Ãš", "Ú",
	"Ã‚", "Â",
	"Ãƒ", "Ã",
	"Ã‹", "Ë",
	"Ã", "Í",
	"Ã“", "Ó",
	"Ã”", "Ô",
	"â€“", "–",
	"â€”", "—",
	"â€œ", "“",
	"â€", "”",
	"â€™", "’",
)

// NormalizerConfig holds configuration for the field normalizer.
type NormalizerConfig struct {
	EnableDebugLogging bool
}

// FieldNormalizer canonicalizes a parsed record: repairs encoding corruption,
// collapses verbose brand strings, re-infers a brand from the product name
// when the parser gave up, and splits off the product variant. Normalize is a
// fixed point: applying it to its own output changes nothing.
type FieldNormalizer struct {
	catalog            *Catalog
	enableDebugLogging bool
}

// NewFieldNormalizer creates a normalizer over the given catalog.
func NewFieldNormalizer(catalog *Catalog, config NormalizerConfig) *FieldNormalizer {
	return &FieldNormalizer{
		catalog:            catalog,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// RepairText fixes known character-encoding corruption in one text field.
// Empty fields pass through unchanged.
func (n *FieldNormalizer) RepairText(s string) string {
	if s == "" {
		return s
	}
	return mojibakeReplacer.Replace(s)
}

// Normalize returns the corrected copy of record.
func (n *FieldNormalizer) Normalize(record domain.ProductRecord) domain.ProductRecord {
	record.Segment = n.RepairText(record.Segment)
	record.Name = n.RepairText(record.Name)
	record.Brand = n.RepairText(record.Brand)
	record.Quantity = n.RepairText(record.Quantity)
	record.Vendor = n.RepairText(record.Vendor)

	record.Brand = n.simplifyBrand(record.Brand)
	if record.Brand == "" || record.Brand == domain.BrandGeneric {
		record.Brand = n.inferBrand(record.Name)
	}
	record.Variant = n.extractVariant(record.Name)

	return record
}

// simplifyBrand collapses a verbose brand+descriptor string ("Italac
// Integral") into its short canonical form. Unknown brands pass through.
func (n *FieldNormalizer) simplifyBrand(brand string) string {
	key := strings.ToLower(strings.TrimSpace(brand))
	if canonical, ok := n.catalog.BrandSimplifications[key]; ok {
		if n.enableDebugLogging {
			log.Printf("[NORMALIZE] brand %q simplified to %q", brand, canonical)
		}
		return canonical
	}
	return brand
}

// inferBrand scans the product name against the display brand table. The
// name itself is left untouched; label-form brands ("Arroz Branco Ouro
// Nobre") stay part of the product description.
func (n *FieldNormalizer) inferBrand(name string) string {
	for _, brand := range n.catalog.DisplayBrands {
		if _, _, ok := holdsAlias(name, brand.Alias); ok {
			if n.enableDebugLogging {
				log.Printf("[NORMALIZE] inferred brand %q from name %q", brand.Canonical, name)
			}
			return brand.Canonical
		}
	}
	return domain.BrandGeneric
}

// extractVariant splits the product name on the shortest matching base name;
// everything after the base is the variant ("Queijo Minas Frescal" with base
// "Queijo Minas" yields "Frescal").
func (n *FieldNormalizer) extractVariant(name string) string {
	lower := strings.ToLower(name)
	for _, base := range n.catalog.VariantBases {
		baseLower := strings.ToLower(base)
		if !strings.HasPrefix(lower, baseLower) {
			continue
		}
		rest := name[len(baseLower):]
		if rest == "" {
			return ""
		}
		if !strings.HasPrefix(rest, " ") {
			continue
		}
		return strings.TrimSpace(rest)
	}
	return ""
}
