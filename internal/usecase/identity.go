package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/igomarket/backend/internal/domain"
)

// accentFolder strips combining marks so "Feijão" and "Feijao" fold to the
// same key component.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// IdentityKeyBuilder derives the stable grouping key under which the same SKU
// observed at different vendors compares equal. Folding is intentionally
// aggressive: case, accents, spacing and punctuation all disappear, so
// "Tio João" and "TIO JOAO" collide.
type IdentityKeyBuilder struct {
	keyAliases map[string]string
}

// NewIdentityKeyBuilder creates a key builder using the catalog's folded-form
// alias table.
func NewIdentityKeyBuilder(catalog *Catalog) *IdentityKeyBuilder {
	return &IdentityKeyBuilder{keyAliases: catalog.KeyAliases}
}

// Key returns the identity key for record.
func (b *IdentityKeyBuilder) Key(record domain.ProductRecord) domain.IdentityKey {
	return domain.IdentityKey{
		Segment:  b.fold(record.Segment),
		Name:     b.fold(record.Name),
		Brand:    b.foldBrand(record.Brand),
		Quantity: b.fold(record.Quantity),
	}
}

// foldBrand folds the brand and then resolves folded-form aliases that the
// spelling tables cannot catch ("t. joão" folds to "tjoao", not "tiojoao").
func (b *IdentityKeyBuilder) foldBrand(brand string) string {
	folded := b.fold(brand)
	if canonical, ok := b.keyAliases[folded]; ok {
		return canonical
	}
	return folded
}

// fold lowercases, removes accents and drops everything that is not a letter
// or digit.
func (b *IdentityKeyBuilder) fold(s string) string {
	unaccented, _, err := transform.String(accentFolder, s)
	if err != nil {
		unaccented = s
	}
	var sb strings.Builder
	sb.Grow(len(unaccented))
	for _, r := range strings.ToLower(unaccented) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
