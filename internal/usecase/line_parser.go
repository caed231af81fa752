package usecase

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/igomarket/backend/internal/domain"
)

// Residual-name guards: anything shorter/longer than this after stripping
// price, quantity and brand is OCR garbage.
const (
	minNameRunes = 2
	maxNameRunes = 200
)

// priceRule is one named price-extraction pattern. Rules are tried in order;
// the first match wins and its span is removed from the line.
type priceRule struct {
	name  string
	re    *regexp.Regexp
	cents bool // two capture groups: integer part and cents
}

// priceRules is ordered from most to least specific. The bare decimal is the
// last resort before the two integer-only fallbacks.
var priceRules = []priceRule{
	{name: "currency_prefix", re: regexp.MustCompile(`R\$\s*(\d+)[.,](\d{2})`), cents: true},
	{name: "currency_suffix", re: regexp.MustCompile(`(\d+)[.,](\d{2})\s*R\$`), cents: true},
	{name: "reais_suffix", re: regexp.MustCompile(`(?i)(\d+)[.,](\d{2})\s*reais\b`), cents: true},
	{name: "labeled", re: regexp.MustCompile(`(?i)pre[çc]o\s*[:=]?\s*(\d+)[.,](\d{2})`), cents: true},
	{name: "bare_decimal", re: regexp.MustCompile(`(\d+)[.,](\d{2})`), cents: true},
	{name: "currency_integer", re: regexp.MustCompile(`R\$\s*(\d+)\b`)},
	{name: "integer_reais", re: regexp.MustCompile(`(?i)(\d+)\s*reais\b`)},
}

// quantityRule is one named quantity-extraction pattern. build converts the
// submatches into the normalized magnitude+unit token.
type quantityRule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) (string, bool)
}

var quantityRules = []quantityRule{
	// "4 x 250ml" multiplies out to "1000ml"
	{name: "multiplier", re: regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+)\s*(kg|g|l|ml)\b`),
		build: func(m []string) (string, bool) {
			n, err1 := strconv.Atoi(m[1])
			unit, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				return "", false
			}
			return strconv.Itoa(n*unit) + normalizeUnit(m[3]), true
		}},
	{name: "unit_abbrev", re: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g|l|ml|un|und|unid|unidade|pct|pac)\b\.?`),
		build: func(m []string) (string, bool) {
			return normalizeMagnitude(m[1]) + normalizeUnit(m[2]), true
		}},
	{name: "unit_word", re: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(quilos?|gramas?|litros?|mililitros?)\b`),
		build: func(m []string) (string, bool) {
			return normalizeMagnitude(m[1]) + normalizeUnit(m[2]), true
		}},
	{name: "units_count", re: regexp.MustCompile(`(?i)(\d+)\s*unidades?\b`),
		build: func(m []string) (string, bool) {
			return m[1] + "un", true
		}},
	{name: "pack", re: regexp.MustCompile(`(?i)pacote\s+(\d+)\s*(kg|g|l|ml)\b`),
		build: func(m []string) (string, bool) {
			return m[1] + normalizeUnit(m[2]), true
		}},
}

// Continuation-line detection for multi-line product blocks.
var (
	priceTokenRegex    = regexp.MustCompile(`R\$\s*\d+|\d+[.,]\d{2}`)
	quantityTokenRegex = regexp.MustCompile(`(?i)\d+\s*(kg|g|l|ml|un)\b`)
	spaceCollapseRegex = regexp.MustCompile(`\s+`)
)

// normalizeUnit maps every accepted unit spelling onto the canonical set
// {kg, g, L, ml, un}.
func normalizeUnit(u string) string {
	switch strings.ToLower(u) {
	case "kg", "quilo", "quilos":
		return "kg"
	case "g", "grama", "gramas":
		return "g"
	case "l", "litro", "litros":
		return "L"
	case "ml", "mililitro", "mililitros":
		return "ml"
	default:
		return domain.QuantityUnit
	}
}

func normalizeMagnitude(n string) string {
	return strings.ReplaceAll(n, ",", ".")
}

// Candidate is the raw parser output, before normalization and validation.
type Candidate struct {
	Name     string
	Brand    string
	Quantity string
	Price    float64
}

// ParserConfig holds configuration for the line parser.
type ParserConfig struct {
	// MaxContinuationLines caps how many following lines may be merged
	// into one product block (OCR and DOM layouts split products).
	MaxContinuationLines int
	// Workers is the batch-parse fan-out; lines are independent.
	Workers            int
	EnableDebugLogging bool
}

// LineParser converts one free-text line, or a merged block of lines, into a
// candidate product record. Noise lines produce no candidate and no error.
type LineParser struct {
	catalog              *Catalog
	maxContinuationLines int
	workers              int
	enableDebugLogging   bool
	titler               cases.Caser
}

// NewLineParser creates a parser over the given catalog.
func NewLineParser(catalog *Catalog, config ParserConfig) *LineParser {
	maxCont := config.MaxContinuationLines
	if maxCont <= 0 {
		maxCont = 3
	}
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}
	return &LineParser{
		catalog:              catalog,
		maxContinuationLines: maxCont,
		workers:              workers,
		enableDebugLogging:   config.EnableDebugLogging,
		titler:               cases.Title(language.BrazilianPortuguese),
	}
}

// ParseLine extracts a candidate record from one line. The second return is
// false when the line holds no usable product (no price, garbage residue).
func (p *LineParser) ParseLine(line string) (Candidate, bool) {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < 3 {
		return Candidate{}, false
	}

	price, rest, ok := p.extractPrice(line)
	if !ok || price <= 0 {
		return Candidate{}, false
	}

	quantity, rest := p.extractQuantity(rest)
	brand, rest := p.extractBrand(rest)
	name := p.cleanName(rest)

	runes := utf8.RuneCountInString(name)
	if runes < minNameRunes || runes > maxNameRunes {
		if p.enableDebugLogging {
			log.Printf("[PARSE] rejected residual name %q (len %d)", name, runes)
		}
		return Candidate{}, false
	}

	if p.enableDebugLogging {
		log.Printf("[PARSE] %q -> name=%q brand=%q qty=%q price=%.2f",
			line, name, brand, quantity, price)
	}

	return Candidate{Name: name, Brand: brand, Quantity: quantity, Price: price}, true
}

// extractPrice tries the ordered price rules; the first match wins. Returns
// the price, the line with the matched span stripped, and whether any rule
// fired.
func (p *LineParser) extractPrice(line string) (float64, string, bool) {
	for _, rule := range priceRules {
		loc := rule.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		m := rule.re.FindStringSubmatch(line)
		var value float64
		if rule.cents {
			whole, err1 := strconv.Atoi(m[1])
			centsPart, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			value = float64(whole) + float64(centsPart)/100
		} else {
			whole, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			value = float64(whole)
		}
		rest := line[:loc[0]] + " " + line[loc[1]:]
		return value, rest, true
	}
	return 0, line, false
}

// extractQuantity tries the ordered quantity rules; unmatched lines get the
// "un" sentinel.
func (p *LineParser) extractQuantity(line string) (string, string) {
	for _, rule := range quantityRules {
		loc := rule.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		m := rule.re.FindStringSubmatch(line)
		quantity, ok := rule.build(m)
		if !ok {
			continue
		}
		rest := line[:loc[0]] + " " + line[loc[1]:]
		return quantity, rest
	}
	return domain.QuantityUnit, line
}

// extractBrand scans the known-brand table (longest alias first), then falls
// back to a weak capitalized-token heuristic, then to the Generic sentinel.
func (p *LineParser) extractBrand(text string) (string, string) {
	for _, brand := range p.catalog.ParserBrands {
		if start, end, ok := holdsAlias(text, brand.Alias); ok {
			return brand.Canonical, text[:start] + " " + text[end:]
		}
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return domain.BrandGeneric, text
	}

	// A lone capitalized trailing token is likely a brand ("arroz branco
	// Camil"). Inside a fully title-cased phrase it is just part of the
	// name, so require the preceding token to be lowercase.
	last := words[len(words)-1]
	if startsUpper(last) && utf8.RuneCountInString(last) > 2 &&
		!startsUpper(words[len(words)-2]) &&
		!p.catalog.CategoryWords[strings.ToLower(last)] {
		return p.titler.String(last), strings.Join(words[:len(words)-1], " ")
	}

	// Leading brand ("Nestlé leite condensado") when the first token is not
	// itself a product-category word.
	first := words[0]
	if len(words) >= 3 && startsUpper(first) && utf8.RuneCountInString(first) > 3 &&
		!startsUpper(words[1]) &&
		!p.catalog.CategoryWords[strings.ToLower(first)] {
		return p.titler.String(first), strings.Join(words[1:], " ")
	}

	return domain.BrandGeneric, text
}

// cleanName strips promotional noise words and stray punctuation from the
// residual text, collapses whitespace and title-cases the result.
func (p *LineParser) cleanName(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		trimmed := strings.Trim(w, ",.:;-–!?")
		if trimmed == "" {
			continue
		}
		if p.catalog.NoiseWords[strings.ToLower(trimmed)] {
			continue
		}
		kept = append(kept, trimmed)
	}
	name := strings.Join(kept, " ")
	name = spaceCollapseRegex.ReplaceAllString(name, " ")
	return p.titler.String(strings.TrimSpace(name))
}

// MergeBlocks joins lines that look like continuations of the previous line
// (they carry a price or quantity token, or are short and uncapitalized)
// into one block, up to the configured limit. Two lines that both carry a
// price are two products and are never merged.
func (p *LineParser) MergeBlocks(lines []string) []string {
	var blocks []string
	used := make([]bool, len(lines))

	for i := range lines {
		if used[i] {
			continue
		}
		current := strings.TrimSpace(lines[i])
		if current == "" {
			continue
		}
		merged := 0
		for j := i + 1; j < len(lines) && merged < p.maxContinuationLines; j++ {
			next := strings.TrimSpace(lines[j])
			if utf8.RuneCountInString(next) < 2 {
				break
			}
			if priceTokenRegex.MatchString(current) && priceTokenRegex.MatchString(next) {
				break
			}
			if !looksLikeContinuation(next) {
				break
			}
			current += " " + next
			used[j] = true
			merged++
		}
		blocks = append(blocks, current)
	}
	return blocks
}

func looksLikeContinuation(line string) bool {
	if priceTokenRegex.MatchString(line) || quantityTokenRegex.MatchString(line) {
		return true
	}
	return utf8.RuneCountInString(line) < 30 && !startsUpper(line)
}

// ParseBatch merges the raw lines into blocks and parses them across the
// configured worker pool. Lines are independent; output order is not
// significant (presentation order is imposed by the comparison stage).
func (p *LineParser) ParseBatch(ctx context.Context, lines []string) []Candidate {
	blocks := p.MergeBlocks(lines)

	jobs := make(chan string)
	results := make(chan Candidate, len(blocks))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for block := range jobs {
				if candidate, ok := p.ParseLine(block); ok {
					results <- candidate
				}
			}
		}()
	}

dispatch:
	for _, block := range blocks {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- block:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	candidates := make([]Candidate, 0, len(blocks))
	for candidate := range results {
		candidates = append(candidates, candidate)
	}
	return candidates
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
