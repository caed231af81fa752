package usecase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BrandAlias maps one spelling of a brand, as seen in flyer/OCR text, to its
// canonical display form.
type BrandAlias struct {
	Alias     string
	Canonical string
}

// SegmentKeywords associates a segment label with the product-name keywords
// that select it. Table order is the classification tie-break.
type SegmentKeywords struct {
	Segment  string
	Keywords []string
}

// Catalog holds the lookup tables used by the line parser and the field
// normalizer. It is immutable after construction; tests substitute smaller
// tables through NewLineParser / NewFieldNormalizer.
type Catalog struct {
	// ParserBrands are the brand spellings the parser strips from lines.
	// Kept sorted longest-first so "pinho sol" wins over "sol".
	ParserBrands []BrandAlias
	// DisplayBrands is the broader list used to re-infer a brand from the
	// product name when the parser gave up. Also sorted longest-first.
	DisplayBrands []BrandAlias
	// Segments is the ordered keyword table for segment classification.
	Segments []SegmentKeywords
	// CategoryWords are product-category words that must not be mistaken
	// for a brand by the weak capitalized-token heuristic.
	CategoryWords map[string]bool
	// NoiseWords are promotional filler tokens stripped from the residual
	// product name ("cada", "apenas", ...).
	NoiseWords map[string]bool
	// BrandSimplifications collapses verbose brand+descriptor strings into
	// a short canonical brand. Keys are lowercase trimmed.
	BrandSimplifications map[string]string
	// VariantBases are product-name prefixes whose remainder becomes the
	// variant field. Kept sorted shortest-first.
	VariantBases []string
	// KeyAliases maps already-folded brand keys to their canonical folded
	// form, merging spellings the alias tables cannot catch ("t. joão"
	// folds to "tjoao", not "tiojoao").
	KeyAliases map[string]string
}

// NewCatalog normalizes the table invariants: alias lists longest-first,
// variant bases shortest-first.
func NewCatalog(c Catalog) *Catalog {
	sortAliases(c.ParserBrands)
	sortAliases(c.DisplayBrands)
	sort.SliceStable(c.VariantBases, func(i, j int) bool {
		return len(c.VariantBases[i]) < len(c.VariantBases[j])
	})
	return &c
}

func sortAliases(aliases []BrandAlias) {
	sort.SliceStable(aliases, func(i, j int) bool {
		return len(aliases[i].Alias) > len(aliases[j].Alias)
	})
}

// DefaultCatalog returns the production tables, consolidated from the flyer
// (OCR) and product-page extraction paths into one authoritative set.
func DefaultCatalog() *Catalog {
	return NewCatalog(Catalog{
		ParserBrands:         defaultParserBrands(),
		DisplayBrands:        defaultDisplayBrands(),
		Segments:             defaultSegments(),
		CategoryWords:        defaultCategoryWords(),
		NoiseWords:           defaultNoiseWords(),
		BrandSimplifications: defaultBrandSimplifications(),
		VariantBases:         defaultVariantBases(),
		KeyAliases: map[string]string{
			"tjoao":    "tiojoao",
			"donaelsa": "donaelza",
		},
	})
}

func defaultParserBrands() []BrandAlias {
	canon := func(aliases []string, canonical string) []BrandAlias {
		out := make([]BrandAlias, 0, len(aliases))
		for _, a := range aliases {
			out = append(out, BrandAlias{Alias: a, Canonical: canonical})
		}
		return out
	}

	var brands []BrandAlias
	// Rice and beans
	brands = append(brands, canon([]string{"tio joão", "tio joao", "t. joão", "t. joao"}, "Tio João")...)
	brands = append(brands, canon([]string{"dona elza", "dona elsa"}, "Dona Elza")...)
	brands = append(brands, canon([]string{"camil"}, "Camil")...)
	brands = append(brands, canon([]string{"prato fino"}, "Prato Fino")...)
	brands = append(brands, canon([]string{"tio urbano"}, "Tio Urbano")...)
	brands = append(brands, canon([]string{"kicaldo"}, "Kicaldo")...)
	// Dairy
	brands = append(brands, canon([]string{"italac"}, "Italac")...)
	brands = append(brands, canon([]string{"parmalat"}, "Parmalat")...)
	brands = append(brands, canon([]string{"nestlé", "nestle"}, "Nestlé")...)
	brands = append(brands, canon([]string{"danone"}, "Danone")...)
	brands = append(brands, canon([]string{"vigor"}, "Vigor")...)
	brands = append(brands, canon([]string{"itambé", "itambe"}, "Itambé")...)
	brands = append(brands, canon([]string{"piracanjuba"}, "Piracanjuba")...)
	brands = append(brands, canon([]string{"tirolez"}, "Tirolez")...)
	brands = append(brands, canon([]string{"catupiry"}, "Catupiry")...)
	// Cleaning
	brands = append(brands, canon([]string{"omo"}, "Omo")...)
	brands = append(brands, canon([]string{"ariel"}, "Ariel")...)
	brands = append(brands, canon([]string{"comfort"}, "Comfort")...)
	brands = append(brands, canon([]string{"ypê", "ype"}, "Ypê")...)
	brands = append(brands, canon([]string{"pinho sol"}, "Pinho Sol")...)
	brands = append(brands, canon([]string{"vanish"}, "Vanish")...)
	brands = append(brands, canon([]string{"bombril"}, "Bombril")...)
	brands = append(brands, canon([]string{"assolan"}, "Assolan")...)
	brands = append(brands, canon([]string{"qboa"}, "Qboa")...)
	// Meat
	brands = append(brands, canon([]string{"sadia"}, "Sadia")...)
	brands = append(brands, canon([]string{"perdigão", "perdigao"}, "Perdigão")...)
	brands = append(brands, canon([]string{"seara"}, "Seara")...)
	brands = append(brands, canon([]string{"friboi"}, "Friboi")...)
	brands = append(brands, canon([]string{"swift"}, "Swift")...)
	brands = append(brands, canon([]string{"aurora"}, "Aurora")...)
	// Beverages
	brands = append(brands, canon([]string{"coca-cola", "coca cola"}, "Coca-Cola")...)
	brands = append(brands, canon([]string{"pepsi"}, "Pepsi")...)
	brands = append(brands, canon([]string{"guaraná antarctica", "guarana antarctica"}, "Guaraná Antarctica")...)
	brands = append(brands, canon([]string{"sprite"}, "Sprite")...)
	brands = append(brands, canon([]string{"fanta"}, "Fanta")...)
	brands = append(brands, canon([]string{"brahma"}, "Brahma")...)
	brands = append(brands, canon([]string{"skol"}, "Skol")...)
	brands = append(brands, canon([]string{"heineken"}, "Heineken")...)
	brands = append(brands, canon([]string{"itaipava"}, "Itaipava")...)
	brands = append(brands, canon([]string{"del valle"}, "Del Valle")...)
	brands = append(brands, canon([]string{"maguary"}, "Maguary")...)
	// Condiments
	brands = append(brands, canon([]string{"maggi"}, "Maggi")...)
	brands = append(brands, canon([]string{"knorr"}, "Knorr")...)
	brands = append(brands, canon([]string{"hellmanns", "hellmann's"}, "Hellmann's")...)
	brands = append(brands, canon([]string{"heinz"}, "Heinz")...)
	brands = append(brands, canon([]string{"quero"}, "Quero")...)
	brands = append(brands, canon([]string{"elefante"}, "Elefante")...)
	brands = append(brands, canon([]string{"arisco"}, "Arisco")...)
	brands = append(brands, canon([]string{"kitano"}, "Kitano")...)
	brands = append(brands, canon([]string{"sazón", "sazon"}, "Sazón")...)
	// Pet
	brands = append(brands, canon([]string{"dog chow"}, "Dog Chow")...)
	brands = append(brands, canon([]string{"whiskas"}, "Whiskas")...)
	brands = append(brands, canon([]string{"pedigree"}, "Pedigree")...)
	brands = append(brands, canon([]string{"royal canin"}, "Royal Canin")...)
	brands = append(brands, canon([]string{"pipicat", "pipi cat"}, "Pipicat")...)
	// Bakery and snacks
	brands = append(brands, canon([]string{"wickbold"}, "Wickbold")...)
	brands = append(brands, canon([]string{"pullman"}, "Pullman")...)
	brands = append(brands, canon([]string{"bauducco"}, "Bauducco")...)
	brands = append(brands, canon([]string{"piraquê", "piraque"}, "Piraquê")...)
	brands = append(brands, canon([]string{"yoki"}, "Yoki")...)
	// Personal care
	brands = append(brands, canon([]string{"colgate"}, "Colgate")...)
	brands = append(brands, canon([]string{"sorriso"}, "Sorriso")...)
	brands = append(brands, canon([]string{"rexona"}, "Rexona")...)
	brands = append(brands, canon([]string{"dove"}, "Dove")...)
	brands = append(brands, canon([]string{"nivea"}, "Nivea")...)
	// Misc
	brands = append(brands, canon([]string{"duracell"}, "Duracell")...)
	brands = append(brands, canon([]string{"rayovac"}, "Rayovac")...)
	return brands
}

// defaultDisplayBrands extends the parser list with label-form brands that
// only show up inside product names (regional rice/bean mills and the like).
func defaultDisplayBrands() []BrandAlias {
	extra := []BrandAlias{
		{Alias: "ouro nobre", Canonical: "Ouro Nobre"},
		{Alias: "combrasil", Canonical: "Combrasil"},
		{Alias: "rei do sul", Canonical: "Rei do Sul"},
		{Alias: "máximo", Canonical: "Máximo"},
		{Alias: "maximo", Canonical: "Máximo"},
		{Alias: "carreteiro", Canonical: "Carreteiro"},
		{Alias: "globo", Canonical: "Globo"},
		{Alias: "copa", Canonical: "Copa"},
		{Alias: "panela de barro", Canonical: "Panela de Barro"},
		{Alias: "sanes", Canonical: "Sanes"},
		{Alias: "macio", Canonical: "Macio"},
	}
	return append(extra, defaultParserBrands()...)
}

func defaultSegments() []SegmentKeywords {
	return []SegmentKeywords{
		{Segment: "Mercearia", Keywords: []string{
			"arroz", "feijão", "feijao", "macarrão", "macarrao", "massa", "óleo", "oleo",
			"açúcar", "acucar", "sal", "farinha", "biscoito", "bolacha", "polvilho",
			"fermento", "gelatina", "achocolatado", "leite em pó", "leite em po",
			"café", "cafe", "chá", "cha", "molho de tomate", "extrato de tomate",
			"milho", "ervilha", "atum", "sardinha", "azeite", "vinagre", "mostarda",
			"ketchup", "maionese", "tempero", "caldo", "pipoca",
		}},
		{Segment: "Açougue", Keywords: []string{
			"carne", "frango", "peixe", "alcatra", "patinho", "contra filé", "contra file",
			"picanha", "linguiça", "linguica", "salsicha", "bacon", "presunto",
			"mortadela", "salame", "peito de frango", "coxa", "sobrecoxa", "lombo",
			"costela", "músculo", "musculo", "acém", "acem", "paleta", "maminha",
			"fraldinha", "carne moída", "carne moida", "charque",
		}},
		{Segment: "Laticínios", Keywords: []string{
			"leite", "queijo", "manteiga", "requeijão", "requeijao", "iogurte",
			"creme de leite", "nata", "leite condensado", "ricota", "margarina",
			"bebida láctea", "bebida lactea",
		}},
		{Segment: "Hortifruti", Keywords: []string{
			"banana", "maçã", "maça", "laranja", "tomate", "cebola", "batata", "alface",
			"couve", "repolho", "cenoura", "abóbora", "abobora", "abobrinha",
			"berinjela", "pimentão", "pimentao", "alho", "limão", "limao", "mamão",
			"mamao", "manga", "abacaxi", "melancia", "melão", "melao", "uva",
			"morango", "pera", "brócolis", "brocolis", "beterraba", "espinafre",
		}},
		{Segment: "Limpeza", Keywords: []string{
			"sabão", "sabao", "detergente", "amaciante", "água sanitária",
			"agua sanitaria", "desinfetante", "esponja", "cloro", "multiuso",
			"limpa vidros", "removedor", "desengordurante", "palha de aço",
			"palha de aco", "saco de lixo",
		}},
		{Segment: "Bebidas", Keywords: []string{
			"refrigerante", "suco", "água", "agua", "cerveja", "vinho", "néctar",
			"nectar", "isotônico", "isotonico", "energético", "energetico",
			"espumante", "cachaça", "cachaca", "whisky", "vodka",
		}},
		{Segment: "Padaria", Keywords: []string{
			"pão", "pao", "bolo", "torta", "doce", "rosquinha", "sonho", "pudim",
			"mousse", "brigadeiro",
		}},
		{Segment: "Pet Shop", Keywords: []string{
			"ração", "racao", "petisco", "areia", "sachê", "sache", "coleira",
			"comedouro", "bebedouro",
		}},
		{Segment: "Bazar", Keywords: []string{
			"papel alumínio", "papel aluminio", "papel filme", "papel toalha",
			"guardanapo", "pilha", "bateria", "fita", "adesivo", "copo", "prato",
			"talher", "caneca", "garrafa", "vasilha",
		}},
		{Segment: "Higiene Pessoal", Keywords: []string{
			"shampoo", "condicionador", "sabonete", "desodorante", "pasta de dente",
			"escova de dente", "fio dental", "enxaguante", "hidratante", "perfume",
			"absorvente", "fralda", "lenço umedecido", "lenco umedecido", "cotonete",
			"papel higiênico", "papel higienico",
		}},
		{Segment: "Congelados", Keywords: []string{
			"hambúrguer", "hamburguer", "nuggets", "batata frita", "pizza", "lasanha",
			"sorvete", "picolé", "picole", "açaí", "acai", "polpa", "congelado",
			"congelada",
		}},
	}
}

func defaultCategoryWords() map[string]bool {
	return map[string]bool{
		"arroz": true, "feijão": true, "feijao": true, "leite": true,
		"carne": true, "frango": true, "sabão": true, "sabao": true,
		"refrigerante": true, "suco": true, "queijo": true, "café": true,
		"cafe": true, "açúcar": true, "acucar": true, "farinha": true,
	}
}

func defaultNoiseWords() map[string]bool {
	return map[string]bool{
		"cada": true, "apenas": true, "por": true, "oferta": true,
		"promoção": true, "promocao": true, "leve": true, "pague": true,
		"imperdível": true, "imperdivel": true, "só": true, "somente": true,
	}
}

func defaultBrandSimplifications() map[string]string {
	return map[string]string{
		"italac integral":        "Italac",
		"italac desnatado":       "Italac",
		"italac semidesnatado":   "Italac",
		"leite regina integral":  "Leite Regina",
		"leite regina desnatado": "Leite Regina",
		"omo lavagem perfeita":   "Omo",
		"ypê neutro":             "Ypê",
		"ype neutro":             "Ypê",
		"nescau 2.0":             "Nescau",
	}
}

func defaultVariantBases() []string {
	return []string{
		"Arroz",
		"Feijão",
		"Leite",
		"Queijo Minas",
		"Queijo Prato",
		"Sabão em Pó",
		"Refrigerante",
		"Suco",
		"Iogurte",
		"Pão",
	}
}

// holdsAlias reports whether text contains alias as a whole word, ignoring
// case ("omo" must not hit inside "promoção"). It returns the byte span of
// the match in text.
func holdsAlias(text, alias string) (start, end int, ok bool) {
	lower := strings.ToLower(text)
	needle := strings.ToLower(alias)
	from := 0
	for {
		idx := strings.Index(lower[from:], needle)
		if idx < 0 {
			return 0, 0, false
		}
		idx += from
		if letterBoundary(lower, idx, idx+len(needle)) {
			return idx, idx + len(needle), true
		}
		from = idx + len(needle)
	}
}

func letterBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
