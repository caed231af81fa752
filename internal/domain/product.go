package domain

// Sentinel values used when a field could not be determined during extraction.
// They match the values stored by the original scraping runs, so old snapshots
// keep grouping correctly with new ones.
const (
	BrandGeneric  = "Genérico"
	SegmentOther  = "Outros"
	QuantityUnit  = "un"
	VendorUnknown = "Desconhecido"
)

// DateFormat is the calendar-date layout used in snapshots (extraction date).
const DateFormat = "2006-01-02"

// ProductRecord is one vendor offer for one product, extracted from a flyer
// or product page. JSON field names follow the original snapshot schema.
type ProductRecord struct {
	Segment        string  `json:"segmento"`
	Name           string  `json:"produto"`
	Brand          string  `json:"marca"`
	Quantity       string  `json:"quantidade"`
	Price          float64 `json:"preco"`
	OfferPrice     float64 `json:"preco_oferta"`
	Vendor         string  `json:"mercado"`
	SourceURL      string  `json:"url_fonte,omitempty"`
	ExtractionDate string  `json:"data_extracao"`
	Variant        string  `json:"tipo,omitempty"`
}

// Valid reports whether the record may enter the comparable collection.
// Callers are expected to run ApplyDefaults first; a record that still has an
// empty name or a non-positive price is dropped.
func (r *ProductRecord) Valid() bool {
	return r.Name != "" && r.Price > 0 && r.Brand != "" && r.Quantity != ""
}

// ApplyDefaults fills the optional fields the extraction pipeline may leave
// empty.
func (r *ProductRecord) ApplyDefaults() {
	if r.Segment == "" {
		r.Segment = SegmentOther
	}
	if r.Brand == "" {
		r.Brand = BrandGeneric
	}
	if r.Quantity == "" {
		r.Quantity = QuantityUnit
	}
	if r.Vendor == "" {
		r.Vendor = VendorUnknown
	}
	if r.OfferPrice == 0 {
		r.OfferPrice = r.Price
	}
}

// IdentityKey identifies one SKU across vendors. All components are stored in
// normalized form (lowercase, accent-folded, alphanumeric only), so two keys
// are equal exactly when the records describe the same item.
type IdentityKey struct {
	Segment  string
	Name     string
	Brand    string
	Quantity string
}

// VendorPrice is one (vendor, price) observation inside a comparison group.
type VendorPrice struct {
	Vendor string  `json:"mercado"`
	Price  float64 `json:"preco"`
}

// ComparisonGroup summarizes all offers for one SKU.
type ComparisonGroup struct {
	Name           string        `json:"produto"`
	Brand          string        `json:"marca"`
	Quantity       string        `json:"quantidade"`
	Segment        string        `json:"segmento"`
	CheapestPrice  float64       `json:"menor_preco"`
	OfferPrice     float64       `json:"preco_oferta"`
	MeanPrice      float64       `json:"preco_medio_concorrencia"`
	CheapestVendor string        `json:"mercado_menor_preco"`
	AllPrices      []VendorPrice `json:"todos_precos"`
	Savings        float64       `json:"economia"`
	SavingsPct     float64       `json:"percentual_economia"`
	DeltaToMean    float64       `json:"delta_medio"`
	DeltaToMeanPct float64       `json:"percentual_delta_medio"`
	IsOutlierDeal  bool          `json:"is_isca"`
	Vendors        []string      `json:"mercados_comparados"`
	SourceURL      string        `json:"url_fonte,omitempty"`
}

// CartDescriptor is one wanted item in a cart request. Empty fields match
// anything; non-empty fields are case-insensitive "contains" filters.
type CartDescriptor struct {
	Name     string `json:"produto"`
	Brand    string `json:"marca,omitempty"`
	Quantity string `json:"quantidade,omitempty"`
}

// CartItem is the cheapest matched offer for one requested descriptor.
type CartItem struct {
	Name     string  `json:"produto"`
	Brand    string  `json:"marca"`
	Quantity string  `json:"quantidade"`
	Price    float64 `json:"menor_preco"`
	Vendor   string  `json:"mercado"`
}

// CartResult is the cheapest-basket answer for a cart request.
type CartResult struct {
	VendorTotals   map[string]float64    `json:"totais_por_mercado"`
	VendorItems    map[string][]CartItem `json:"produtos_por_mercado"`
	CheapestVendor string                `json:"mercado_mais_barato"`
	CheapestTotal  float64               `json:"total_mais_barato"`
	TotalEconomy   float64               `json:"economia_total"`
}

// BestOffer is one row of the per-SKU best-price table.
type BestOffer struct {
	Segment   string  `json:"segmento"`
	Name      string  `json:"produto"`
	Brand     string  `json:"marca"`
	Quantity  string  `json:"quantidade"`
	Price     float64 `json:"menor_preco"`
	Vendor    string  `json:"mercado"`
	SourceURL string  `json:"url_fonte,omitempty"`
}

// Stats summarizes the current snapshot.
type Stats struct {
	TotalProducts int      `json:"total_produtos"`
	TotalVendors  int      `json:"total_mercados"`
	Vendors       []string `json:"mercados"`
	MeanPrice     float64  `json:"preco_medio"`
	MinPrice      float64  `json:"preco_minimo"`
	MaxPrice      float64  `json:"preco_maximo"`
	LastUpdated   string   `json:"data_atualizacao"`
}
