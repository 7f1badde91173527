package inventory

// Variant identifies which shape of inventory context a client supplied.
type Variant int

const (
	// VariantNone means no context was supplied, or it could not be read.
	VariantNone Variant = iota
	// VariantFlat is the preformatted-summary shape with a few headline counts.
	VariantFlat
	// VariantRich is the structured shape with breakdowns and product lists.
	VariantRich
)

func (v Variant) String() string {
	switch v {
	case VariantFlat:
		return "flat"
	case VariantRich:
		return "rich"
	default:
		return "none"
	}
}

// Raw is the context exactly as the client sent it, tagged by variant.
// Exactly one of Flat and Rich is set unless Variant is VariantNone.
type Raw struct {
	Variant Variant
	Flat    *FlatContext
	Rich    *RichContext
}

// FlatContext is the summary-with-counts shape. Numeric fields are nil when
// the client did not send them.
type FlatContext struct {
	HasData       bool
	Summary       string
	TotalItems    *int64
	TotalValue    *float64
	LowStockCount *int64
	Categories    []string
}

// RichContext is the structured shape sent by the inventory backend.
type RichContext struct {
	HasData           bool
	Summary           *RichSummary
	CategoryBreakdown []CategoryStat
	StockStatus       *StockStatus
	TopProducts       []Product
	LowStockItems     []LowStockItem
}

// RichSummary holds the headline totals of the rich shape.
type RichSummary struct {
	TotalProducts *int64
	TotalItems    *int64
	TotalValue    *float64
	Categories    []string
}

// CategoryStat is one entry of the category breakdown, kept in the order the
// client listed it.
type CategoryStat struct {
	Name      string
	ItemCount *int64
	Quantity  *int64
	Value     *float64
}

// StockStatus counts products by stock state.
type StockStatus struct {
	InStock    *int64
	LowStock   *int64
	OutOfStock *int64
}

// Product is a ranked top product entry.
type Product struct {
	Name     string
	Value    *float64
	Quantity *int64
	Price    *float64
}

// LowStockItem is one low stock alert.
type LowStockItem struct {
	Name     string
	Quantity *int64
	Status   string
}

// Context is the canonical, variant-independent view consumed by the prompt
// composer. A nil pointer or empty slice means the section is absent and must
// not be rendered.
type Context struct {
	HasData       bool
	Overview      string
	Summary       *Summary
	StockStatus   *StockStatus
	Categories    []CategoryStat
	TopProducts   []Product
	LowStockItems []LowStockItem
}

// Summary is the canonical headline section. Each field is nil when it was
// not supplied.
type Summary struct {
	TotalProducts *int64
	TotalItems    *int64
	TotalValue    *float64
	LowStockCount *int64
	Categories    []string
}

// Empty reports whether the context carries no renderable section.
func (c Context) Empty() bool {
	return c.Overview == "" && c.Summary == nil && c.StockStatus == nil &&
		len(c.Categories) == 0 && len(c.TopProducts) == 0 && len(c.LowStockItems) == 0
}
