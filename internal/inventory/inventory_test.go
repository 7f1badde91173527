package inventory

import (
	"testing"
)

const richFixture = `{
  "hasData": true,
  "summary": {"totalProducts": 42, "totalItems": 1340, "totalValue": 26344.50, "categories": ["Electronics", "Tools"]},
  "categoryBreakdown": {
    "Tools": {"items": 12, "quantity": 300, "value": 4100.25},
    "Electronics": {"items": 30, "quantity": 1040, "value": 22244.25}
  },
  "stockStatus": {"inStock": 35, "lowStock": 5, "outOfStock": 2},
  "topProducts": [
    {"name": "Laptop", "value": 12000, "quantity": 10, "price": 1200},
    {"name": "Drill", "value": 900.5, "quantity": 9, "price": 100.0555}
  ],
  "lowStockItems": [{"name": "Cable", "quantity": 2, "status": "low_stock"}]
}`

func TestParseNoneVariants(t *testing.T) {
	inputs := []string{"", "   ", "null", "[]", `"text"`, "{not json", "42"}
	for _, in := range inputs {
		raw := Parse([]byte(in))
		if raw.Variant != VariantNone {
			t.Errorf("Parse(%q) variant = %s, want none", in, raw.Variant)
		}
	}
}

func TestParseFlatVariant(t *testing.T) {
	raw := Parse([]byte(`{"summary": "Total: 10 items", "total_items": 10, "total_value": 99.5, "low_stock_count": 1, "categories": ["A", "", "B"], "has_data": true}`))
	if raw.Variant != VariantFlat {
		t.Fatalf("variant = %s, want flat", raw.Variant)
	}
	f := raw.Flat
	if !f.HasData {
		t.Error("expected has_data true")
	}
	if f.Summary != "Total: 10 items" {
		t.Errorf("summary = %q", f.Summary)
	}
	if f.TotalItems == nil || *f.TotalItems != 10 {
		t.Errorf("total_items = %v", f.TotalItems)
	}
	if f.TotalValue == nil || *f.TotalValue != 99.5 {
		t.Errorf("total_value = %v", f.TotalValue)
	}
	if len(f.Categories) != 2 || f.Categories[0] != "A" || f.Categories[1] != "B" {
		t.Errorf("categories = %v", f.Categories)
	}
}

func TestParseRichVariantCamelCase(t *testing.T) {
	raw := Parse([]byte(richFixture))
	if raw.Variant != VariantRich {
		t.Fatalf("variant = %s, want rich", raw.Variant)
	}
	r := raw.Rich
	if !r.HasData {
		t.Error("expected hasData true")
	}
	if r.Summary == nil || r.Summary.TotalValue == nil || *r.Summary.TotalValue != 26344.50 {
		t.Fatalf("summary total value not parsed: %+v", r.Summary)
	}
	if len(r.CategoryBreakdown) != 2 {
		t.Fatalf("categories = %d, want 2", len(r.CategoryBreakdown))
	}
	// Document order is preserved.
	if r.CategoryBreakdown[0].Name != "Tools" || r.CategoryBreakdown[1].Name != "Electronics" {
		t.Errorf("category order = %q, %q", r.CategoryBreakdown[0].Name, r.CategoryBreakdown[1].Name)
	}
	if c := r.CategoryBreakdown[0]; c.ItemCount == nil || *c.ItemCount != 12 {
		t.Errorf("item count alias not read: %+v", c)
	}
	if r.StockStatus == nil || r.StockStatus.OutOfStock == nil || *r.StockStatus.OutOfStock != 2 {
		t.Errorf("stock status = %+v", r.StockStatus)
	}
	if len(r.TopProducts) != 2 || r.TopProducts[1].Name != "Drill" {
		t.Errorf("top products = %+v", r.TopProducts)
	}
	if len(r.LowStockItems) != 1 || r.LowStockItems[0].Status != "low_stock" {
		t.Errorf("low stock = %+v", r.LowStockItems)
	}
}

func TestParseRichSnakeCaseWithoutSummary(t *testing.T) {
	raw := Parse([]byte(`{"has_data": true, "stock_status": {"in_stock": 3, "low_stock": 1, "out_of_stock": 0}}`))
	if raw.Variant != VariantRich {
		t.Fatalf("variant = %s, want rich", raw.Variant)
	}
	if raw.Rich.Summary != nil {
		t.Error("summary should be absent")
	}
	if raw.Rich.StockStatus == nil || *raw.Rich.StockStatus.InStock != 3 {
		t.Errorf("stock status = %+v", raw.Rich.StockStatus)
	}
}

func TestParseWrongTypesAreIgnored(t *testing.T) {
	raw := Parse([]byte(`{"has_data": true, "summary": {"totalItems": "lots", "totalValue": [1], "categories": "Tools"}, "topProducts": [1, "x", {"name": "Ok", "quantity": 2.9}]}`))
	if raw.Variant != VariantRich {
		t.Fatalf("variant = %s, want rich", raw.Variant)
	}
	s := raw.Rich.Summary
	if s.TotalItems != nil || s.TotalValue != nil || s.Categories != nil {
		t.Errorf("wrong-typed fields should be absent: %+v", s)
	}
	if len(raw.Rich.TopProducts) != 1 {
		t.Fatalf("top products = %d, want 1", len(raw.Rich.TopProducts))
	}
	if q := raw.Rich.TopProducts[0].Quantity; q == nil || *q != 2 {
		t.Errorf("quantity should truncate to 2, got %v", q)
	}
}

func TestNormalizeAbsentOrNoData(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{"none", Raw{}},
		{"flat without data", Parse([]byte(`{"summary": "x", "total_items": 5, "has_data": false}`))},
		{"rich without data", Parse([]byte(`{"summary": {"totalItems": 5}}`))},
		{"variant without payload", Raw{Variant: VariantRich}},
	}
	for _, tt := range tests {
		ctx := Normalize(tt.raw)
		if ctx.HasData {
			t.Errorf("%s: expected has_data false", tt.name)
		}
		if !ctx.Empty() {
			t.Errorf("%s: expected no sections, got %+v", tt.name, ctx)
		}
	}
}

func TestNormalizeClampsNegatives(t *testing.T) {
	raw := Parse([]byte(`{"hasData": true, "summary": {"totalItems": -4, "totalValue": -10.5}, "stockStatus": {"lowStock": -1}}`))
	ctx := Normalize(raw)
	if *ctx.Summary.TotalItems != 0 {
		t.Errorf("total items = %d, want 0", *ctx.Summary.TotalItems)
	}
	if *ctx.Summary.TotalValue != 0 {
		t.Errorf("total value = %f, want 0", *ctx.Summary.TotalValue)
	}
	if *ctx.StockStatus.LowStock != 0 {
		t.Errorf("low stock = %d, want 0", *ctx.StockStatus.LowStock)
	}
	if ctx.StockStatus.InStock != nil {
		t.Error("in stock was not supplied and must stay absent")
	}
}

func TestNormalizeFlatKeepsOnlySuppliedFields(t *testing.T) {
	ctx := Normalize(Parse([]byte(`{"summary": "Preformatted text", "has_data": true}`)))
	if !ctx.HasData {
		t.Fatal("expected has_data true")
	}
	if ctx.Overview != "Preformatted text" {
		t.Errorf("overview = %q", ctx.Overview)
	}
	if ctx.Summary != nil {
		t.Errorf("summary should be omitted when no totals were supplied: %+v", ctx.Summary)
	}
	if ctx.StockStatus != nil || ctx.Categories != nil || ctx.TopProducts != nil {
		t.Error("rich-only sections must stay absent for the flat variant")
	}
}

func TestNormalizeRichCopiesVerbatim(t *testing.T) {
	ctx := Normalize(Parse([]byte(richFixture)))
	if !ctx.HasData {
		t.Fatal("expected has_data true")
	}
	if *ctx.Summary.TotalValue != 26344.50 {
		t.Errorf("total value = %f", *ctx.Summary.TotalValue)
	}
	if *ctx.TopProducts[1].Price != 100.0555 {
		t.Errorf("price must not be rounded, got %f", *ctx.TopProducts[1].Price)
	}
	if ctx.Overview != "" {
		t.Error("rich variant has no overview text")
	}
}

func TestParseNonFiniteCountsReadAsZero(t *testing.T) {
	raw := Parse([]byte(`{"hasData": true, "stockStatus": {"inStock": "NaN", "lowStock": "Inf", "outOfStock": "3.9"}}`))
	ctx := Normalize(raw)
	if ctx.StockStatus == nil {
		t.Fatal("expected stock status")
	}
	st := ctx.StockStatus
	if *st.InStock != 0 || *st.LowStock != 0 {
		t.Errorf("non-finite counts should read as 0, got %d and %d", *st.InStock, *st.LowStock)
	}
	if *st.OutOfStock != 3 {
		t.Errorf("fractional count should truncate to 3, got %d", *st.OutOfStock)
	}
}

func TestParseOversizedCountsAreAbsent(t *testing.T) {
	raw := Parse([]byte(`{"hasData": true, "summary": {"totalItems": 1e19, "totalProducts": 12, "totalValue": 1e20}}`))
	ctx := Normalize(raw)
	if ctx.Summary == nil {
		t.Fatal("expected summary")
	}
	if ctx.Summary.TotalItems != nil {
		t.Errorf("count beyond int64 should be absent, got %d", *ctx.Summary.TotalItems)
	}
	if ctx.Summary.TotalProducts == nil || *ctx.Summary.TotalProducts != 12 {
		t.Error("in-range count should be kept")
	}
	if ctx.Summary.TotalValue == nil || *ctx.Summary.TotalValue != 1e20 {
		t.Error("large amounts are floats and should be kept verbatim")
	}
}
