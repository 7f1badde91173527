package inventory

import (
	"math"
	"strings"
)

// Normalize maps either context variant onto the canonical Context. Sections
// the supplied variant does not carry stay absent. Negative and non-finite
// numbers are clamped to zero; text passes through verbatim.
func Normalize(raw Raw) Context {
	switch raw.Variant {
	case VariantFlat:
		if raw.Flat != nil {
			return normalizeFlat(raw.Flat)
		}
	case VariantRich:
		if raw.Rich != nil {
			return normalizeRich(raw.Rich)
		}
	}
	return Context{}
}

func normalizeFlat(f *FlatContext) Context {
	if !f.HasData {
		return Context{}
	}
	ctx := Context{
		HasData:  true,
		Overview: strings.TrimSpace(f.Summary),
	}
	s := &Summary{
		TotalItems:    clampInt(f.TotalItems),
		TotalValue:    clampFloat(f.TotalValue),
		LowStockCount: clampInt(f.LowStockCount),
		Categories:    f.Categories,
	}
	if !s.empty() {
		ctx.Summary = s
	}
	return ctx
}

func normalizeRich(r *RichContext) Context {
	if !r.HasData {
		return Context{}
	}
	ctx := Context{HasData: true}

	if r.Summary != nil {
		s := &Summary{
			TotalProducts: clampInt(r.Summary.TotalProducts),
			TotalItems:    clampInt(r.Summary.TotalItems),
			TotalValue:    clampFloat(r.Summary.TotalValue),
			Categories:    r.Summary.Categories,
		}
		if !s.empty() {
			ctx.Summary = s
		}
	}

	if r.StockStatus != nil {
		st := &StockStatus{
			InStock:    clampInt(r.StockStatus.InStock),
			LowStock:   clampInt(r.StockStatus.LowStock),
			OutOfStock: clampInt(r.StockStatus.OutOfStock),
		}
		if st.InStock != nil || st.LowStock != nil || st.OutOfStock != nil {
			ctx.StockStatus = st
		}
	}

	for _, c := range r.CategoryBreakdown {
		ctx.Categories = append(ctx.Categories, CategoryStat{
			Name:      c.Name,
			ItemCount: clampInt(c.ItemCount),
			Quantity:  clampInt(c.Quantity),
			Value:     clampFloat(c.Value),
		})
	}
	for _, p := range r.TopProducts {
		ctx.TopProducts = append(ctx.TopProducts, Product{
			Name:     p.Name,
			Value:    clampFloat(p.Value),
			Quantity: clampInt(p.Quantity),
			Price:    clampFloat(p.Price),
		})
	}
	for _, item := range r.LowStockItems {
		ctx.LowStockItems = append(ctx.LowStockItems, LowStockItem{
			Name:     item.Name,
			Quantity: clampInt(item.Quantity),
			Status:   item.Status,
		})
	}
	return ctx
}

func (s *Summary) empty() bool {
	return s.TotalProducts == nil && s.TotalItems == nil && s.TotalValue == nil &&
		s.LowStockCount == nil && len(s.Categories) == 0
}

func clampInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	if n < 0 {
		n = 0
	}
	return &n
}

func clampFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return &f
}
