package inventory

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// Keys that only appear in the rich shape. Both the snake_case and the
// camelCase spellings are accepted since the inventory backend sends the
// latter.
var richKeys = [][]string{
	{"category_breakdown"}, {"categoryBreakdown"},
	{"stock_status"}, {"stockStatus"},
	{"top_products"}, {"topProducts"},
	{"low_stock_items"}, {"lowStockItems"},
}

var flatKeys = [][]string{
	{"total_items"}, {"totalItems"},
	{"total_value"}, {"totalValue"},
	{"low_stock_count"}, {"lowStockCount"},
	{"categories"},
}

// Parse reads an inventory context document. It never fails: null, empty or
// malformed input yields VariantNone, and fields with the wrong type are
// treated as absent.
func Parse(data []byte) Raw {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Raw{}
	}
	if _, _, _, err := jsonparser.Get(data); err != nil {
		return Raw{}
	}

	summary, summaryType := lookup(data, "summary")
	switch {
	case summaryType == jsonparser.String:
		return Raw{Variant: VariantFlat, Flat: parseFlat(data)}
	case summaryType == jsonparser.Object:
		return Raw{Variant: VariantRich, Rich: parseRich(data, summary)}
	case hasAny(data, richKeys):
		return Raw{Variant: VariantRich, Rich: parseRich(data, nil)}
	case hasAny(data, flatKeys) || hasAny(data, [][]string{{"has_data"}, {"hasData"}}):
		return Raw{Variant: VariantFlat, Flat: parseFlat(data)}
	}
	return Raw{}
}

func parseFlat(data []byte) *FlatContext {
	return &FlatContext{
		HasData:       boolField(data, "has_data", "hasData"),
		Summary:       stringField(data, "summary"),
		TotalItems:    intField(data, "total_items", "totalItems"),
		TotalValue:    floatField(data, "total_value", "totalValue"),
		LowStockCount: intField(data, "low_stock_count", "lowStockCount"),
		Categories:    stringList(data, "categories"),
	}
}

func parseRich(data, summary []byte) *RichContext {
	rc := &RichContext{
		HasData: boolField(data, "has_data", "hasData"),
	}
	if summary != nil {
		rc.Summary = &RichSummary{
			TotalProducts: intField(summary, "total_products", "totalProducts"),
			TotalItems:    intField(summary, "total_items", "totalItems"),
			TotalValue:    floatField(summary, "total_value", "totalValue"),
			Categories:    stringList(summary, "categories"),
		}
	}

	if v, typ := lookup(data, "category_breakdown", "categoryBreakdown"); typ == jsonparser.Object {
		rc.CategoryBreakdown = parseCategories(v)
	}
	if v, typ := lookup(data, "stock_status", "stockStatus"); typ == jsonparser.Object {
		rc.StockStatus = &StockStatus{
			InStock:    intField(v, "in_stock", "inStock"),
			LowStock:   intField(v, "low_stock", "lowStock"),
			OutOfStock: intField(v, "out_of_stock", "outOfStock"),
		}
	}
	if v, typ := lookup(data, "top_products", "topProducts"); typ == jsonparser.Array {
		eachObject(v, func(obj []byte) {
			rc.TopProducts = append(rc.TopProducts, Product{
				Name:     stringField(obj, "name"),
				Value:    floatField(obj, "value"),
				Quantity: intField(obj, "quantity"),
				Price:    floatField(obj, "price"),
			})
		})
	}
	if v, typ := lookup(data, "low_stock_items", "lowStockItems"); typ == jsonparser.Array {
		eachObject(v, func(obj []byte) {
			rc.LowStockItems = append(rc.LowStockItems, LowStockItem{
				Name:     stringField(obj, "name"),
				Quantity: intField(obj, "quantity"),
				Status:   stringField(obj, "status"),
			})
		})
	}
	return rc
}

// parseCategories walks the breakdown object in document order, so the
// rendered breakdown keeps the client's category order.
func parseCategories(data []byte) []CategoryStat {
	var out []CategoryStat
	_ = jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		if typ != jsonparser.Object {
			return nil
		}
		name, err := jsonparser.ParseString(key)
		if err != nil {
			name = string(key)
		}
		out = append(out, CategoryStat{
			Name:      name,
			ItemCount: intField(value, "item_count", "itemCount", "items"),
			Quantity:  intField(value, "quantity"),
			Value:     floatField(value, "value"),
		})
		return nil
	})
	return out
}

func eachObject(data []byte, fn func(obj []byte)) {
	_, _ = jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil || typ != jsonparser.Object {
			return
		}
		fn(value)
	})
}

// lookup returns the first alias present in data.
func lookup(data []byte, aliases ...string) ([]byte, jsonparser.ValueType) {
	for _, key := range aliases {
		v, typ, _, err := jsonparser.Get(data, key)
		if err == nil && typ != jsonparser.NotExist && typ != jsonparser.Null {
			return v, typ
		}
	}
	return nil, jsonparser.NotExist
}

func hasAny(data []byte, paths [][]string) bool {
	for _, p := range paths {
		if _, typ := lookup(data, p...); typ != jsonparser.NotExist {
			return true
		}
	}
	return false
}

func boolField(data []byte, aliases ...string) bool {
	v, typ := lookup(data, aliases...)
	switch typ {
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(v)
		return err == nil && b
	case jsonparser.String:
		b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
		return err == nil && b
	}
	return false
}

func stringField(data []byte, aliases ...string) string {
	v, typ := lookup(data, aliases...)
	if typ != jsonparser.String {
		return ""
	}
	s, err := jsonparser.ParseString(v)
	if err != nil {
		return string(v)
	}
	return s
}

func floatField(data []byte, aliases ...string) *float64 {
	v, typ := lookup(data, aliases...)
	var f float64
	var err error
	switch typ {
	case jsonparser.Number:
		f, err = jsonparser.ParseFloat(v)
	case jsonparser.String:
		f, err = strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &f
}

// intField reads a count. Fractional counts are truncated toward zero,
// non-finite values read as 0 and counts too large for int64 are absent.
func intField(data []byte, aliases ...string) *int64 {
	f := floatField(data, aliases...)
	if f == nil {
		return nil
	}
	var n int64
	switch v := *f; {
	case math.IsNaN(v), math.IsInf(v, 0):
	case v >= math.MaxInt64:
		return nil
	case v <= math.MinInt64:
		n = math.MinInt64
	default:
		n = int64(v)
	}
	return &n
}

func stringList(data []byte, aliases ...string) []string {
	v, typ := lookup(data, aliases...)
	if typ != jsonparser.Array {
		return nil
	}
	var out []string
	_, _ = jsonparser.ArrayEach(v, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil || typ != jsonparser.String {
			return
		}
		s, perr := jsonparser.ParseString(value)
		if perr != nil {
			s = string(value)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	})
	return out
}
