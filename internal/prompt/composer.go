package prompt

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/finxan/ai-service/internal/inventory"
)

// Section caps for the ranked lists.
const (
	MaxTopProducts   = 10
	MaxLowStockItems = 10
)

// Persona opens every composed prompt. It must stay free of digits so a
// prompt composed without inventory data carries no numeric figures at all.
const Persona = `You are an intelligent AI assistant for Finxan AI, an inventory management platform.

Your job is to answer questions about the user's inventory using the actual data provided below.

CRITICAL RULES:
- Only use figures that appear in the inventory data below. Never invent, estimate or round numbers.
- If the data does not contain the answer, say so plainly instead of guessing.
- Answer directly and only ask a follow-up question when it is truly necessary.
- Keep responses concise, friendly and professional.

FORMATTING RULES:
- Format counts with thousands separators.
- Format currency with a dollar sign and two decimal places.
- Use bullet points for lists.
- Use **bold** to highlight important figures and warnings.
- When listing categories or products, use the names exactly as they appear in the data.`

// NoDataNotice is appended when the request carried no usable inventory data.
const NoDataNotice = `NOTE: No inventory data is currently available.
Tell the user that you cannot see any inventory yet and that they need to upload an inventory file or connect a Google Sheet before you can answer questions about their stock.`

const emptyDataNotice = `The inventory data supplied with this request contains no details.`

const closing = `Use this data to answer the user's questions accurately and helpfully.`

// Compose renders the system prompt for a normalized context. The output is a
// pure function of its input.
func Compose(ctx inventory.Context) string {
	var b strings.Builder
	b.WriteString(Persona)
	b.WriteString("\n\n")

	if !ctx.HasData {
		b.WriteString(NoDataNotice)
		return b.String()
	}

	b.WriteString("CURRENT INVENTORY DATA:\n")
	if ctx.Empty() {
		b.WriteString(emptyDataNotice)
		return b.String()
	}

	if ctx.Overview != "" {
		section(&b, "INVENTORY OVERVIEW")
		b.WriteString(ctx.Overview)
		b.WriteString("\n")
	}
	if ctx.Summary != nil {
		writeSummary(&b, ctx.Summary)
	}
	if ctx.StockStatus != nil {
		writeStockStatus(&b, ctx.StockStatus)
	}
	if len(ctx.Categories) > 0 {
		writeCategories(&b, ctx.Categories)
	}
	if len(ctx.TopProducts) > 0 {
		writeTopProducts(&b, ctx.TopProducts)
	}
	if len(ctx.LowStockItems) > 0 {
		writeLowStock(&b, ctx.LowStockItems)
	}

	b.WriteString("\n")
	b.WriteString(closing)
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s:\n", title)
}

func writeSummary(b *strings.Builder, s *inventory.Summary) {
	section(b, "SUMMARY")
	if s.TotalProducts != nil {
		fmt.Fprintf(b, "- Total Products: %s\n", Count(*s.TotalProducts))
	}
	if s.TotalItems != nil {
		fmt.Fprintf(b, "- Total Items: %s\n", Count(*s.TotalItems))
	}
	if s.TotalValue != nil {
		fmt.Fprintf(b, "- Total Value: %s\n", Currency(*s.TotalValue))
	}
	if s.LowStockCount != nil {
		fmt.Fprintf(b, "- Low Stock Items: %s\n", Count(*s.LowStockCount))
	}
	if len(s.Categories) > 0 {
		fmt.Fprintf(b, "- Categories: %s\n", strings.Join(s.Categories, ", "))
	}
}

func writeStockStatus(b *strings.Builder, st *inventory.StockStatus) {
	section(b, "STOCK STATUS")
	if st.InStock != nil {
		fmt.Fprintf(b, "- In Stock: %s products\n", Count(*st.InStock))
	}
	if st.LowStock != nil {
		fmt.Fprintf(b, "- Low Stock: %s products\n", Count(*st.LowStock))
	}
	if st.OutOfStock != nil {
		fmt.Fprintf(b, "- Out of Stock: %s products\n", Count(*st.OutOfStock))
	}
}

func writeCategories(b *strings.Builder, cats []inventory.CategoryStat) {
	section(b, "CATEGORY BREAKDOWN")
	for _, c := range cats {
		var parts []string
		if c.ItemCount != nil {
			parts = append(parts, Count(*c.ItemCount)+" products")
		}
		if c.Quantity != nil {
			parts = append(parts, Count(*c.Quantity)+" units")
		}
		if c.Value != nil {
			parts = append(parts, Currency(*c.Value)+" value")
		}
		line(b, "- "+c.Name, parts)
	}
}

func writeTopProducts(b *strings.Builder, products []inventory.Product) {
	section(b, "TOP PRODUCTS BY VALUE")
	if len(products) > MaxTopProducts {
		products = products[:MaxTopProducts]
	}
	for i, p := range products {
		var parts []string
		if p.Value != nil {
			parts = append(parts, "value "+Currency(*p.Value))
		}
		if p.Quantity != nil {
			parts = append(parts, "quantity "+Count(*p.Quantity))
		}
		if p.Price != nil {
			parts = append(parts, "unit price "+Currency(*p.Price))
		}
		line(b, fmt.Sprintf("%d. %s", i+1, p.Name), parts)
	}
}

func writeLowStock(b *strings.Builder, items []inventory.LowStockItem) {
	section(b, "LOW STOCK ALERTS")
	if len(items) > MaxLowStockItems {
		items = items[:MaxLowStockItems]
	}
	for _, item := range items {
		var parts []string
		if item.Quantity != nil {
			parts = append(parts, Count(*item.Quantity)+" remaining")
		}
		if item.Status != "" {
			parts = append(parts, "status "+item.Status)
		}
		line(b, "- "+item.Name, parts)
	}
}

func line(b *strings.Builder, head string, parts []string) {
	b.WriteString(head)
	if len(parts) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// Count formats a count with thousands grouping, e.g. 1,340.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Currency formats an amount with a dollar sign and two decimals, e.g. $26,344.50.
// The integer part is grouped as a big.Int so amounts beyond the int64 range
// keep their digits.
func Currency(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return "$" + s
	}
	return "$" + humanize.BigComma(n) + "." + frac
}
