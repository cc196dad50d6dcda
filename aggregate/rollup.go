/*
Package aggregate provides the pure aggregation primitives of the insight
engine.

PURPOSE:
  Grouping and summation over the AnalysisContext - no thresholds, no
  judgments. Each function groups by exactly one dimension (product, region,
  channel, or month) and sums revenue and, where relevant, units and cost.
  Interpretation primitives build on these tables; they never re-aggregate
  raw rows themselves.

ORDERING:
  Group rows keep first-seen (original data) order, so repeated invocations
  on an unchanged context are byte-identical. Top-N primitives sort by
  revenue descending with ties broken by that stable original order.
  Month rollups sort chronologically.

SEE ALSO:
  - profit.go: profit/margin tables (unit-cost joins)
  - pulse.go: windowed recent-performance primitive
*/
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// BY-DIMENSION REVENUE ROLLUPS
// =============================================================================

// Row is one by-dimension rollup row.
type Row struct {
	Key     string
	Revenue decimal.Decimal
	Units   int64
}

// grouper accumulates revenue/units per key in first-seen order.
type grouper struct {
	order []string
	byKey map[string]*Row
}

func newGrouper() *grouper {
	return &grouper{byKey: make(map[string]*Row)}
}

func (g *grouper) add(key string, revenue decimal.Decimal, units int64) {
	r, ok := g.byKey[key]
	if !ok {
		r = &Row{Key: key}
		g.byKey[key] = r
		g.order = append(g.order, key)
	}
	r.Revenue = r.Revenue.Add(revenue)
	r.Units += units
}

func (g *grouper) rows() []Row {
	rows := make([]Row, len(g.order))
	for i, key := range g.order {
		rows[i] = *g.byKey[key]
	}
	return rows
}

func salesBy(ctx *dataset.Context, key func(dataset.SaleRecord) string) []Row {
	g := newGrouper()
	for _, s := range ctx.Sales {
		g.add(key(s), s.Revenue, s.Units)
	}
	return g.rows()
}

// SalesByProduct sums revenue/units per product.
func SalesByProduct(ctx *dataset.Context) []Row {
	return salesBy(ctx, func(s dataset.SaleRecord) string { return s.Product })
}

// SalesByRegion sums revenue/units per region.
func SalesByRegion(ctx *dataset.Context) []Row {
	return salesBy(ctx, func(s dataset.SaleRecord) string { return s.Region })
}

// SalesByChannel sums revenue/units per channel.
func SalesByChannel(ctx *dataset.Context) []Row {
	return salesBy(ctx, func(s dataset.SaleRecord) string { return s.Channel })
}

// RevenueByMonth sums revenue per YYYY-MM month, chronologically.
func RevenueByMonth(ctx *dataset.Context) []Row {
	rows := salesBy(ctx, func(s dataset.SaleRecord) string { return s.Date.MonthKey() })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// topN sorts by revenue descending (stable, so ties keep original order) and
// truncates.
func topN(rows []Row, n int) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue.GreaterThan(rows[j].Revenue)
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// TopProducts returns the n highest-revenue products.
func TopProducts(ctx *dataset.Context, n int) []Row {
	return topN(SalesByProduct(ctx), n)
}

// TopRegions returns the n highest-revenue regions.
func TopRegions(ctx *dataset.Context, n int) []Row {
	return topN(SalesByRegion(ctx), n)
}

// =============================================================================
// MARKETING ROLLUPS
// =============================================================================

// ChannelROAS is the mean daily ROAS for one channel. Days with zero spend
// contribute nothing; a channel with no spending days at all has an
// undefined mean.
type ChannelROAS struct {
	Channel string
	ROAS    metric.Ratio
}

// ROASByChannel averages per-row revenue/spend per channel over the whole
// marketing table.
func ROASByChannel(ctx *dataset.Context) []ChannelROAS {
	var order []string
	samples := make(map[string][]decimal.Decimal)
	for _, m := range ctx.Marketing {
		if _, seen := samples[m.Channel]; !seen {
			order = append(order, m.Channel)
			samples[m.Channel] = nil
		}
		if ratio := metric.Divide(m.Revenue, m.Spend); ratio.Defined() {
			samples[m.Channel] = append(samples[m.Channel], ratio.MustValue())
		}
	}

	out := make([]ChannelROAS, len(order))
	for i, ch := range order {
		out[i] = ChannelROAS{Channel: ch, ROAS: metric.Mean(samples[ch])}
	}
	return out
}

// SpendOverTime sums marketing spend per YYYY-MM month, chronologically.
func SpendOverTime(ctx *dataset.Context) []Row {
	g := newGrouper()
	for _, m := range ctx.Marketing {
		g.add(m.Date.MonthKey(), m.Spend, 0)
	}
	rows := g.rows()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// =============================================================================
// INVENTORY ROLLUPS
// =============================================================================

// ProductStockouts counts distinct stockout days per product over the whole
// inventory table.
type ProductStockouts struct {
	Product      string
	StockoutDays int
}

// StockoutsByProduct counts stockout days per product (products with none are
// omitted, matching the source tables' sparse shape).
func StockoutsByProduct(ctx *dataset.Context) []ProductStockouts {
	var order []string
	days := make(map[string]map[metric.Day]struct{})
	for _, r := range ctx.Inventory {
		if !r.IsStockout() {
			continue
		}
		if _, seen := days[r.Product]; !seen {
			order = append(order, r.Product)
			days[r.Product] = make(map[metric.Day]struct{})
		}
		days[r.Product][r.Date] = struct{}{}
	}

	out := make([]ProductStockouts, len(order))
	for i, p := range order {
		out[i] = ProductStockouts{Product: p, StockoutDays: len(days[p])}
	}
	return out
}

// ProductStockLevel is the average closing stock for one product.
type ProductStockLevel struct {
	Product         string
	AvgClosingStock metric.Ratio
}

// AvgClosingStock averages closing stock per product.
func AvgClosingStock(ctx *dataset.Context) []ProductStockLevel {
	var order []string
	samples := make(map[string][]decimal.Decimal)
	for _, r := range ctx.Inventory {
		if _, seen := samples[r.Product]; !seen {
			order = append(order, r.Product)
		}
		samples[r.Product] = append(samples[r.Product], decimal.NewFromInt(r.ClosingStock))
	}

	out := make([]ProductStockLevel, len(order))
	for i, p := range order {
		out[i] = ProductStockLevel{Product: p, AvgClosingStock: metric.Mean(samples[p])}
	}
	return out
}
