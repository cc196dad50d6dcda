package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// ANALYSIS CONTEXT - The immutable bundle every primitive consumes
// =============================================================================

// Context bundles the four typed record sets plus the derived tables. It is
// built once per analysis session and treated as read-only afterwards: no
// primitive mutates it, and there is no write path back to storage.
type Context struct {
	// SessionID identifies this analysis session (new on every rebuild).
	SessionID string

	Sales         []SaleRecord
	Marketing     []MarketingRecord
	Inventory     []InventoryRecord
	UnitEconomics []UnitEconomicsRecord

	// UnitCosts is cogs+packaging+logistics per product, computed once.
	UnitCosts map[string]decimal.Decimal

	// Enriched is Sales left-joined with UnitCosts.
	Enriched []EnrichedSale

	// Daily is revenue/units summed per date over all dimensions, sorted by
	// date ascending.
	Daily []DailyTotal
}

// LatestDay is the most recent date in the daily rollup ("today" for all
// windowed primitives). ok=false when there are no sales at all.
func (c *Context) LatestDay() (metric.Day, bool) {
	if len(c.Daily) == 0 {
		return metric.Day{}, false
	}
	return c.Daily[len(c.Daily)-1].Date, true
}

// DailyInWindow returns the daily rollup rows inside w, preserving date order.
func (c *Context) DailyInWindow(w metric.Window) []DailyTotal {
	var out []DailyTotal
	for _, d := range c.Daily {
		if w.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out
}

// MarketingInWindow returns marketing rows inside w in original order.
func (c *Context) MarketingInWindow(w metric.Window) []MarketingRecord {
	var out []MarketingRecord
	for _, m := range c.Marketing {
		if w.Contains(m.Date) {
			out = append(out, m)
		}
	}
	return out
}

// EnrichedInWindow returns enriched sales inside w in original order.
func (c *Context) EnrichedInWindow(w metric.Window) []EnrichedSale {
	var out []EnrichedSale
	for _, s := range c.Enriched {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// SalesInWindow returns sales rows inside w in original order.
func (c *Context) SalesInWindow(w metric.Window) []SaleRecord {
	var out []SaleRecord
	for _, s := range c.Sales {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// InventoryInWindow returns inventory rows inside w in original order.
func (c *Context) InventoryInWindow(w metric.Window) []InventoryRecord {
	var out []InventoryRecord
	for _, r := range c.Inventory {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
