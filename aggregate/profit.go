package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// PROFIT TABLES - Unit-cost joins
// =============================================================================
// Profit is revenue minus sum(unit_cost x units_sold). A product whose unit
// cost is unknown (no unit-economics row) has CostKnown=false: its profit and
// margin stay unknown rather than being fabricated from a zero cost.
// =============================================================================

// ProductProfit is one row of the product profit table (marketing spend
// excluded - that is the channel table's job).
type ProductProfit struct {
	Product   string
	Revenue   decimal.Decimal
	Units     int64
	Cost      decimal.Decimal
	CostKnown bool
	Profit    decimal.Decimal // meaningful only when CostKnown
	Margin    metric.Ratio    // profit/revenue*100; undefined when revenue=0 or !CostKnown
}

// ProfitByProduct computes revenue, cost, profit, and margin per product in
// first-seen order.
func ProfitByProduct(ctx *dataset.Context) []ProductProfit {
	var order []string
	byProduct := make(map[string]*ProductProfit)

	for _, s := range ctx.Enriched {
		p, ok := byProduct[s.Product]
		if !ok {
			p = &ProductProfit{Product: s.Product, CostKnown: true}
			byProduct[s.Product] = p
			order = append(order, s.Product)
		}
		p.Revenue = p.Revenue.Add(s.Revenue)
		p.Units += s.Units
		if s.CostKnown {
			p.Cost = p.Cost.Add(s.UnitCost.Mul(decimal.NewFromInt(s.Units)))
		} else {
			p.CostKnown = false
		}
	}

	rows := make([]ProductProfit, len(order))
	for i, name := range order {
		p := byProduct[name]
		if p.CostKnown {
			p.Profit = p.Revenue.Sub(p.Cost)
			p.Margin = metric.Percent(p.Profit, p.Revenue)
		} else {
			p.Margin = metric.UndefinedRatio()
		}
		rows[i] = *p
	}
	return rows
}

// LossMakingProducts filters ProfitByProduct to known-loss products, sorted
// by revenue descending (high-revenue losers first).
func LossMakingProducts(ctx *dataset.Context) []ProductProfit {
	var losses []ProductProfit
	for _, p := range ProfitByProduct(ctx) {
		if p.CostKnown && p.Profit.IsNegative() {
			losses = append(losses, p)
		}
	}
	sort.SliceStable(losses, func(i, j int) bool {
		return losses[i].Revenue.GreaterThan(losses[j].Revenue)
	})
	return losses
}

// ChannelProfit is one row of the true-profit-by-channel table: sales
// revenue minus product cost minus attributable marketing spend.
type ChannelProfit struct {
	Channel     string
	Revenue     decimal.Decimal
	Units       int64
	ProductCost decimal.Decimal
	CostKnown   bool
	Spend       decimal.Decimal // zero when the channel has no marketing rows
	NetProfit   decimal.Decimal // meaningful only when CostKnown
	Margin      metric.Ratio    // net_profit/revenue*100
}

// TrueProfitByChannel joins the sales-side rollup with marketing spend per
// channel. Channels come from the sales side in first-seen order; a channel
// absent from the marketing table gets zero spend (no spend is a real zero,
// unlike an unknown unit cost).
func TrueProfitByChannel(ctx *dataset.Context) []ChannelProfit {
	spend := make(map[string]decimal.Decimal)
	for _, m := range ctx.Marketing {
		spend[m.Channel] = spend[m.Channel].Add(m.Spend)
	}

	var order []string
	byChannel := make(map[string]*ChannelProfit)
	for _, s := range ctx.Enriched {
		c, ok := byChannel[s.Channel]
		if !ok {
			c = &ChannelProfit{Channel: s.Channel, CostKnown: true}
			byChannel[s.Channel] = c
			order = append(order, s.Channel)
		}
		c.Revenue = c.Revenue.Add(s.Revenue)
		c.Units += s.Units
		if s.CostKnown {
			c.ProductCost = c.ProductCost.Add(s.UnitCost.Mul(decimal.NewFromInt(s.Units)))
		} else {
			c.CostKnown = false
		}
	}

	rows := make([]ChannelProfit, len(order))
	for i, name := range order {
		c := byChannel[name]
		c.Spend = spend[name]
		if c.CostKnown {
			c.NetProfit = c.Revenue.Sub(c.ProductCost).Sub(c.Spend)
			c.Margin = metric.Percent(c.NetProfit, c.Revenue)
		} else {
			c.Margin = metric.UndefinedRatio()
		}
		rows[i] = *c
	}
	return rows
}

// RegionProfit is one row of the net-profit-by-region table (marketing spend
// is not region-attributable, so it is excluded).
type RegionProfit struct {
	Region    string
	Revenue   decimal.Decimal
	Units     int64
	Cost      decimal.Decimal
	CostKnown bool
	NetProfit decimal.Decimal
	Margin    metric.Ratio
}

// TrueProfitByRegion computes revenue minus product cost per region.
func TrueProfitByRegion(ctx *dataset.Context) []RegionProfit {
	var order []string
	byRegion := make(map[string]*RegionProfit)
	for _, s := range ctx.Enriched {
		r, ok := byRegion[s.Region]
		if !ok {
			r = &RegionProfit{Region: s.Region, CostKnown: true}
			byRegion[s.Region] = r
			order = append(order, s.Region)
		}
		r.Revenue = r.Revenue.Add(s.Revenue)
		r.Units += s.Units
		if s.CostKnown {
			r.Cost = r.Cost.Add(s.UnitCost.Mul(decimal.NewFromInt(s.Units)))
		} else {
			r.CostKnown = false
		}
	}

	rows := make([]RegionProfit, len(order))
	for i, name := range order {
		r := byRegion[name]
		if r.CostKnown {
			r.NetProfit = r.Revenue.Sub(r.Cost)
			r.Margin = metric.Percent(r.NetProfit, r.Revenue)
		} else {
			r.Margin = metric.UndefinedRatio()
		}
		rows[i] = *r
	}
	return rows
}

// CostComponents echoes the static unit-economics table with the derived
// unit cost per product.
type CostComponents struct {
	Product       string
	SellingPrice  decimal.Decimal
	COGS          decimal.Decimal
	PackagingCost decimal.Decimal
	LogisticsCost decimal.Decimal
	UnitCost      decimal.Decimal
}

// CostComponentsByProduct lists the cost sheet in table order.
func CostComponentsByProduct(ctx *dataset.Context) []CostComponents {
	rows := make([]CostComponents, len(ctx.UnitEconomics))
	for i, e := range ctx.UnitEconomics {
		rows[i] = CostComponents{
			Product:       e.Product,
			SellingPrice:  e.SellingPrice,
			COGS:          e.COGS,
			PackagingCost: e.PackagingCost,
			LogisticsCost: e.LogisticsCost,
			UnitCost:      e.UnitCost(),
		}
	}
	return rows
}
