/*
Package dataset provides the context loader for the insight engine.

PURPOSE:
  Turns four raw operational record sets (sales, marketing, inventory, unit
  economics) into one immutable AnalysisContext that every aggregation and
  interpretation primitive consumes. Loading is the only I/O in the engine
  and happens once, eagerly, per analysis session.

KEY CONCEPTS IN THIS FILE (records.go):
  - The four typed record sets and their required columns
  - Derived records: EnrichedSale (sale + unit cost) and DailyTotal

INVARIANTS:
  - A missing required column is a load-time SchemaError, never a runtime nil.
  - Dates are parsed to metric.Day exactly once, here.
  - A sale whose product has no unit-economics row keeps CostKnown=false;
    its cost is unknown, never coerced to zero (zero would fabricate profit).

SEE ALSO:
  - source.go: raw table access (CSV, SQLite)
  - loader.go: validation + context construction
  - context.go: the AnalysisContext bundle
*/
package dataset

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// RECORD SET NAMES AND REQUIRED COLUMNS
// =============================================================================

const (
	SetSales         = "sales"
	SetMarketing     = "marketing"
	SetInventory     = "inventory"
	SetUnitEconomics = "unit_economics"
)

// RequiredColumns is the schema contract per record set. Extra columns are
// ignored; a missing one aborts the load.
var RequiredColumns = map[string][]string{
	SetSales:         {"date", "product", "region", "channel", "units_sold", "revenue", "CAC"},
	SetMarketing:     {"date", "channel", "spend", "impressions", "clicks", "conversions", "revenue"},
	SetInventory:     {"date", "product", "opening_stock", "units_produced", "units_dispatched", "closing_stock", "lost_demand", "stockout_flag"},
	SetUnitEconomics: {"product", "selling_price", "cogs", "packaging_cost", "logistics_cost"},
}

// =============================================================================
// SOURCE RECORDS
// =============================================================================

// SaleRecord is one sales row. (date, product, region, channel) is not a
// unique key - multiple rows per combination are expected.
type SaleRecord struct {
	Date    metric.Day
	Product string
	Region  string
	Channel string
	Units   int64
	Revenue decimal.Decimal
	CAC     decimal.Decimal
}

// MarketingRecord is one (date, channel) marketing row.
type MarketingRecord struct {
	Date        metric.Day
	Channel     string
	Spend       decimal.Decimal
	Impressions int64
	Clicks      int64
	Conversions int64
	Revenue     decimal.Decimal
}

// InventoryRecord is one (date, product) inventory row. StockoutFlag is kept
// raw here; interpreters normalize it case-insensitively against
// {"yes","true","1"}.
type InventoryRecord struct {
	Date            metric.Day
	Product         string
	OpeningStock    int64
	UnitsProduced   int64
	UnitsDispatched int64
	ClosingStock    int64
	LostDemand      int64
	StockoutFlag    string
}

// IsStockout normalizes the flag to a boolean.
func (r InventoryRecord) IsStockout() bool {
	switch strings.ToLower(strings.TrimSpace(r.StockoutFlag)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// UnitEconomicsRecord is the static per-product cost sheet (one row per
// product).
type UnitEconomicsRecord struct {
	Product       string
	SellingPrice  decimal.Decimal
	COGS          decimal.Decimal
	PackagingCost decimal.Decimal
	LogisticsCost decimal.Decimal
}

// UnitCost is cogs + packaging + logistics, computed once per product.
func (r UnitEconomicsRecord) UnitCost() decimal.Decimal {
	return r.COGS.Add(r.PackagingCost).Add(r.LogisticsCost)
}

// =============================================================================
// DERIVED RECORDS
// =============================================================================

// EnrichedSale is a sale left-joined with its product's unit cost.
// CostKnown=false marks products with no unit-economics row; downstream
// profit figures built on such sales are "unknown", never zero.
type EnrichedSale struct {
	SaleRecord
	UnitCost  decimal.Decimal
	CostKnown bool
}

// DailyTotal is one row of the daily revenue/units rollup - the basis of the
// executive pulse.
type DailyTotal struct {
	Date    metric.Day
	Revenue decimal.Decimal
	Units   int64
}
