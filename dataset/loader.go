package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// LOADER - Source tables -> AnalysisContext
// =============================================================================

// Load builds an AnalysisContext from a Source, or fails. Any schema
// violation aborts the whole load: there is no partial context.
//
// Steps:
//  1. Fetch and validate all four tables (fail fast, before parsing).
//  2. Parse typed records; dates become metric.Day exactly once, here.
//  3. Derive unit costs, enriched sales, and the daily rollup.
func Load(src Source) (*Context, error) {
	tables := make(map[string]Table, len(RequiredColumns))
	for _, name := range []string{SetSales, SetMarketing, SetInventory, SetUnitEconomics} {
		t, err := src.Table(name)
		if err != nil {
			return nil, err
		}
		if err := validateColumns(name, t); err != nil {
			return nil, err
		}
		tables[name] = t
	}

	sales, err := parseSales(tables[SetSales])
	if err != nil {
		return nil, err
	}
	marketing, err := parseMarketing(tables[SetMarketing])
	if err != nil {
		return nil, err
	}
	inventory, err := parseInventory(tables[SetInventory])
	if err != nil {
		return nil, err
	}
	economics, err := parseUnitEconomics(tables[SetUnitEconomics])
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		SessionID:     uuid.NewString(),
		Sales:         sales,
		Marketing:     marketing,
		Inventory:     inventory,
		UnitEconomics: economics,
	}
	ctx.UnitCosts = unitCosts(economics)
	ctx.Enriched = enrich(sales, ctx.UnitCosts)
	ctx.Daily = dailyRollup(sales)
	return ctx, nil
}

// LoadDir is the common case: four CSV files in one directory.
func LoadDir(dir string) (*Context, error) {
	return Load(NewDirSource(dir))
}

func validateColumns(name string, t Table) error {
	var missing []string
	for _, col := range RequiredColumns[name] {
		if t.columnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &metric.SchemaError{RecordSet: name, Missing: missing}
	}
	return nil
}

// =============================================================================
// TYPED PARSING
// =============================================================================

// rowReader resolves cells by column name for one table. Blank numeric cells
// read as zero (absent measurements, not errors); malformed cells are
// structural errors naming the record set and row.
type rowReader struct {
	set  string
	idx  map[string]int
	row  []string
	line int
}

func (r *rowReader) cell(col string) string {
	i := r.idx[col]
	if i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r *rowReader) day(col string) (metric.Day, error) {
	d, err := metric.ParseDay(r.cell(col))
	if err != nil {
		return metric.Day{}, fmt.Errorf("%s row %d: bad %s %q: %w", r.set, r.line, col, r.cell(col), err)
	}
	return d, nil
}

func (r *rowReader) integer(col string) (int64, error) {
	s := r.cell(col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Generators sometimes emit integral floats ("12.0").
		d, derr := decimal.NewFromString(s)
		if derr == nil {
			return d.IntPart(), nil
		}
		return 0, fmt.Errorf("%s row %d: bad %s %q: %w", r.set, r.line, col, s, err)
	}
	return n, nil
}

func (r *rowReader) money(col string) (decimal.Decimal, error) {
	s := r.cell(col)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s row %d: bad %s %q: %w", r.set, r.line, col, s, err)
	}
	return d, nil
}

func readers(set string, t Table) []rowReader {
	idx := make(map[string]int, len(RequiredColumns[set]))
	for _, col := range RequiredColumns[set] {
		idx[col] = t.columnIndex(col)
	}
	out := make([]rowReader, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = rowReader{set: set, idx: idx, row: row, line: i + 2} // +2: header is line 1
	}
	return out
}

func parseSales(t Table) ([]SaleRecord, error) {
	records := make([]SaleRecord, 0, len(t.Rows))
	for _, r := range readers(SetSales, t) {
		date, err := r.day("date")
		if err != nil {
			return nil, err
		}
		units, err := r.integer("units_sold")
		if err != nil {
			return nil, err
		}
		revenue, err := r.money("revenue")
		if err != nil {
			return nil, err
		}
		cac, err := r.money("CAC")
		if err != nil {
			return nil, err
		}
		records = append(records, SaleRecord{
			Date:    date,
			Product: r.cell("product"),
			Region:  r.cell("region"),
			Channel: r.cell("channel"),
			Units:   units,
			Revenue: revenue,
			CAC:     cac,
		})
	}
	return records, nil
}

func parseMarketing(t Table) ([]MarketingRecord, error) {
	records := make([]MarketingRecord, 0, len(t.Rows))
	for _, r := range readers(SetMarketing, t) {
		date, err := r.day("date")
		if err != nil {
			return nil, err
		}
		spend, err := r.money("spend")
		if err != nil {
			return nil, err
		}
		impressions, err := r.integer("impressions")
		if err != nil {
			return nil, err
		}
		clicks, err := r.integer("clicks")
		if err != nil {
			return nil, err
		}
		conversions, err := r.integer("conversions")
		if err != nil {
			return nil, err
		}
		revenue, err := r.money("revenue")
		if err != nil {
			return nil, err
		}
		records = append(records, MarketingRecord{
			Date:        date,
			Channel:     r.cell("channel"),
			Spend:       spend,
			Impressions: impressions,
			Clicks:      clicks,
			Conversions: conversions,
			Revenue:     revenue,
		})
	}
	return records, nil
}

func parseInventory(t Table) ([]InventoryRecord, error) {
	records := make([]InventoryRecord, 0, len(t.Rows))
	for _, r := range readers(SetInventory, t) {
		date, err := r.day("date")
		if err != nil {
			return nil, err
		}
		opening, err := r.integer("opening_stock")
		if err != nil {
			return nil, err
		}
		produced, err := r.integer("units_produced")
		if err != nil {
			return nil, err
		}
		dispatched, err := r.integer("units_dispatched")
		if err != nil {
			return nil, err
		}
		closing, err := r.integer("closing_stock")
		if err != nil {
			return nil, err
		}
		lost, err := r.integer("lost_demand")
		if err != nil {
			return nil, err
		}
		records = append(records, InventoryRecord{
			Date:            date,
			Product:         r.cell("product"),
			OpeningStock:    opening,
			UnitsProduced:   produced,
			UnitsDispatched: dispatched,
			ClosingStock:    closing,
			LostDemand:      lost,
			StockoutFlag:    r.cell("stockout_flag"),
		})
	}
	return records, nil
}

func parseUnitEconomics(t Table) ([]UnitEconomicsRecord, error) {
	records := make([]UnitEconomicsRecord, 0, len(t.Rows))
	for _, r := range readers(SetUnitEconomics, t) {
		selling, err := r.money("selling_price")
		if err != nil {
			return nil, err
		}
		cogs, err := r.money("cogs")
		if err != nil {
			return nil, err
		}
		packaging, err := r.money("packaging_cost")
		if err != nil {
			return nil, err
		}
		logistics, err := r.money("logistics_cost")
		if err != nil {
			return nil, err
		}
		records = append(records, UnitEconomicsRecord{
			Product:       r.cell("product"),
			SellingPrice:  selling,
			COGS:          cogs,
			PackagingCost: packaging,
			LogisticsCost: logistics,
		})
	}
	return records, nil
}

// =============================================================================
// DERIVATION
// =============================================================================

func unitCosts(economics []UnitEconomicsRecord) map[string]decimal.Decimal {
	costs := make(map[string]decimal.Decimal, len(economics))
	for _, e := range economics {
		costs[e.Product] = e.UnitCost()
	}
	return costs
}

func enrich(sales []SaleRecord, costs map[string]decimal.Decimal) []EnrichedSale {
	enriched := make([]EnrichedSale, len(sales))
	for i, s := range sales {
		cost, known := costs[s.Product]
		enriched[i] = EnrichedSale{SaleRecord: s, UnitCost: cost, CostKnown: known}
	}
	return enriched
}

func dailyRollup(sales []SaleRecord) []DailyTotal {
	byDay := make(map[metric.Day]*DailyTotal)
	for _, s := range sales {
		t, ok := byDay[s.Date]
		if !ok {
			t = &DailyTotal{Date: s.Date}
			byDay[s.Date] = t
		}
		t.Revenue = t.Revenue.Add(s.Revenue)
		t.Units += s.Units
	}

	daily := make([]DailyTotal, 0, len(byDay))
	for _, t := range byDay {
		daily = append(daily, *t)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })
	return daily
}
