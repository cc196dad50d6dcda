package dataset_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func table(set string, rows ...[]string) dataset.Table {
	return dataset.Table{Columns: dataset.RequiredColumns[set], Rows: rows}
}

// fullSource is a minimal consistent dataset: two products (one without a
// cost sheet row), two days of sales, one marketing row, one inventory row.
func fullSource() dataset.MemorySource {
	return dataset.MemorySource{
		dataset.SetSales: table(dataset.SetSales,
			[]string{"2025-06-02", "Widget", "North", "Online", "3", "300", "10"},
			[]string{"2025-06-01", "Widget", "North", "Online", "2", "200", "10"},
			[]string{"2025-06-01", "Gadget", "South", "Retail", "1", "50", "5"},
		),
		dataset.SetMarketing: table(dataset.SetMarketing,
			[]string{"2025-06-01", "Online", "120", "1000", "80", "8", "400"},
		),
		dataset.SetInventory: table(dataset.SetInventory,
			[]string{"2025-06-01", "Widget", "10", "5", "7", "8", "0", "No"},
		),
		dataset.SetUnitEconomics: table(dataset.SetUnitEconomics,
			[]string{"Widget", "100", "40", "5", "15"},
		),
	}
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_BuildsContext(t *testing.T) {
	ctx, err := dataset.Load(fullSource())
	require.NoError(t, err)

	assert.NotEmpty(t, ctx.SessionID)
	assert.Len(t, ctx.Sales, 3)
	assert.Len(t, ctx.Marketing, 1)
	assert.Len(t, ctx.Inventory, 1)
	assert.Len(t, ctx.UnitEconomics, 1)

	// Unit cost = cogs + packaging + logistics
	cost, ok := ctx.UnitCosts["Widget"]
	require.True(t, ok)
	assert.True(t, cost.Equal(decimal.NewFromInt(60)))
}

func TestLoad_UnknownUnitCostPropagates(t *testing.T) {
	// GIVEN: Gadget has sales but no unit-economics row
	// WHEN: Loading the context
	// THEN: Gadget's enriched sales carry CostKnown=false, not a zero cost

	ctx, err := dataset.Load(fullSource())
	require.NoError(t, err)

	byProduct := make(map[string]dataset.EnrichedSale)
	for _, e := range ctx.Enriched {
		byProduct[e.Product] = e
	}

	require.Contains(t, byProduct, "Widget")
	assert.True(t, byProduct["Widget"].CostKnown)
	assert.True(t, byProduct["Widget"].UnitCost.Equal(decimal.NewFromInt(60)))

	require.Contains(t, byProduct, "Gadget")
	assert.False(t, byProduct["Gadget"].CostKnown)
}

func TestLoad_DailyRollupSortedAndSummed(t *testing.T) {
	// Sales rows arrive out of date order; the rollup is sorted ascending
	// with same-day rows summed.

	ctx, err := dataset.Load(fullSource())
	require.NoError(t, err)

	require.Len(t, ctx.Daily, 2)
	assert.Equal(t, "2025-06-01", ctx.Daily[0].Date.String())
	assert.True(t, ctx.Daily[0].Revenue.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, int64(3), ctx.Daily[0].Units)
	assert.Equal(t, "2025-06-02", ctx.Daily[1].Date.String())
	assert.True(t, ctx.Daily[1].Revenue.Equal(decimal.NewFromInt(300)))

	latest, ok := ctx.LatestDay()
	require.True(t, ok)
	assert.Equal(t, "2025-06-02", latest.String())
}

func TestLoad_SessionIDsAreUnique(t *testing.T) {
	a, err := dataset.Load(fullSource())
	require.NoError(t, err)
	b, err := dataset.Load(fullSource())
	require.NoError(t, err)

	assert.NotEqual(t, a.SessionID, b.SessionID)
}

// =============================================================================
// SCHEMA VALIDATION
// =============================================================================

func TestLoad_MissingColumnIsSchemaError(t *testing.T) {
	// GIVEN: A sales table without the revenue and CAC columns
	// WHEN: Loading
	// THEN: The load aborts with a SchemaError naming the record set and
	//       every missing column

	src := fullSource()
	src[dataset.SetSales] = dataset.Table{
		Columns: []string{"date", "product", "region", "channel", "units_sold"},
	}

	_, err := dataset.Load(src)
	require.Error(t, err)
	assert.True(t, metric.IsFatal(err))

	var schemaErr *metric.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, dataset.SetSales, schemaErr.RecordSet)
	assert.Equal(t, []string{"revenue", "CAC"}, schemaErr.Missing)
}

func TestLoad_MissingTableIsSourceMissing(t *testing.T) {
	src := fullSource()
	delete(src, dataset.SetInventory)

	_, err := dataset.Load(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, metric.ErrSourceMissing)
}

func TestLoad_HeaderOnlyTablesAreValidEmpty(t *testing.T) {
	// A table with columns but zero rows is a valid empty record set,
	// distinct from a missing source.

	src := dataset.MemorySource{
		dataset.SetSales:         table(dataset.SetSales),
		dataset.SetMarketing:     table(dataset.SetMarketing),
		dataset.SetInventory:     table(dataset.SetInventory),
		dataset.SetUnitEconomics: table(dataset.SetUnitEconomics),
	}

	ctx, err := dataset.Load(src)
	require.NoError(t, err)
	assert.Empty(t, ctx.Sales)
	assert.Empty(t, ctx.Daily)

	_, ok := ctx.LatestDay()
	assert.False(t, ok)
}

// =============================================================================
// CELL PARSING
// =============================================================================

func TestLoad_BlankNumericCellsReadAsZero(t *testing.T) {
	src := fullSource()
	src[dataset.SetSales] = table(dataset.SetSales,
		[]string{"2025-06-01", "Widget", "North", "Online", "", "", ""},
	)

	ctx, err := dataset.Load(src)
	require.NoError(t, err)
	require.Len(t, ctx.Sales, 1)
	assert.Equal(t, int64(0), ctx.Sales[0].Units)
	assert.True(t, ctx.Sales[0].Revenue.IsZero())
}

func TestLoad_IntegralFloatUnitsAccepted(t *testing.T) {
	// Generators sometimes emit "12.0" for integer columns.
	src := fullSource()
	src[dataset.SetSales] = table(dataset.SetSales,
		[]string{"2025-06-01", "Widget", "North", "Online", "12.0", "100", "1"},
	)

	ctx, err := dataset.Load(src)
	require.NoError(t, err)
	require.Len(t, ctx.Sales, 1)
	assert.Equal(t, int64(12), ctx.Sales[0].Units)
}

func TestLoad_MalformedCellNamesSetAndRow(t *testing.T) {
	src := fullSource()
	src[dataset.SetMarketing] = table(dataset.SetMarketing,
		[]string{"2025-06-01", "Online", "abc", "0", "0", "0", "0"},
	)

	_, err := dataset.Load(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marketing row 2")
	assert.Contains(t, err.Error(), "spend")
}

func TestLoad_MalformedDateFails(t *testing.T) {
	src := fullSource()
	src[dataset.SetInventory] = table(dataset.SetInventory,
		[]string{"06/01/2025", "Widget", "1", "1", "1", "1", "0", "No"},
	)

	_, err := dataset.Load(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory row 2")
}

// =============================================================================
// STOCKOUT FLAG NORMALIZATION
// =============================================================================

func TestIsStockout_CaseInsensitive(t *testing.T) {
	for _, raw := range []string{"Yes", "YES", " true ", "1"} {
		r := dataset.InventoryRecord{StockoutFlag: raw}
		assert.True(t, r.IsStockout(), "flag %q should read as stockout", raw)
	}
	for _, raw := range []string{"", "No", "false", "0", "maybe"} {
		r := dataset.InventoryRecord{StockoutFlag: raw}
		assert.False(t, r.IsStockout(), "flag %q should not read as stockout", raw)
	}
}
