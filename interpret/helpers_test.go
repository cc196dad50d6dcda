package interpret_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/interpret"
)

// =============================================================================
// SHARED TEST SETUP
// =============================================================================

// buildContext loads a context from raw rows; unspecified record sets are
// valid empty tables.
func buildContext(t *testing.T, rows map[string][][]string) *dataset.Context {
	t.Helper()
	src := dataset.MemorySource{}
	for _, set := range []string{dataset.SetSales, dataset.SetMarketing, dataset.SetInventory, dataset.SetUnitEconomics} {
		src[set] = dataset.Table{Columns: dataset.RequiredColumns[set], Rows: rows[set]}
	}
	ctx, err := dataset.Load(src)
	require.NoError(t, err)
	return ctx
}

func sale(date, product, channel string, units int, revenue string) []string {
	return []string{date, product, "North", channel, fmt.Sprint(units), revenue, "0"}
}

func mkt(date, channel, spend, revenue string) []string {
	return []string{date, channel, spend, "0", "0", "0", revenue}
}

func mktConv(date, channel, spend string, conversions int, revenue string) []string {
	return []string{date, channel, spend, "0", "0", fmt.Sprint(conversions), revenue}
}

func inv(date, product, closing string, lost int, stockout string) []string {
	return []string{date, product, "0", "0", "0", closing, fmt.Sprint(lost), stockout}
}

func econ(product, unitCost string) []string {
	return []string{product, "0", unitCost, "0", "0"}
}

func flagTypes(flags []interpret.Flag) []interpret.FlagType {
	types := make([]interpret.FlagType, len(flags))
	for i, f := range flags {
		types[i] = f.Type
	}
	return types
}

func findFlag(t *testing.T, flags []interpret.Flag, ft interpret.FlagType) interpret.Flag {
	t.Helper()
	for _, f := range flags {
		if f.Type == ft {
			return f
		}
	}
	t.Fatalf("flag %s not present in %v", ft, flagTypes(flags))
	return interpret.Flag{}
}

func hasFlag(flags []interpret.Flag, ft interpret.FlagType) bool {
	for _, f := range flags {
		if f.Type == ft {
			return true
		}
	}
	return false
}
