package interpret_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/interpret"
)

// =============================================================================
// CHANNEL DEPENDENCY RISK
// =============================================================================

// dependentContext: Online carries 80% of revenue and all of the profit;
// Retail loses money on every sale.
//   Online: revenue 800, cost 400, spend 100 -> profit  300 (margin 37.5%)
//   Retail: revenue 200, cost 100, spend 150 -> profit  -50 (margin -25%)
func dependentContext(t *testing.T) *dataset.Context {
	t.Helper()
	return buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-30", "Widget", "Online", 4, "800"),
			sale("2025-06-30", "Gadget", "Retail", 2, "200"),
		},
		dataset.SetMarketing: {
			mkt("2025-06-20", "Online", "100", "300"),
			mkt("2025-06-20", "Retail", "150", "200"),
		},
		dataset.SetUnitEconomics: {
			econ("Widget", "100"),
			econ("Gadget", "50"),
		},
	})
}

func TestChannelRisk_Shares(t *testing.T) {
	report := interpret.ChannelRisk(dependentContext(t), interpret.DefaultChannelThresholds())

	require.Len(t, report.Channels, 2)
	online := report.Channels[0]
	assert.Equal(t, "Online", online.Channel)
	require.True(t, online.RevenueSharePct.Defined())
	assert.True(t, online.RevenueSharePct.MustValue().Equal(decimal.NewFromInt(80)))
	require.True(t, online.ProfitSharePct.Defined())
	assert.True(t, online.ProfitSharePct.MustValue().Equal(decimal.NewFromInt(120)))
}

func TestChannelRisk_AllFourFlagsInOrder(t *testing.T) {
	// GIVEN: One dominant profitable channel and one value-destroying one
	// WHEN: Evaluating dependency risk
	// THEN: Concentration, profit concentration, ROAS illusion, and
	//       single-channel flags fire, in that fixed order

	report := interpret.ChannelRisk(dependentContext(t), interpret.DefaultChannelThresholds())

	require.Len(t, report.Flags, 4)
	assert.Equal(t, interpret.FlagChannelConcentration, report.Flags[0].Type)
	assert.Equal(t, "Online", report.Flags[0].Channel)
	assert.Equal(t, interpret.FlagProfitConcentration, report.Flags[1].Type)
	assert.Equal(t, "Online", report.Flags[1].Channel)
	assert.Equal(t, interpret.FlagROASIllusion, report.Flags[2].Type)
	assert.Equal(t, "Retail", report.Flags[2].Channel)
	assert.Equal(t, interpret.FlagSingleChannel, report.Flags[3].Type)
	assert.Equal(t, []string{"Online"}, report.Flags[3].Channels)
}

func TestChannelRisk_NonPositiveTotalProfitZeroesShares(t *testing.T) {
	// GIVEN: Every costed channel loses money (total profit negative) and
	//        one channel has no cost sheet at all
	// WHEN: Computing profit shares
	// THEN: Every share is a defined zero, the unknown-cost channel
	//       included - a share of a negative total is never reported

	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-30", "Widget", "Online", 1, "100"),
			sale("2025-06-30", "Gadget", "Retail", 1, "100"),
			sale("2025-06-30", "Mystery", "Direct", 1, "100"),
		},
		dataset.SetUnitEconomics: {
			econ("Widget", "150"),
			econ("Gadget", "120"),
		},
	})

	report := interpret.ChannelRisk(ctx, interpret.DefaultChannelThresholds())

	require.Len(t, report.Channels, 3)
	for _, c := range report.Channels {
		require.True(t, c.ProfitSharePct.Defined())
		assert.True(t, c.ProfitSharePct.MustValue().IsZero())
	}
	assert.False(t, hasFlag(report.Flags, interpret.FlagProfitConcentration))

	// No channel clears the healthy bar.
	single := findFlag(t, report.Flags, interpret.FlagSingleChannel)
	assert.Empty(t, single.Channels)
}

func TestChannelRisk_UnknownCostChannelShareUndefined(t *testing.T) {
	// A channel whose cost is unknown gets an undefined profit share while
	// the known channels still split the positive total.

	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-30", "Widget", "Online", 1, "500"),
			sale("2025-06-30", "Mystery", "Retail", 1, "500"),
		},
		dataset.SetUnitEconomics: {
			econ("Widget", "100"),
		},
	})

	report := interpret.ChannelRisk(ctx, interpret.DefaultChannelThresholds())

	byName := make(map[string]interpret.ChannelRiskEntry)
	for _, c := range report.Channels {
		byName[c.Channel] = c
	}
	assert.True(t, byName["Online"].ProfitSharePct.Defined())
	assert.False(t, byName["Retail"].ProfitSharePct.Defined())
}

func TestChannelRisk_DiversifiedIsClean(t *testing.T) {
	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-30", "Widget", "Online", 1, "400"),
			sale("2025-06-30", "Widget", "Retail", 1, "350"),
			sale("2025-06-30", "Widget", "Wholesale", 1, "250"),
		},
		dataset.SetUnitEconomics: {
			econ("Widget", "100"),
		},
	})

	report := interpret.ChannelRisk(ctx, interpret.DefaultChannelThresholds())

	assert.Empty(t, report.Flags)
	require.Len(t, report.Interpretation, 1)
	assert.Contains(t, report.Interpretation[0], "No major channel dependency risks")
}

func TestChannelRisk_NoSalesData(t *testing.T) {
	report := interpret.ChannelRisk(buildContext(t, nil), interpret.DefaultChannelThresholds())

	require.Len(t, report.Flags, 1)
	assert.Equal(t, interpret.FlagNoSalesData, report.Flags[0].Type)
}
