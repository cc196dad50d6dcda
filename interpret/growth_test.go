package interpret_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/interpret"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// GROWTH QUALITY DECISION TABLE
// =============================================================================

func risingPulse() *aggregate.Pulse {
	return &aggregate.Pulse{DeltaPct: metric.DefinedRatio(decimal.NewFromInt(25))}
}

func profitable(product string, revenue, profit int64) aggregate.ProductProfit {
	return aggregate.ProductProfit{
		Product:   product,
		Revenue:   decimal.NewFromInt(revenue),
		CostKnown: true,
		Profit:    decimal.NewFromInt(profit),
	}
}

func unknownCost(product string, revenue int64) aggregate.ProductProfit {
	return aggregate.ProductProfit{Product: product, Revenue: decimal.NewFromInt(revenue)}
}

func TestGrowthQuality_NilPulseIsNeutralLow(t *testing.T) {
	s := interpret.GrowthQuality(nil, []aggregate.ProductProfit{profitable("A", 100, 50)})
	assert.Equal(t, interpret.GradeNeutral, s.Signal)
	assert.Equal(t, interpret.ConfidenceLow, s.Confidence)
}

func TestGrowthQuality_NoKnownProfitIsNeutralLow(t *testing.T) {
	// Every product has an unknown unit cost: there is no profit evidence at
	// all, which is the same as having no profit table.

	s := interpret.GrowthQuality(risingPulse(), []aggregate.ProductProfit{
		unknownCost("A", 100),
		unknownCost("B", 200),
	})
	assert.Equal(t, interpret.GradeNeutral, s.Signal)
	assert.Equal(t, interpret.ConfidenceLow, s.Confidence)
}

func TestGrowthQuality_FlatRevenueIsNeutralMedium(t *testing.T) {
	pulse := &aggregate.Pulse{DeltaPct: metric.DefinedRatio(decimal.NewFromInt(-5))}

	s := interpret.GrowthQuality(pulse, []aggregate.ProductProfit{profitable("A", 100, 50)})
	assert.Equal(t, interpret.GradeNeutral, s.Signal)
	assert.Equal(t, interpret.ConfidenceMedium, s.Confidence)
	require.NotNil(t, s.Evidence.RevenueDeltaPct)
	assert.True(t, s.Evidence.RevenueDeltaPct.Equal(decimal.NewFromInt(-5)))
}

func TestGrowthQuality_UndefinedDeltaIsNeutralMedium(t *testing.T) {
	pulse := &aggregate.Pulse{DeltaPct: metric.UndefinedRatio()}

	s := interpret.GrowthQuality(pulse, []aggregate.ProductProfit{profitable("A", 100, 50)})
	assert.Equal(t, interpret.GradeNeutral, s.Signal)
	assert.Equal(t, interpret.ConfidenceMedium, s.Confidence)
	assert.Nil(t, s.Evidence.RevenueDeltaPct)
}

func TestGrowthQuality_GrowthWithNegativeProfitIsNegative(t *testing.T) {
	// GIVEN: Revenue is up but the product portfolio loses money overall
	// WHEN: Judging growth quality
	// THEN: NEGATIVE with HIGH confidence, carrying the total profit

	s := interpret.GrowthQuality(risingPulse(), []aggregate.ProductProfit{
		profitable("A", 500, 100),
		profitable("B", 400, -300),
	})
	assert.Equal(t, interpret.GradeNegative, s.Signal)
	assert.Equal(t, interpret.ConfidenceHigh, s.Confidence)
	require.NotNil(t, s.Evidence.TotalProfit)
	assert.True(t, s.Evidence.TotalProfit.Equal(decimal.NewFromInt(-200)))
}

func TestGrowthQuality_GrowthCarriedByLossMakersIsNegative(t *testing.T) {
	// Total profit is positive, but loss-making products carry more than 30%
	// of revenue.

	s := interpret.GrowthQuality(risingPulse(), []aggregate.ProductProfit{
		profitable("Winner", 600, 500),
		profitable("Loser", 400, -10),
	})
	assert.Equal(t, interpret.GradeNegative, s.Signal)
	assert.Equal(t, interpret.ConfidenceHigh, s.Confidence)
	assert.Equal(t, []string{"Loser"}, s.Evidence.LossProducts)
	require.NotNil(t, s.Evidence.LossRevenueShare)
	assert.True(t, s.Evidence.LossRevenueShare.Equal(decimal.NewFromFloat(0.4)))
}

func TestGrowthQuality_HealthyGrowthIsPositive(t *testing.T) {
	s := interpret.GrowthQuality(risingPulse(), []aggregate.ProductProfit{
		profitable("Winner", 800, 300),
		profitable("Loser", 200, -20), // 20% loss share, under the limit
	})
	assert.Equal(t, interpret.GradePositive, s.Signal)
	assert.Equal(t, interpret.ConfidenceHigh, s.Confidence)
}

func TestGrowthQuality_UnknownCostRevenueStaysInDenominator(t *testing.T) {
	// Unknown-cost products contribute no profit or loss evidence, but their
	// revenue still dilutes the loss share: 300 loss revenue over 1000 total
	// is 30%, not above the limit.

	s := interpret.GrowthQuality(risingPulse(), []aggregate.ProductProfit{
		profitable("Winner", 300, 100),
		profitable("Loser", 300, -10),
		unknownCost("Mystery", 400),
	})
	assert.Equal(t, interpret.GradePositive, s.Signal)
}

func TestGrowthQuality_Deterministic(t *testing.T) {
	products := []aggregate.ProductProfit{
		profitable("Winner", 600, 500),
		profitable("Loser", 400, -10),
	}
	a := interpret.GrowthQuality(risingPulse(), products)
	b := interpret.GrowthQuality(risingPulse(), products)
	assert.Equal(t, a, b)
}
