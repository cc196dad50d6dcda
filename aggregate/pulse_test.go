package aggregate_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// flatWeekContext has seven days at 100 revenue followed by one day at 200.
func flatWeekContext(t *testing.T) *dataset.Context {
	t.Helper()
	var rows [][]string
	for day := 1; day <= 7; day++ {
		rows = append(rows, sale(fmt.Sprintf("2025-06-%02d", day), "Widget", "North", "Online", 1, "100"))
	}
	rows = append(rows, sale("2025-06-08", "Widget", "North", "Online", 2, "200"))
	return buildContext(t, map[string][][]string{dataset.SetSales: rows})
}

// =============================================================================
// RECENT PERFORMANCE
// =============================================================================

func TestRecentPerformance_TodayVsBaseline(t *testing.T) {
	// GIVEN: Seven days at 100 followed by today at 200
	// WHEN: Summarizing the 7-day window
	// THEN: Baseline 100, today 200, delta +100%

	pulse, err := aggregate.RecentPerformance(flatWeekContext(t), 7)
	require.NoError(t, err)
	require.NotNil(t, pulse)

	assert.Equal(t, 7, pulse.WindowDays)
	assert.Len(t, pulse.Series, 7) // 06-02 .. 06-08
	assert.True(t, pulse.TodayRevenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, pulse.BaselineAvg.Equal(decimal.NewFromInt(100)))
	require.True(t, pulse.DeltaPct.Defined())
	assert.True(t, pulse.DeltaPct.MustValue().Equal(decimal.NewFromInt(100)))
}

func TestRecentPerformance_Deterministic(t *testing.T) {
	ctx := flatWeekContext(t)
	a, err := aggregate.RecentPerformance(ctx, 7)
	require.NoError(t, err)
	b, err := aggregate.RecentPerformance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRecentPerformance_SingleDayIsInsufficient(t *testing.T) {
	// One in-window day cannot form a baseline: (nil, nil), not an error.

	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {sale("2025-06-08", "Widget", "North", "Online", 1, "100")},
	})

	pulse, err := aggregate.RecentPerformance(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, pulse)
}

func TestRecentPerformance_EmptySalesIsInsufficient(t *testing.T) {
	ctx := buildContext(t, nil)

	pulse, err := aggregate.RecentPerformance(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, pulse)
}

func TestRecentPerformance_NonPositiveWindowRejected(t *testing.T) {
	ctx := flatWeekContext(t)

	_, err := aggregate.RecentPerformance(ctx, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, metric.ErrInvalidParameter)

	_, err = aggregate.RecentPerformance(ctx, -3)
	assert.ErrorIs(t, err, metric.ErrInvalidParameter)
}

func TestRecentPerformance_ZeroBaselineMeansUndefinedDelta(t *testing.T) {
	// GIVEN: Baseline days with zero revenue, then a 200 day
	// WHEN: Summarizing the window
	// THEN: The delta is undefined, never Inf

	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-07", "Widget", "North", "Online", 0, "0"),
			sale("2025-06-08", "Widget", "North", "Online", 2, "200"),
		},
	})

	pulse, err := aggregate.RecentPerformance(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, pulse)
	assert.True(t, pulse.BaselineAvg.IsZero())
	assert.False(t, pulse.DeltaPct.Defined())
}

// =============================================================================
// DAILY DELTA
// =============================================================================

func TestDailyDelta(t *testing.T) {
	delta, err := aggregate.DailyDelta(flatWeekContext(t))
	require.NoError(t, err)
	require.NotNil(t, delta)

	assert.Equal(t, "2025-06-08", delta.Date.String())
	assert.True(t, delta.RevenueToday.Equal(decimal.NewFromInt(200)))
	assert.True(t, delta.RevenueYesterday.Equal(decimal.NewFromInt(100)))
	require.True(t, delta.DeltaPct.Defined())
	assert.True(t, delta.DeltaPct.MustValue().Equal(decimal.NewFromInt(100)))
}

func TestDailyDelta_GapDayIsInsufficient(t *testing.T) {
	// Latest day has no immediate predecessor inside the 2-day window.

	ctx := buildContext(t, map[string][][]string{
		dataset.SetSales: {
			sale("2025-06-01", "Widget", "North", "Online", 1, "100"),
			sale("2025-06-08", "Widget", "North", "Online", 2, "200"),
		},
	})

	delta, err := aggregate.DailyDelta(ctx)
	require.NoError(t, err)
	assert.Nil(t, delta)
}
