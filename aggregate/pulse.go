package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// EXECUTIVE PULSE - Today vs rolling baseline
// =============================================================================

// Pulse is the recent-performance snapshot: the in-window daily series, the
// latest day's revenue, and its deviation from the baseline average (the
// mean of every other in-window day).
type Pulse struct {
	WindowDays   int
	Series       []dataset.DailyTotal
	TodayRevenue decimal.Decimal
	BaselineAvg  decimal.Decimal
	DeltaPct     metric.Ratio // undefined when baseline <= 0
}

// RecentPerformance takes the most recent date in the daily rollup as
// "today" and builds the n-day window (today-n, today]. It needs at least
// two in-window rows (today plus one baseline day); with fewer it returns
// (nil, nil) - insufficient data, not an error. n must be positive.
func RecentPerformance(ctx *dataset.Context, n int) (*Pulse, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: window days must be positive, got %d", metric.ErrInvalidParameter, n)
	}

	latest, ok := ctx.LatestDay()
	if !ok {
		return nil, nil
	}

	series := ctx.DailyInWindow(metric.WindowEnding(latest, n))
	if len(series) < 2 {
		return nil, nil
	}

	today := series[len(series)-1].Revenue

	baselineSum := decimal.Zero
	for _, d := range series[:len(series)-1] {
		baselineSum = baselineSum.Add(d.Revenue)
	}
	baseline := baselineSum.Div(decimal.NewFromInt(int64(len(series) - 1)))

	delta := metric.UndefinedRatio()
	if baseline.IsPositive() {
		delta = metric.PercentChange(baseline, today)
	}

	return &Pulse{
		WindowDays:   n,
		Series:       series,
		TodayRevenue: today,
		BaselineAvg:  baseline,
		DeltaPct:     delta,
	}, nil
}

// DayDelta is the two-point case: today vs yesterday's revenue.
type DayDelta struct {
	Date             metric.Day
	RevenueToday     decimal.Decimal
	RevenueYesterday decimal.Decimal
	DeltaPct         metric.Ratio
}

// DailyDelta re-expresses RecentPerformance(2) as an explicit two-point
// comparison. (nil, nil) means insufficient data.
func DailyDelta(ctx *dataset.Context) (*DayDelta, error) {
	pulse, err := RecentPerformance(ctx, 2)
	if err != nil || pulse == nil {
		return nil, err
	}

	last := pulse.Series[len(pulse.Series)-1]
	prev := pulse.Series[len(pulse.Series)-2]
	return &DayDelta{
		Date:             last.Date,
		RevenueToday:     last.Revenue,
		RevenueYesterday: prev.Revenue,
		DeltaPct:         pulse.DeltaPct,
	}, nil
}
