package interpret

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// MARKETING EFFICIENCY - ROAS / CAC / net margin / spend trend per channel
// =============================================================================

// ChannelEfficiency is one channel's in-window marketing rollup joined with
// its sales-side economics.
type ChannelEfficiency struct {
	Channel          string
	Spend            decimal.Decimal
	MarketingRevenue decimal.Decimal
	Conversions      int64
	Clicks           int64
	Impressions      int64
	ROAS             metric.Ratio // marketing revenue / spend
	CAC              metric.Ratio // spend / conversions

	// Sales side (zero when the channel had no in-window sales).
	SalesRevenue decimal.Decimal
	Units        int64
	ProductCost  decimal.Decimal
	CostKnown    bool
	NetProfit    decimal.Decimal // sales revenue - product cost - spend
	NetMarginPct metric.Ratio

	// Window-half trend: first half vs last half sums.
	SpendChangePct   metric.Ratio
	RevenueChangePct metric.Ratio
}

// MarketingReport is the marketing-efficiency interpretation result.
type MarketingReport struct {
	AsOf           metric.Day
	WindowDays     int
	Channels       []ChannelEfficiency
	Flags          []Flag
	Interpretation []string
}

// MarketingEfficiency evaluates paid channels inside the lookback window.
// Sparsity never errors: an empty marketing window yields NO_MARKETING_DATA,
// a marketing-only window (no sales rows) yields the rollup plus
// NO_SALES_DATA_WINDOW since profit cannot be computed without sales.
func MarketingEfficiency(ctx *dataset.Context, p MarketingThresholds) *MarketingReport {
	latest, ok := ctx.LatestDay()
	if !ok {
		// No sales ever: anchor the window on the marketing table instead.
		latest, ok = latestMarketingDay(ctx)
	}
	report := &MarketingReport{AsOf: latest, WindowDays: p.LookbackDays}
	if !ok {
		report.Flags = append(report.Flags, Flag{Type: FlagNoMarketingData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No marketing data available in the selected window.")
		return report
	}

	window := metric.WindowEnding(latest, p.LookbackDays)
	marketing := ctx.MarketingInWindow(window)
	sales := ctx.EnrichedInWindow(window)

	if len(marketing) == 0 {
		report.Flags = append(report.Flags, Flag{Type: FlagNoMarketingData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No marketing data available in the selected window.")
		return report
	}

	// Core marketing rollup per channel.
	var order []string
	byChannel := make(map[string]*ChannelEfficiency)
	for _, m := range marketing {
		c, seen := byChannel[m.Channel]
		if !seen {
			c = &ChannelEfficiency{Channel: m.Channel}
			byChannel[m.Channel] = c
			order = append(order, m.Channel)
		}
		c.Spend = c.Spend.Add(m.Spend)
		c.MarketingRevenue = c.MarketingRevenue.Add(m.Revenue)
		c.Conversions += m.Conversions
		c.Clicks += m.Clicks
		c.Impressions += m.Impressions
	}
	for _, c := range byChannel {
		c.ROAS = metric.Divide(c.MarketingRevenue, c.Spend)
		c.CAC = metric.Divide(c.Spend, decimal.NewFromInt(c.Conversions))
	}

	if len(sales) == 0 {
		report.Channels = finishChannels(order, byChannel)
		report.Flags = append(report.Flags, Flag{Type: FlagNoSalesInWindow, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation,
			"Marketing window has data, but no sales rows exist in the same window, so profit by channel cannot be computed.")
		return report
	}

	// Sales-side left join: revenue, units, product cost per channel. The
	// channel universe is the marketing rollup; sales on channels with no
	// in-window marketing rows stay out of the table.
	hasSales := make(map[string]bool)
	for _, s := range sales {
		c, seen := byChannel[s.Channel]
		if !seen {
			continue
		}
		if !hasSales[s.Channel] {
			hasSales[s.Channel] = true
			c.CostKnown = true
		}
		c.SalesRevenue = c.SalesRevenue.Add(s.Revenue)
		c.Units += s.Units
		if s.CostKnown {
			c.ProductCost = c.ProductCost.Add(s.UnitCost.Mul(decimal.NewFromInt(s.Units)))
		} else {
			c.CostKnown = false
		}
	}
	for _, c := range byChannel {
		if c.CostKnown {
			c.NetProfit = c.SalesRevenue.Sub(c.ProductCost).Sub(c.Spend)
			c.NetMarginPct = metric.Percent(c.NetProfit, c.SalesRevenue)
		} else {
			c.NetMarginPct = metric.UndefinedRatio()
		}
	}

	// Trend: split the window into equal first/last halves and compare sums.
	half := p.LookbackDays / 2
	if half < 2 {
		half = 2
	}
	firstWindow := metric.WindowEnding(latest.AddDays(-half), half)
	lastWindow := metric.WindowEnding(latest, half)
	firstSpend, firstRev := sumSpendRevenue(ctx.MarketingInWindow(firstWindow))
	lastSpend, lastRev := sumSpendRevenue(ctx.MarketingInWindow(lastWindow))
	for name, c := range byChannel {
		c.SpendChangePct = metric.PercentChange(firstSpend[name], lastSpend[name])
		c.RevenueChangePct = metric.PercentChange(firstRev[name], lastRev[name])
	}

	report.Channels = finishChannels(order, byChannel)

	// Flag rules, evaluated independently per channel: a channel may
	// accumulate multiple flags.
	for _, c := range report.Channels {
		if c.ROAS.LessThan(p.MinROAS) {
			v, _ := c.ROAS.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagLowROAS, Severity: SeverityMedium, Channel: c.Channel,
				Value: dec(v), Threshold: dec(p.MinROAS),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s: ROAS below target (%s < %s).", c.Channel, v.StringFixed(2), p.MinROAS))
		}

		if c.NetMarginPct.LessThan(p.MinNetMarginPct) {
			v, _ := c.NetMarginPct.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagNegativeOrLowMargin, Severity: SeverityHigh, Channel: c.Channel,
				Value: dec(v), Threshold: dec(p.MinNetMarginPct),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s: net profit margin is below target (%s%% < %s%%). Spend plus product mix is not profitable.",
					c.Channel, v.StringFixed(2), p.MinNetMarginPct))
		}

		if c.SpendChangePct.AtLeast(p.SpendSpikePct) {
			spendChg, _ := c.SpendChangePct.Value()
			revChg, revDefined := c.RevenueChangePct.Value()
			if !revDefined || revChg.LessThan(spendChg) {
				report.Flags = append(report.Flags, Flag{
					Type: FlagSpendSpikeWeak, Severity: SeverityMedium, Channel: c.Channel,
					Value: dec(spendChg), Threshold: dec(p.SpendSpikePct),
				})
				report.Interpretation = append(report.Interpretation,
					fmt.Sprintf("%s: spend jumped (~%s%%) but revenue did not keep up. Possible diminishing returns or targeting fatigue.",
						c.Channel, spendChg.StringFixed(1)))
			}
		}
	}

	if len(report.Flags) == 0 {
		report.Interpretation = append(report.Interpretation,
			"No major marketing efficiency red flags detected in this window under current thresholds.")
	}
	return report
}

func latestMarketingDay(ctx *dataset.Context) (metric.Day, bool) {
	var latest metric.Day
	found := false
	for _, m := range ctx.Marketing {
		if !found || m.Date.After(latest) {
			latest = m.Date
			found = true
		}
	}
	return latest, found
}

func sumSpendRevenue(rows []dataset.MarketingRecord) (spend, revenue map[string]decimal.Decimal) {
	spend = make(map[string]decimal.Decimal)
	revenue = make(map[string]decimal.Decimal)
	for _, m := range rows {
		spend[m.Channel] = spend[m.Channel].Add(m.Spend)
		revenue[m.Channel] = revenue[m.Channel].Add(m.Revenue)
	}
	return spend, revenue
}

// finishChannels materializes the channel table sorted by spend descending
// (stable, so equal-spend channels keep first-seen order).
func finishChannels(order []string, byChannel map[string]*ChannelEfficiency) []ChannelEfficiency {
	rows := make([]ChannelEfficiency, len(order))
	for i, name := range order {
		rows[i] = *byChannel[name]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Spend.GreaterThan(rows[j].Spend)
	})
	return rows
}
