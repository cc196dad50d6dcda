package interpret

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// CHANNEL DEPENDENCY RISK - Concentration and margin illusion per channel
// =============================================================================

// ChannelRiskEntry is one channel's true-profit economics plus its revenue
// and profit shares.
type ChannelRiskEntry struct {
	aggregate.ChannelProfit
	RevenueSharePct metric.Ratio
	ProfitSharePct  metric.Ratio
}

// ChannelReport is the channel-dependency interpretation result.
type ChannelReport struct {
	AsOf           metric.Day
	Channels       []ChannelRiskEntry
	Flags          []Flag
	Interpretation []string
}

// ChannelRisk evaluates over-dependence on individual channels using the
// true-profit table. Profit shares are shares of the positive total only:
// when total net profit is non-positive, every channel's profit share is
// reported as zero, since a share of a non-positive total is not meaningful.
func ChannelRisk(ctx *dataset.Context, p ChannelThresholds) *ChannelReport {
	latest, _ := ctx.LatestDay()
	report := &ChannelReport{AsOf: latest}

	profits := aggregate.TrueProfitByChannel(ctx)
	if len(profits) == 0 {
		report.Flags = append(report.Flags, Flag{Type: FlagNoSalesData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No channel sales available; dependency risk cannot be assessed.")
		return report
	}

	totalRevenue := decimal.Zero
	totalProfit := decimal.Zero
	for _, c := range profits {
		totalRevenue = totalRevenue.Add(c.Revenue)
		if c.CostKnown {
			totalProfit = totalProfit.Add(c.NetProfit)
		}
	}

	entries := make([]ChannelRiskEntry, len(profits))
	for i, c := range profits {
		e := ChannelRiskEntry{ChannelProfit: c}
		e.RevenueSharePct = metric.Percent(c.Revenue, totalRevenue)
		switch {
		case !totalProfit.IsPositive():
			e.ProfitSharePct = metric.DefinedRatio(decimal.Zero)
		case c.CostKnown:
			e.ProfitSharePct = metric.Percent(c.NetProfit, totalProfit)
		default:
			e.ProfitSharePct = metric.UndefinedRatio()
		}
		entries[i] = e
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Revenue.GreaterThan(entries[j].Revenue)
	})
	report.Channels = entries

	// Revenue concentration.
	for _, e := range entries {
		if e.RevenueSharePct.AtLeast(p.MaxRevenueSharePct) {
			share, _ := e.RevenueSharePct.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagChannelConcentration, Severity: SeverityMedium, Channel: e.Channel,
				Value: dec(share), Threshold: dec(p.MaxRevenueSharePct),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s contributes %s%% of total revenue. The business may be overly dependent on this channel.",
					e.Channel, share.StringFixed(1)))
		}
	}

	// Profit concentration.
	for _, e := range entries {
		if e.ProfitSharePct.AtLeast(p.MaxProfitSharePct) {
			share, _ := e.ProfitSharePct.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagProfitConcentration, Severity: SeverityHigh, Channel: e.Channel,
				Value: dec(share), Threshold: dec(p.MaxProfitSharePct),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s contributes %s%% of total profit. Profitability is fragile if this channel degrades.",
					e.Channel, share.StringFixed(1)))
		}
	}

	// ROAS illusion: positive revenue, negative net margin.
	for _, e := range entries {
		if e.Margin.LessThan(decimal.Zero) && e.Revenue.IsPositive() {
			margin, _ := e.Margin.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagROASIllusion, Severity: SeverityHigh, Channel: e.Channel,
				Value: dec(margin),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s generates revenue but has a negative net margin. The channel may look efficient while destroying value.",
					e.Channel))
		}
	}

	// Single healthy channel.
	var healthy []string
	for _, e := range entries {
		if e.Margin.AtLeast(p.MinHealthyMarginPct) {
			healthy = append(healthy, e.Channel)
		}
	}
	if len(healthy) <= 1 {
		report.Flags = append(report.Flags, Flag{
			Type: FlagSingleChannel, Severity: SeverityHigh, Channels: healthy,
		})
		line := "The business relies on one or fewer healthy channels. Channel diversification risk is high."
		if len(healthy) == 1 {
			line = fmt.Sprintf("Only %s clears the healthy-margin bar. Channel diversification risk is high.", strings.Join(healthy, ", "))
		}
		report.Interpretation = append(report.Interpretation, line)
	}

	if len(report.Flags) == 0 {
		report.Interpretation = append(report.Interpretation,
			"No major channel dependency risks detected under current thresholds.")
	}
	return report
}
