package interpret

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// PRODUCT PORTFOLIO HEALTH - Concentration x margin classification
// =============================================================================

// ProductClass is the portfolio category of one product. Exactly one class
// per product, assigned by the first matching rule.
type ProductClass string

const (
	ClassStar         ProductClass = "STAR"
	ClassCashCow      ProductClass = "CASH_COW"
	ClassFakeGrowth   ProductClass = "FAKE_GROWTH"
	ClassZombie       ProductClass = "ZOMBIE"
	ClassExperimental ProductClass = "EXPERIMENTAL"
)

// zombieSharePct: products below this revenue share with weak margins are
// dead weight rather than concentration risks.
var zombieSharePct = decimal.NewFromInt(5)

// PortfolioEntry is one product's economics plus its share and class.
type PortfolioEntry struct {
	aggregate.ProductProfit
	RevenueSharePct metric.Ratio
	Category        ProductClass
}

// PortfolioReport is the portfolio-health interpretation result.
type PortfolioReport struct {
	AsOf           metric.Day
	Products       []PortfolioEntry
	Flags          []Flag
	Interpretation []string
}

// classificationRule pairs a predicate with its category. Rules are
// evaluated top-down; the first match wins, with a required default.
type classificationRule struct {
	category ProductClass
	match    func(share, margin metric.Ratio) bool
}

func classificationRules(p PortfolioThresholds) []classificationRule {
	return []classificationRule{
		{ClassStar, func(share, margin metric.Ratio) bool {
			return share.AtLeast(p.HighRevenueSharePct) && margin.AtLeast(p.MinGoodMarginPct)
		}},
		{ClassCashCow, func(share, margin metric.Ratio) bool {
			return share.LessThan(p.HighRevenueSharePct) && margin.AtLeast(p.MinGoodMarginPct)
		}},
		{ClassFakeGrowth, func(share, margin metric.Ratio) bool {
			return share.AtLeast(p.HighRevenueSharePct) && margin.LessThan(decimal.Zero)
		}},
		{ClassZombie, func(share, margin metric.Ratio) bool {
			return share.LessThan(zombieSharePct) && margin.LessThan(p.MinGoodMarginPct)
		}},
	}
}

func classify(rules []classificationRule, share, margin metric.Ratio) ProductClass {
	for _, r := range rules {
		if r.match(share, margin) {
			return r.category
		}
	}
	return ClassExperimental
}

// PortfolioHealth classifies every product and flags concentration and
// fake-growth risks. Zero total revenue yields a NO_SALES_DATA flag.
func PortfolioHealth(ctx *dataset.Context, p PortfolioThresholds) *PortfolioReport {
	latest, _ := ctx.LatestDay()
	report := &PortfolioReport{AsOf: latest}

	profits := aggregate.ProfitByProduct(ctx)
	totalRevenue := decimal.Zero
	for _, row := range profits {
		totalRevenue = totalRevenue.Add(row.Revenue)
	}
	if !totalRevenue.IsPositive() {
		report.Flags = append(report.Flags, Flag{Type: FlagNoSalesData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No sales revenue available; portfolio health cannot be assessed.")
		return report
	}

	rules := classificationRules(p)
	entries := make([]PortfolioEntry, len(profits))
	for i, row := range profits {
		share := metric.Percent(row.Revenue, totalRevenue)
		entries[i] = PortfolioEntry{
			ProductProfit:   row,
			RevenueSharePct: share,
			Category:        classify(rules, share, row.Margin),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Revenue.GreaterThan(entries[j].Revenue)
	})
	report.Products = entries

	// Revenue concentration.
	for _, e := range entries {
		if e.RevenueSharePct.AtLeast(p.HighRevenueSharePct) {
			share, _ := e.RevenueSharePct.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagProductConcentration, Severity: SeverityMedium, Product: e.Product,
				Value: dec(share), Threshold: dec(p.HighRevenueSharePct),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s contributes %s%% of total revenue. Portfolio may be overly dependent on it.",
					e.Product, share.StringFixed(1)))
		}
	}

	// Fake growth: high share, negative margin.
	for _, e := range entries {
		if e.Category != ClassFakeGrowth {
			continue
		}
		margin, _ := e.Margin.Value()
		report.Flags = append(report.Flags, Flag{
			Type: FlagFakeGrowthProduct, Severity: SeverityHigh, Product: e.Product,
			Value: dec(margin),
		})
		report.Interpretation = append(report.Interpretation,
			fmt.Sprintf("%s has high revenue but negative margins. Growth here is destroying value.", e.Product))
	}

	if len(report.Flags) == 0 {
		report.Interpretation = append(report.Interpretation,
			"Product portfolio shows no major structural health risks under current thresholds.")
	}
	return report
}
