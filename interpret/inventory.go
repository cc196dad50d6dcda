package interpret

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// INVENTORY HEALTH VS REVENUE - Stock availability linked to revenue outcome
// =============================================================================

// ProductInventoryHealth links one product's stock availability to its
// realized revenue inside the lookback window.
type ProductInventoryHealth struct {
	Product      string
	DaysObserved int
	StockoutDays int
	LowStockDays int

	// Average daily revenue split by stockout status. Undefined when the
	// product had no days in that class.
	AvgRevenueNormal   metric.Ratio
	AvgRevenueStockout metric.Ratio

	// (normal - stockout) / normal * 100; undefined when the normal-day
	// average is undefined or non-positive.
	RevenueDropPct metric.Ratio

	LostUnits   int64
	LostRevenue decimal.Decimal // lost_demand valued at the realized price
}

// InventoryReport is the inventory-health interpretation result.
type InventoryReport struct {
	AsOf           metric.Day
	WindowDays     int
	Products       []ProductInventoryHealth
	Flags          []Flag
	Interpretation []string
}

// productDay is one inventory row joined with that day's sales. A day with
// no sales rows is a real zero-revenue day, not missing data.
type productDay struct {
	date       metric.Day
	stockout   bool
	lowStock   bool
	lostDemand int64
	revenue    decimal.Decimal
	units      int64
}

// InventoryHealth measures how stockouts and low stock depressed realized
// revenue per product. Lost demand is valued at the product's realized
// price (window revenue / window units; treated as zero when undefined).
func InventoryHealth(ctx *dataset.Context, p InventoryThresholds) *InventoryReport {
	latest, ok := ctx.LatestDay()
	if !ok {
		latest, ok = latestInventoryDay(ctx)
	}
	report := &InventoryReport{AsOf: latest, WindowDays: p.LookbackDays}
	if !ok {
		report.Flags = append(report.Flags, Flag{Type: FlagNoInventoryData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No inventory data available in the selected window.")
		return report
	}

	window := metric.WindowEnding(latest, p.LookbackDays)
	inventory := ctx.InventoryInWindow(window)
	if len(inventory) == 0 {
		report.Flags = append(report.Flags, Flag{Type: FlagNoInventoryData, Severity: SeverityHigh})
		report.Interpretation = append(report.Interpretation, "No inventory data available in the selected window.")
		return report
	}

	// Daily sales per (date, product) inside the window.
	type dayProduct struct {
		date    metric.Day
		product string
	}
	salesDay := make(map[dayProduct]*productDay)
	for _, s := range ctx.SalesInWindow(window) {
		key := dayProduct{s.Date, s.Product}
		d, seen := salesDay[key]
		if !seen {
			d = &productDay{}
			salesDay[key] = d
		}
		d.revenue = d.revenue.Add(s.Revenue)
		d.units += s.Units
	}

	// Join sales onto inventory rows per product.
	var order []string
	days := make(map[string][]productDay)
	for _, r := range inventory {
		if _, seen := days[r.Product]; !seen {
			order = append(order, r.Product)
		}
		d := productDay{
			date:       r.Date,
			stockout:   r.IsStockout(),
			lowStock:   decimal.NewFromInt(r.ClosingStock).LessThanOrEqual(p.LowStockThreshold),
			lostDemand: r.LostDemand,
		}
		if s, seen := salesDay[dayProduct{r.Date, r.Product}]; seen {
			d.revenue = s.revenue
			d.units = s.units
		}
		days[r.Product] = append(days[r.Product], d)
	}

	rows := make([]ProductInventoryHealth, 0, len(order))
	for _, product := range order {
		rows = append(rows, summarizeProduct(product, days[product]))
	}

	// Worst first: stockout days, then revenue drop (undefined drops last).
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StockoutDays != rows[j].StockoutDays {
			return rows[i].StockoutDays > rows[j].StockoutDays
		}
		di, iDefined := rows[i].RevenueDropPct.Value()
		dj, jDefined := rows[j].RevenueDropPct.Value()
		if iDefined != jDefined {
			return iDefined
		}
		return iDefined && di.GreaterThan(dj)
	})
	report.Products = rows

	for _, r := range rows {
		if r.StockoutDays >= p.StockoutDaysThreshold {
			report.Flags = append(report.Flags, Flag{
				Type: FlagFrequentStockouts, Severity: SeverityHigh, Product: r.Product,
				Days: r.StockoutDays, Threshold: dec(decimal.NewFromInt(int64(p.StockoutDaysThreshold))),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s: stocked out on %d days in the last %d days.", r.Product, r.StockoutDays, p.LookbackDays))
		}

		if r.RevenueDropPct.AtLeast(p.RevenueImpactThresholdPct) {
			drop, _ := r.RevenueDropPct.Value()
			report.Flags = append(report.Flags, Flag{
				Type: FlagStockoutRevenueImpact, Severity: SeverityHigh, Product: r.Product,
				Value: dec(drop), Threshold: dec(p.RevenueImpactThresholdPct),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s: average daily revenue is ~%s%% lower on stockout days vs normal days - likely revenue loss from the supply constraint.",
					r.Product, drop.StringFixed(1)))
		}

		// A distinct warning tier: persistent low stock without true stockouts.
		if r.LowStockDays >= p.StockoutDaysThreshold && r.StockoutDays < p.StockoutDaysThreshold {
			report.Flags = append(report.Flags, Flag{
				Type: FlagLowStockPressure, Severity: SeverityMedium, Product: r.Product,
				Days: r.LowStockDays, Threshold: dec(p.LowStockThreshold),
			})
			report.Interpretation = append(report.Interpretation,
				fmt.Sprintf("%s: many low-stock days (<= %s units). Risk of future stockouts if demand spikes.",
					r.Product, p.LowStockThreshold))
		}
	}

	if len(report.Flags) == 0 {
		report.Interpretation = append(report.Interpretation,
			"No major inventory-driven revenue risks detected under current thresholds.")
	}
	return report
}

func summarizeProduct(product string, days []productDay) ProductInventoryHealth {
	row := ProductInventoryHealth{Product: product}

	totalRevenue := decimal.Zero
	totalUnits := int64(0)
	distinctDates := make(map[metric.Day]struct{}, len(days))
	var normal, stockout []decimal.Decimal

	for _, d := range days {
		distinctDates[d.date] = struct{}{}
		totalRevenue = totalRevenue.Add(d.revenue)
		totalUnits += d.units
		if d.stockout {
			row.StockoutDays++
			stockout = append(stockout, d.revenue)
			row.LostUnits += d.lostDemand
		} else {
			normal = append(normal, d.revenue)
		}
		if d.lowStock {
			row.LowStockDays++
		}
	}
	row.DaysObserved = len(distinctDates)

	// Realized price values lost demand; undefined collapses to zero so the
	// estimate stays conservative.
	realizedPrice := decimal.Zero
	if price, defined := metric.Divide(totalRevenue, decimal.NewFromInt(totalUnits)).Value(); defined {
		realizedPrice = price
	}
	for _, d := range days {
		if d.stockout && d.lostDemand > 0 {
			row.LostRevenue = row.LostRevenue.Add(decimal.NewFromInt(d.lostDemand).Mul(realizedPrice))
		}
	}

	row.AvgRevenueNormal = metric.Mean(normal)
	row.AvgRevenueStockout = metric.Mean(stockout)
	if avgNormal, defined := row.AvgRevenueNormal.Value(); defined && avgNormal.IsPositive() {
		if avgStockout, defined := row.AvgRevenueStockout.Value(); defined {
			row.RevenueDropPct = metric.DefinedRatio(
				avgNormal.Sub(avgStockout).Div(avgNormal).Mul(decimal.NewFromInt(100)))
		}
	}
	return row
}

func latestInventoryDay(ctx *dataset.Context) (metric.Day, bool) {
	var latest metric.Day
	found := false
	for _, r := range ctx.Inventory {
		if !found || r.Date.After(latest) {
			latest = r.Date
			found = true
		}
	}
	return latest, found
}
