package interpret

import (
	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/aggregate"
)

// =============================================================================
// GROWTH QUALITY - Is recent revenue growth real or fake?
// =============================================================================
// Decision table, evaluated in fixed order, first match wins:
//   1. either input missing/empty          -> NEUTRAL, LOW
//   2. delta undefined or <= 0             -> NEUTRAL, MEDIUM
//   3. delta > 0 and total profit <= 0     -> NEGATIVE, HIGH
//   4. delta > 0 and loss-maker share >30% -> NEGATIVE, HIGH
//   5. otherwise                           -> POSITIVE, HIGH
// =============================================================================

// lossShareLimit is the loss-maker revenue share above which growth is judged
// fake (rule 4): 0.30 of total revenue.
var lossShareLimit = decimal.NewFromFloat(0.30)

// GrowthQuality judges whether recent revenue growth (the 7-day pulse by
// convention) is backed by profitable products. Products whose unit cost is
// unknown contribute no profit evidence; if no product has a known profit the
// table counts as empty.
func GrowthQuality(pulse *aggregate.Pulse, products []aggregate.ProductProfit) Signal {
	totalProfit := decimal.Zero
	totalRevenue := decimal.Zero
	lossRevenue := decimal.Zero
	var lossProducts []string
	known := 0

	for _, p := range products {
		totalRevenue = totalRevenue.Add(p.Revenue)
		if !p.CostKnown {
			continue
		}
		known++
		totalProfit = totalProfit.Add(p.Profit)
		if p.Profit.IsNegative() {
			lossRevenue = lossRevenue.Add(p.Revenue)
			lossProducts = append(lossProducts, p.Product)
		}
	}

	// Rule 1: nothing to judge.
	if pulse == nil || known == 0 {
		return Signal{
			Signal:     GradeNeutral,
			Reason:     "Insufficient data to assess growth quality.",
			Confidence: ConfidenceLow,
		}
	}

	// Rule 2: flat or shrinking revenue.
	delta, defined := pulse.DeltaPct.Value()
	if !defined || !delta.IsPositive() {
		ev := Evidence{}
		if defined {
			ev.RevenueDeltaPct = dec(delta)
		}
		return Signal{
			Signal:     GradeNeutral,
			Reason:     "No meaningful revenue growth detected.",
			Evidence:   ev,
			Confidence: ConfidenceMedium,
		}
	}

	// Rule 3: revenue up, profit gone.
	if !totalProfit.IsPositive() {
		return Signal{
			Signal:     GradeNegative,
			Reason:     "Revenue increased but overall profit is negative.",
			Evidence:   Evidence{RevenueDeltaPct: dec(delta), TotalProfit: dec(totalProfit)},
			Confidence: ConfidenceHigh,
		}
	}

	// Rule 4: growth carried by loss-makers.
	if lossShare, ok := divideShare(lossRevenue, totalRevenue); ok && lossShare.GreaterThan(lossShareLimit) {
		return Signal{
			Signal: GradeNegative,
			Reason: "Revenue growth is driven by loss-making products.",
			Evidence: Evidence{
				RevenueDeltaPct:  dec(delta),
				LossRevenueShare: dec(lossShare),
				LossProducts:     lossProducts,
			},
			Confidence: ConfidenceHigh,
		}
	}

	// Rule 5: healthy growth.
	return Signal{
		Signal:     GradePositive,
		Reason:     "Revenue growth is supported by profitable products.",
		Evidence:   Evidence{RevenueDeltaPct: dec(delta), TotalProfit: dec(totalProfit)},
		Confidence: ConfidenceHigh,
	}
}

func divideShare(num, den decimal.Decimal) (decimal.Decimal, bool) {
	if den.IsZero() {
		return decimal.Zero, false
	}
	return num.Div(den), true
}
