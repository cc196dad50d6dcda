/*
Package recommend maps interpretation flags and the growth signal to ranked
executive actions.

PURPOSE:
  A pure, stateless function: same flags in, same recommendations out. Every
  recommendation cites the flag that triggered it, so the output is fully
  traceable back to the interpretation layer.

TEMPLATE TABLE:
  One fixed template per flag type, parameterized only by the flag's entity
  (channel, product, or none for company-wide). No deduplication: the same
  flag type recurring for multiple entities yields multiple recommendations.
  Output order is input flag order; the growth-signal overlay (if NEGATIVE)
  is appended exactly once at the end.

SEE ALSO:
  - interpret: produces the flags and the growth signal
*/
package recommend

import (
	"fmt"

	"github.com/warp/insight-engine/interpret"
)

// Scope of a recommendation's blast radius.
type Scope string

const (
	ScopeChannel   Scope = "channel"
	ScopeProduct   Scope = "product"
	ScopePortfolio Scope = "portfolio"
	ScopeCompany   Scope = "company"
)

// Recommendation is one executive action with its trigger and tradeoffs.
type Recommendation struct {
	TriggerFlag    interpret.FlagType   `json:"trigger_flag"`
	Scope          Scope                `json:"scope"`
	Entity         string               `json:"entity,omitempty"`
	Recommendation string               `json:"recommendation"`
	ExpectedImpact string               `json:"expected_impact"`
	RiskTradeoff   string               `json:"risk_tradeoff"`
	Confidence     interpret.Confidence `json:"confidence"`
}

// template is one row of the flag-to-action table. text receives the flag's
// entity; entity-less templates ignore it.
type template struct {
	scope      Scope
	perEntity  bool
	text       func(entity string) string
	impact     string
	tradeoff   string
	confidence interpret.Confidence
}

// templates is the closed mapping: each actionable flag type has exactly one
// template. NO_*_DATA availability flags deliberately have none - missing
// data prompts no action beyond what the interpretation already reports.
var templates = map[interpret.FlagType]template{
	interpret.FlagLowROAS: {
		scope: ScopeChannel, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Reduce or pause spend on %s until ROAS improves.", e)
		},
		impact:     "Stops inefficient capital burn.",
		tradeoff:   "Short-term revenue decline possible.",
		confidence: interpret.ConfidenceHigh,
	},
	interpret.FlagNegativeOrLowMargin: {
		scope: ScopeChannel, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Audit CAC, pricing, and product mix for %s.", e)
		},
		impact:     "Eliminates value-destructive growth.",
		tradeoff:   "Channel scale may reduce temporarily.",
		confidence: interpret.ConfidenceHigh,
	},
	interpret.FlagSpendSpikeWeak: {
		scope: ScopeChannel, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Investigate the recent spend increase on %s for attribution leakage.", e)
		},
		impact:     "Prevents inefficient scaling.",
		tradeoff:   "Delayed growth if the spike was experimental.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagProductConcentration: {
		scope: ScopePortfolio,
		text: func(string) string {
			return "Reduce dependency on top products via SKU expansion or demand diversification."
		},
		impact:     "Improves revenue resilience.",
		tradeoff:   "New products may dilute margins initially.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagFakeGrowthProduct: {
		scope: ScopeProduct, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Reassess pricing or marketing support for %s.", e)
		},
		impact:     "Prevents profit-negative growth.",
		tradeoff:   "Revenue contraction possible.",
		confidence: interpret.ConfidenceHigh,
	},
	interpret.FlagFrequentStockouts: {
		scope: ScopeProduct, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Increase safety stock or reorder frequency for %s.", e)
		},
		impact:     "Recovers lost revenue.",
		tradeoff:   "Higher inventory holding costs.",
		confidence: interpret.ConfidenceHigh,
	},
	interpret.FlagStockoutRevenueImpact: {
		scope: ScopeProduct, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Prioritize supply allocation to %s during demand peaks.", e)
		},
		impact:     "Reduces supply-constrained losses.",
		tradeoff:   "Lower-priority SKUs may suffer.",
		confidence: interpret.ConfidenceHigh,
	},
	interpret.FlagLowStockPressure: {
		scope: ScopeProduct, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Closely monitor demand volatility for %s.", e)
		},
		impact:     "Prevents future stockouts.",
		tradeoff:   "Forecast errors possible.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagChannelConcentration: {
		scope: ScopeCompany,
		text: func(string) string {
			return "Diversify revenue sources across additional channels."
		},
		impact:     "Reduces single-point-of-failure risk.",
		tradeoff:   "New channels may be inefficient initially.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagProfitConcentration: {
		scope: ScopeCompany,
		text: func(string) string {
			return "Diversify revenue sources across additional channels."
		},
		impact:     "Reduces single-point-of-failure risk.",
		tradeoff:   "New channels may be inefficient initially.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagSingleChannel: {
		scope: ScopeCompany,
		text: func(string) string {
			return "Diversify revenue sources across additional channels."
		},
		impact:     "Reduces single-point-of-failure risk.",
		tradeoff:   "New channels may be inefficient initially.",
		confidence: interpret.ConfidenceMedium,
	},
	interpret.FlagROASIllusion: {
		scope: ScopeChannel, perEntity: true,
		text: func(e string) string {
			return fmt.Sprintf("Validate true incremental lift from %s spend.", e)
		},
		impact:     "Prevents false confidence from blended ROAS.",
		tradeoff:   "Measurement complexity increases.",
		confidence: interpret.ConfidenceMedium,
	},
}

// GrowthQualityNegative is the trigger recorded on the overlay
// recommendation appended when the growth signal is NEGATIVE.
const GrowthQualityNegative interpret.FlagType = "GROWTH_QUALITY_NEGATIVE"

// Generate converts flags plus an optional growth signal into ordered
// recommendations. Flag order is preserved; flags without a template (the
// availability flags) produce nothing.
func Generate(flags []interpret.Flag, growth *interpret.Signal) []Recommendation {
	recs := make([]Recommendation, 0, len(flags))
	for _, f := range flags {
		tpl, ok := templates[f.Type]
		if !ok {
			continue
		}
		rec := Recommendation{
			TriggerFlag:    f.Type,
			Scope:          tpl.scope,
			Recommendation: tpl.text(f.Entity()),
			ExpectedImpact: tpl.impact,
			RiskTradeoff:   tpl.tradeoff,
			Confidence:     tpl.confidence,
		}
		if tpl.perEntity {
			rec.Entity = f.Entity()
		}
		recs = append(recs, rec)
	}

	if growth != nil && growth.Signal == interpret.GradeNegative {
		recs = append(recs, Recommendation{
			TriggerFlag:    GrowthQualityNegative,
			Scope:          ScopeCompany,
			Recommendation: "Avoid aggressive scaling until unit economics stabilize.",
			ExpectedImpact: "Prevents compounding losses.",
			RiskTradeoff:   "Growth slowdown.",
			Confidence:     growth.Confidence,
		})
	}
	return recs
}
