/*
Package interpret converts aggregates into typed risk/opportunity flags and
signals using fixed, auditable thresholds.

PURPOSE:
  This is the judgment layer. Each interpretation primitive consumes the
  immutable AnalysisContext (plus thresholds) and returns a report with:
  - a snapshot table of the metrics it judged,
  - zero or more Flags (typed, severity-tagged, per-entity findings),
  - human-readable interpretation lines.

  Primitives are pure: same context + same thresholds => byte-identical
  flags. They never raise for business-data sparsity - an empty window is
  itself a reportable condition (NO_*_DATA flag), not an error.

KEY CONCEPTS IN THIS FILE (types.go):
  - Flag: one specific risk/opportunity instance (e.g. one channel's low ROAS)
  - Signal: a single holistic judgment (growth quality) with a confidence
  - Severity/Confidence grades

SEE ALSO:
  - growth.go, marketing.go, portfolio.go, inventory.go, channel.go
  - thresholds.go: tunable parameters with fixed defaults
  - recommend: maps flags+signal to executive actions
*/
package interpret

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// GRADES
// =============================================================================

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Grade is the holistic judgment of a Signal.
type Grade string

const (
	GradePositive Grade = "POSITIVE"
	GradeNeutral  Grade = "NEUTRAL"
	GradeNegative Grade = "NEGATIVE"
)

// =============================================================================
// FLAG TYPES
// =============================================================================

type FlagType string

const (
	// Marketing efficiency
	FlagLowROAS             FlagType = "LOW_ROAS"
	FlagNegativeOrLowMargin FlagType = "NEGATIVE_OR_LOW_NET_MARGIN"
	FlagSpendSpikeWeak      FlagType = "SPEND_SPIKE_WEAK_RETURN"

	// Product portfolio
	FlagProductConcentration FlagType = "PRODUCT_REVENUE_CONCENTRATION"
	FlagFakeGrowthProduct    FlagType = "FAKE_GROWTH_PRODUCT"

	// Inventory
	FlagFrequentStockouts     FlagType = "FREQUENT_STOCKOUTS"
	FlagStockoutRevenueImpact FlagType = "STOCKOUT_REVENUE_IMPACT"
	FlagLowStockPressure      FlagType = "LOW_STOCK_PRESSURE"

	// Channel dependency
	FlagChannelConcentration FlagType = "CHANNEL_REVENUE_CONCENTRATION"
	FlagProfitConcentration  FlagType = "PROFIT_CONCENTRATION"
	FlagROASIllusion         FlagType = "ROAS_ILLUSIONS"
	FlagSingleChannel        FlagType = "SINGLE_CHANNEL_DEPENDENCY"

	// Data availability (sparsity is reportable, never an error)
	FlagNoMarketingData  FlagType = "NO_MARKETING_DATA"
	FlagNoInventoryData  FlagType = "NO_INVENTORY_DATA"
	FlagNoSalesInWindow  FlagType = "NO_SALES_DATA_WINDOW"
	FlagNoSalesData      FlagType = "NO_SALES_DATA"
)

// =============================================================================
// FLAG
// =============================================================================

// Flag is one typed finding. Channel or Product carries the entity scope;
// both empty means company-wide. Value/Threshold carry the measured figure
// and the limit it breached, when the flag is quantitative; Days carries
// day counts for the inventory flags.
type Flag struct {
	Type      FlagType         `json:"type"`
	Severity  Severity         `json:"severity"`
	Channel   string           `json:"channel,omitempty"`
	Product   string           `json:"product,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
	Threshold *decimal.Decimal `json:"threshold,omitempty"`
	Days      int              `json:"days,omitempty"`
	Channels  []string         `json:"channels,omitempty"`
}

// Entity returns the per-entity scope of the flag ("" = company-wide).
func (f Flag) Entity() string {
	if f.Channel != "" {
		return f.Channel
	}
	return f.Product
}

func dec(d decimal.Decimal) *decimal.Decimal { return &d }

// =============================================================================
// SIGNAL
// =============================================================================

// Evidence backs a Signal with the figures that produced it. Pointer/slice
// fields are nil when not part of the judgment.
type Evidence struct {
	RevenueDeltaPct  *decimal.Decimal `json:"revenue_delta_pct,omitempty"`
	TotalProfit      *decimal.Decimal `json:"total_profit,omitempty"`
	LossRevenueShare *decimal.Decimal `json:"loss_revenue_share,omitempty"`
	LossProducts     []string         `json:"loss_products,omitempty"`
}

// Signal is a single holistic judgment - never a list.
type Signal struct {
	Signal     Grade      `json:"signal"`
	Reason     string     `json:"reason"`
	Evidence   Evidence   `json:"evidence"`
	Confidence Confidence `json:"confidence"`
}
