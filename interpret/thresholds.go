package interpret

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// THRESHOLDS - Fixed, auditable parameters per interpreter
// =============================================================================
// Defaults mirror the operating review playbook; the factory package can
// override them from a TOML file. Thresholds are plain values, so every
// interpreter invocation is a pure function of (context, thresholds).
// =============================================================================

// MarketingThresholds parameterize MarketingEfficiency.
type MarketingThresholds struct {
	LookbackDays    int
	MinROAS         decimal.Decimal
	MinNetMarginPct decimal.Decimal
	SpendSpikePct   decimal.Decimal
}

func DefaultMarketingThresholds() MarketingThresholds {
	return MarketingThresholds{
		LookbackDays:    30,
		MinROAS:         decimal.NewFromInt(2),
		MinNetMarginPct: decimal.Zero,
		SpendSpikePct:   decimal.NewFromInt(25),
	}
}

// PortfolioThresholds parameterize PortfolioHealth.
type PortfolioThresholds struct {
	MinGoodMarginPct    decimal.Decimal
	HighRevenueSharePct decimal.Decimal
}

func DefaultPortfolioThresholds() PortfolioThresholds {
	return PortfolioThresholds{
		MinGoodMarginPct:    decimal.NewFromInt(20),
		HighRevenueSharePct: decimal.NewFromInt(30),
	}
}

// InventoryThresholds parameterize InventoryHealth.
type InventoryThresholds struct {
	LookbackDays              int
	StockoutDaysThreshold     int
	RevenueImpactThresholdPct decimal.Decimal
	LowStockThreshold         decimal.Decimal // units
}

func DefaultInventoryThresholds() InventoryThresholds {
	return InventoryThresholds{
		LookbackDays:              30,
		StockoutDaysThreshold:     3,
		RevenueImpactThresholdPct: decimal.NewFromInt(15),
		LowStockThreshold:         decimal.NewFromInt(5),
	}
}

// ChannelThresholds parameterize ChannelRisk.
type ChannelThresholds struct {
	MaxRevenueSharePct  decimal.Decimal
	MaxProfitSharePct   decimal.Decimal
	MinHealthyMarginPct decimal.Decimal
}

func DefaultChannelThresholds() ChannelThresholds {
	return ChannelThresholds{
		MaxRevenueSharePct:  decimal.NewFromInt(50),
		MaxProfitSharePct:   decimal.NewFromInt(70),
		MinHealthyMarginPct: decimal.NewFromInt(5),
	}
}
