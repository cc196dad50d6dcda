/*
Package factory provides TOML to Go threshold conversion.

PURPOSE:
  Converts a TOML thresholds file into the typed threshold structs the
  interpreters consume. This enables threshold tuning without code changes -
  an operator can adjust the playbook in TOML, and the factory produces the
  proper Go structs with compiled-in defaults for anything omitted.

TOML SCHEMA:
  [marketing]
  lookback_days = 30
  min_roas = 2.0
  min_net_margin_pct = 0.0
  spend_spike_pct = 25.0

  [portfolio]
  min_good_margin_pct = 20.0
  high_revenue_share_pct = 30.0

  [inventory]
  lookback_days = 30
  stockout_days_threshold = 3
  revenue_impact_threshold_pct = 15.0
  low_stock_threshold = 5.0

  [channel]
  max_revenue_share_pct = 50.0
  max_profit_share_pct = 70.0
  min_healthy_margin_pct = 5.0

USAGE:
  thresholds := factory.Defaults()
  // or
  thresholds, err := factory.LoadFile("thresholds.toml")

SEE ALSO:
  - interpret/thresholds.go: the typed structs and default values
*/
package factory

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/interpret"
)

// Thresholds bundles the per-interpreter parameter sets.
type Thresholds struct {
	Marketing interpret.MarketingThresholds
	Portfolio interpret.PortfolioThresholds
	Inventory interpret.InventoryThresholds
	Channel   interpret.ChannelThresholds
}

// Defaults returns the compiled-in playbook thresholds.
func Defaults() Thresholds {
	return Thresholds{
		Marketing: interpret.DefaultMarketingThresholds(),
		Portfolio: interpret.DefaultPortfolioThresholds(),
		Inventory: interpret.DefaultInventoryThresholds(),
		Channel:   interpret.DefaultChannelThresholds(),
	}
}

// =============================================================================
// TOML SCHEMA TYPES
// =============================================================================

type thresholdsTOML struct {
	Marketing struct {
		LookbackDays    int     `toml:"lookback_days"`
		MinROAS         float64 `toml:"min_roas"`
		MinNetMarginPct float64 `toml:"min_net_margin_pct"`
		SpendSpikePct   float64 `toml:"spend_spike_pct"`
	} `toml:"marketing"`
	Portfolio struct {
		MinGoodMarginPct    float64 `toml:"min_good_margin_pct"`
		HighRevenueSharePct float64 `toml:"high_revenue_share_pct"`
	} `toml:"portfolio"`
	Inventory struct {
		LookbackDays              int     `toml:"lookback_days"`
		StockoutDaysThreshold     int     `toml:"stockout_days_threshold"`
		RevenueImpactThresholdPct float64 `toml:"revenue_impact_threshold_pct"`
		LowStockThreshold         float64 `toml:"low_stock_threshold"`
	} `toml:"inventory"`
	Channel struct {
		MaxRevenueSharePct  float64 `toml:"max_revenue_share_pct"`
		MaxProfitSharePct   float64 `toml:"max_profit_share_pct"`
		MinHealthyMarginPct float64 `toml:"min_healthy_margin_pct"`
	} `toml:"channel"`
}

func defaultsTOML() thresholdsTOML {
	d := Defaults()
	var t thresholdsTOML
	t.Marketing.LookbackDays = d.Marketing.LookbackDays
	t.Marketing.MinROAS = d.Marketing.MinROAS.InexactFloat64()
	t.Marketing.MinNetMarginPct = d.Marketing.MinNetMarginPct.InexactFloat64()
	t.Marketing.SpendSpikePct = d.Marketing.SpendSpikePct.InexactFloat64()
	t.Portfolio.MinGoodMarginPct = d.Portfolio.MinGoodMarginPct.InexactFloat64()
	t.Portfolio.HighRevenueSharePct = d.Portfolio.HighRevenueSharePct.InexactFloat64()
	t.Inventory.LookbackDays = d.Inventory.LookbackDays
	t.Inventory.StockoutDaysThreshold = d.Inventory.StockoutDaysThreshold
	t.Inventory.RevenueImpactThresholdPct = d.Inventory.RevenueImpactThresholdPct.InexactFloat64()
	t.Inventory.LowStockThreshold = d.Inventory.LowStockThreshold.InexactFloat64()
	t.Channel.MaxRevenueSharePct = d.Channel.MaxRevenueSharePct.InexactFloat64()
	t.Channel.MaxProfitSharePct = d.Channel.MaxProfitSharePct.InexactFloat64()
	t.Channel.MinHealthyMarginPct = d.Channel.MinHealthyMarginPct.InexactFloat64()
	return t
}

// Parse decodes TOML bytes over the defaults: omitted keys keep their
// default values.
func Parse(data []byte) (Thresholds, error) {
	t := defaultsTOML()
	if err := toml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds: %w", err)
	}

	out := Thresholds{
		Marketing: interpret.MarketingThresholds{
			LookbackDays:    t.Marketing.LookbackDays,
			MinROAS:         decimal.NewFromFloat(t.Marketing.MinROAS),
			MinNetMarginPct: decimal.NewFromFloat(t.Marketing.MinNetMarginPct),
			SpendSpikePct:   decimal.NewFromFloat(t.Marketing.SpendSpikePct),
		},
		Portfolio: interpret.PortfolioThresholds{
			MinGoodMarginPct:    decimal.NewFromFloat(t.Portfolio.MinGoodMarginPct),
			HighRevenueSharePct: decimal.NewFromFloat(t.Portfolio.HighRevenueSharePct),
		},
		Inventory: interpret.InventoryThresholds{
			LookbackDays:              t.Inventory.LookbackDays,
			StockoutDaysThreshold:     t.Inventory.StockoutDaysThreshold,
			RevenueImpactThresholdPct: decimal.NewFromFloat(t.Inventory.RevenueImpactThresholdPct),
			LowStockThreshold:         decimal.NewFromFloat(t.Inventory.LowStockThreshold),
		},
		Channel: interpret.ChannelThresholds{
			MaxRevenueSharePct:  decimal.NewFromFloat(t.Channel.MaxRevenueSharePct),
			MaxProfitSharePct:   decimal.NewFromFloat(t.Channel.MaxProfitSharePct),
			MinHealthyMarginPct: decimal.NewFromFloat(t.Channel.MinHealthyMarginPct),
		},
	}
	if out.Marketing.LookbackDays <= 0 || out.Inventory.LookbackDays <= 0 {
		return Thresholds{}, fmt.Errorf("parse thresholds: lookback_days must be positive")
	}
	return out, nil
}

// LoadFile reads and parses a thresholds file.
func LoadFile(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds: %w", err)
	}
	return Parse(data)
}
