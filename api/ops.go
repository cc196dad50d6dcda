/*
ops.go - Closed operation registry

PURPOSE:
  The engine exposes a fixed, enumerated set of operations to the external
  orchestrator. The registry is an explicit table from operation identifier
  to route and handler: no dynamic string-to-function lookup exists, so an
  invalid operation is a construction-time error (Registry panics on a
  malformed table during router setup), never a runtime lookup failure.

ADDING AN OPERATION:
  1. Add an Op constant.
  2. Add one OpSpec row to the table in Registry.
  Duplicate identifiers or paths, or a nil handler, fail construction.

SEE ALSO:
  - handlers.go: handler implementations
  - server.go: mounts the registry on the chi router
*/
package api

import (
	"fmt"
	"net/http"
)

// Op identifies one engine operation.
type Op string

const (
	OpDailyDelta        Op = "daily_delta"
	OpRecentPerformance Op = "revenue_recent_performance"

	OpSalesByProduct Op = "sales_by_product"
	OpSalesByRegion  Op = "sales_by_region"
	OpSalesByChannel Op = "sales_by_channel"
	OpRevenueByMonth Op = "revenue_by_month"
	OpTopProducts    Op = "top_products"
	OpTopRegions     Op = "top_regions"

	OpProfitByProduct     Op = "profit_by_product"
	OpTrueProfitByChannel Op = "true_profit_by_channel"
	OpTrueProfitByRegion  Op = "true_profit_by_region"
	OpLossMakingProducts  Op = "loss_making_products"
	OpCostComponents      Op = "cost_components_by_product"

	OpROASByChannel      Op = "roas_by_channel"
	OpSpendOverTime      Op = "spend_over_time"
	OpStockoutsByProduct Op = "stockouts_by_product"
	OpAvgClosingStock    Op = "avg_closing_stock"

	OpGrowthQuality       Op = "interpret_growth_quality"
	OpMarketingEfficiency Op = "marketing_efficiency"
	OpPortfolioHealth     Op = "product_portfolio_health"
	OpInventoryHealth     Op = "inventory_health_vs_revenue"
	OpChannelRisk         Op = "channel_dependency_risk"

	OpRecommendations Op = "generate_recommendations"
)

// OpSpec is one row of the operation table.
type OpSpec struct {
	Op      Op
	Path    string
	Handler http.HandlerFunc
}

// Registry returns the complete operation table for a handler. The table is
// the single source of truth: the router mounts exactly these routes, and
// the ops index endpoint lists exactly these identifiers.
func Registry(h *Handler) []OpSpec {
	specs := []OpSpec{
		{OpDailyDelta, "/pulse/daily-delta", h.DailyDelta},
		{OpRecentPerformance, "/pulse/recent", h.RecentPerformance},

		{OpSalesByProduct, "/sales/by-product", h.SalesByProduct},
		{OpSalesByRegion, "/sales/by-region", h.SalesByRegion},
		{OpSalesByChannel, "/sales/by-channel", h.SalesByChannel},
		{OpRevenueByMonth, "/sales/by-month", h.RevenueByMonth},
		{OpTopProducts, "/sales/top-products", h.TopProducts},
		{OpTopRegions, "/sales/top-regions", h.TopRegions},

		{OpProfitByProduct, "/profit/by-product", h.ProfitByProduct},
		{OpTrueProfitByChannel, "/profit/by-channel", h.TrueProfitByChannel},
		{OpTrueProfitByRegion, "/profit/by-region", h.TrueProfitByRegion},
		{OpLossMakingProducts, "/profit/loss-makers", h.LossMakingProducts},
		{OpCostComponents, "/economics/cost-components", h.CostComponents},

		{OpROASByChannel, "/marketing/roas-by-channel", h.ROASByChannel},
		{OpSpendOverTime, "/marketing/spend-over-time", h.SpendOverTime},
		{OpStockoutsByProduct, "/inventory/stockouts-by-product", h.StockoutsByProduct},
		{OpAvgClosingStock, "/inventory/avg-closing-stock", h.AvgClosingStock},

		{OpGrowthQuality, "/interpret/growth-quality", h.GrowthQuality},
		{OpMarketingEfficiency, "/interpret/marketing-efficiency", h.MarketingEfficiency},
		{OpPortfolioHealth, "/interpret/portfolio-health", h.PortfolioHealth},
		{OpInventoryHealth, "/interpret/inventory-health", h.InventoryHealth},
		{OpChannelRisk, "/interpret/channel-risk", h.ChannelRisk},

		{OpRecommendations, "/recommendations", h.Recommendations},
	}
	if err := validateRegistry(specs); err != nil {
		panic(err)
	}
	return specs
}

// opsIndex serves the machine-readable list of registered operations so an
// orchestrator can discover what it may call.
func opsIndex(specs []OpSpec) http.HandlerFunc {
	type entry struct {
		Op   Op     `json:"op"`
		Path string `json:"path"`
	}
	index := make([]entry, len(specs))
	for i, s := range specs {
		index[i] = entry{Op: s.Op, Path: "/api" + s.Path}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, index)
	}
}

func validateRegistry(specs []OpSpec) error {
	ops := make(map[Op]bool, len(specs))
	paths := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Op == "" || s.Path == "" || s.Handler == nil {
			return fmt.Errorf("api: malformed op spec %q", s.Op)
		}
		if ops[s.Op] {
			return fmt.Errorf("api: duplicate op %q", s.Op)
		}
		if paths[s.Path] {
			return fmt.Errorf("api: duplicate path %q", s.Path)
		}
		ops[s.Op] = true
		paths[s.Path] = true
	}
	return nil
}
