/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON shapes returned to the orchestrator. Every result is a
  flat mapping or an ordered list of row-mappings so the caller can forward
  it verbatim to a narration layer. DTOs decouple the engine types from the
  wire contract.

CONVENTIONS:
  - Monetary values serialize through decimal.Decimal (exact strings).
  - Undefined ratios serialize as null, never 0 or Infinity.
  - Insufficient-data results are well-formed objects with
    insufficient_data=true, not errors.

SEE ALSO:
  - handlers.go: builds these from engine results
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/interpret"
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// SHARED SHAPES
// =============================================================================

// InsufficientDTO marks a well-formed "not enough data" result.
type InsufficientDTO struct {
	InsufficientData bool   `json:"insufficient_data"`
	Reason           string `json:"reason"`
}

func insufficient(reason string) InsufficientDTO {
	return InsufficientDTO{InsufficientData: true, Reason: reason}
}

// =============================================================================
// PULSE
// =============================================================================

type DailyTotalDTO struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int64           `json:"units"`
}

type PulseDTO struct {
	WindowDays   int             `json:"window_days"`
	DailySeries  []DailyTotalDTO `json:"daily_series"`
	BaselineAvg  decimal.Decimal `json:"baseline_avg"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	DeltaPct     metric.Ratio    `json:"delta_pct"`
}

func toPulseDTO(p *aggregate.Pulse) PulseDTO {
	series := make([]DailyTotalDTO, len(p.Series))
	for i, d := range p.Series {
		series[i] = DailyTotalDTO{Date: d.Date.String(), Revenue: d.Revenue, Units: d.Units}
	}
	return PulseDTO{
		WindowDays:   p.WindowDays,
		DailySeries:  series,
		BaselineAvg:  p.BaselineAvg,
		TodayRevenue: p.TodayRevenue,
		DeltaPct:     p.DeltaPct,
	}
}

type DayDeltaDTO struct {
	Date             string          `json:"date"`
	RevenueToday     decimal.Decimal `json:"revenue_today"`
	RevenueYesterday decimal.Decimal `json:"revenue_yesterday"`
	DeltaPct         metric.Ratio    `json:"delta_pct"`
}

// =============================================================================
// AGGREGATION TABLES
// =============================================================================

type ProductRevenueDTO struct {
	Product string          `json:"product"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int64           `json:"units"`
}

type RegionRevenueDTO struct {
	Region  string          `json:"region"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int64           `json:"units"`
}

type ChannelRevenueDTO struct {
	Channel string          `json:"channel"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int64           `json:"units"`
}

type MonthRevenueDTO struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

func toProductRevenueDTOs(rows []aggregate.Row) []ProductRevenueDTO {
	out := make([]ProductRevenueDTO, len(rows))
	for i, r := range rows {
		out[i] = ProductRevenueDTO{Product: r.Key, Revenue: r.Revenue, Units: r.Units}
	}
	return out
}

func toRegionRevenueDTOs(rows []aggregate.Row) []RegionRevenueDTO {
	out := make([]RegionRevenueDTO, len(rows))
	for i, r := range rows {
		out[i] = RegionRevenueDTO{Region: r.Key, Revenue: r.Revenue, Units: r.Units}
	}
	return out
}

func toChannelRevenueDTOs(rows []aggregate.Row) []ChannelRevenueDTO {
	out := make([]ChannelRevenueDTO, len(rows))
	for i, r := range rows {
		out[i] = ChannelRevenueDTO{Channel: r.Key, Revenue: r.Revenue, Units: r.Units}
	}
	return out
}

func toMonthRevenueDTOs(rows []aggregate.Row) []MonthRevenueDTO {
	out := make([]MonthRevenueDTO, len(rows))
	for i, r := range rows {
		out[i] = MonthRevenueDTO{Month: r.Key, Revenue: r.Revenue}
	}
	return out
}

// =============================================================================
// PROFIT TABLES
// =============================================================================

// ProductProfitDTO reports cost/profit as null when the product's unit cost
// is unknown - unknown is never rendered as zero.
type ProductProfitDTO struct {
	Product         string           `json:"product"`
	Revenue         decimal.Decimal  `json:"revenue"`
	Units           int64            `json:"units"`
	TotalCost       *decimal.Decimal `json:"total_cost"`
	Profit          *decimal.Decimal `json:"profit"`
	ProfitMarginPct metric.Ratio     `json:"profit_margin_pct"`
}

func toProductProfitDTO(p aggregate.ProductProfit) ProductProfitDTO {
	dto := ProductProfitDTO{
		Product:         p.Product,
		Revenue:         p.Revenue,
		Units:           p.Units,
		ProfitMarginPct: p.Margin,
	}
	if p.CostKnown {
		cost, profit := p.Cost, p.Profit
		dto.TotalCost, dto.Profit = &cost, &profit
	}
	return dto
}

func toProductProfitDTOs(rows []aggregate.ProductProfit) []ProductProfitDTO {
	out := make([]ProductProfitDTO, len(rows))
	for i, r := range rows {
		out[i] = toProductProfitDTO(r)
	}
	return out
}

type ChannelProfitDTO struct {
	Channel         string           `json:"channel"`
	Revenue         decimal.Decimal  `json:"revenue"`
	Units           int64            `json:"units"`
	ProductCost     *decimal.Decimal `json:"product_cost"`
	Spend           decimal.Decimal  `json:"spend"`
	NetProfit       *decimal.Decimal `json:"net_profit"`
	ProfitMarginPct metric.Ratio     `json:"profit_margin_pct"`
}

func toChannelProfitDTOs(rows []aggregate.ChannelProfit) []ChannelProfitDTO {
	out := make([]ChannelProfitDTO, len(rows))
	for i, r := range rows {
		dto := ChannelProfitDTO{
			Channel:         r.Channel,
			Revenue:         r.Revenue,
			Units:           r.Units,
			Spend:           r.Spend,
			ProfitMarginPct: r.Margin,
		}
		if r.CostKnown {
			cost, profit := r.ProductCost, r.NetProfit
			dto.ProductCost, dto.NetProfit = &cost, &profit
		}
		out[i] = dto
	}
	return out
}

type RegionProfitDTO struct {
	Region          string           `json:"region"`
	Revenue         decimal.Decimal  `json:"revenue"`
	Units           int64            `json:"units"`
	TotalCost       *decimal.Decimal `json:"total_cost"`
	NetProfit       *decimal.Decimal `json:"net_profit"`
	ProfitMarginPct metric.Ratio     `json:"profit_margin_pct"`
}

func toRegionProfitDTOs(rows []aggregate.RegionProfit) []RegionProfitDTO {
	out := make([]RegionProfitDTO, len(rows))
	for i, r := range rows {
		dto := RegionProfitDTO{
			Region:          r.Region,
			Revenue:         r.Revenue,
			Units:           r.Units,
			ProfitMarginPct: r.Margin,
		}
		if r.CostKnown {
			cost, profit := r.Cost, r.NetProfit
			dto.TotalCost, dto.NetProfit = &cost, &profit
		}
		out[i] = dto
	}
	return out
}

type CostComponentsDTO struct {
	Product       string          `json:"product"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	COGS          decimal.Decimal `json:"cogs"`
	PackagingCost decimal.Decimal `json:"packaging_cost"`
	LogisticsCost decimal.Decimal `json:"logistics_cost"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// =============================================================================
// MARKETING / INVENTORY ROLLUPS
// =============================================================================

type ChannelROASDTO struct {
	Channel string       `json:"channel"`
	ROAS    metric.Ratio `json:"roas"`
}

type MonthSpendDTO struct {
	Month string          `json:"month"`
	Spend decimal.Decimal `json:"spend"`
}

type ProductStockoutsDTO struct {
	Product      string `json:"product"`
	StockoutDays int    `json:"stockout_days"`
}

type ProductStockLevelDTO struct {
	Product         string       `json:"product"`
	AvgClosingStock metric.Ratio `json:"avg_closing_stock"`
}

// =============================================================================
// INTERPRETATION REPORTS
// =============================================================================

type ChannelEfficiencyDTO struct {
	Channel          string           `json:"channel"`
	Spend            decimal.Decimal  `json:"spend"`
	MarketingRevenue decimal.Decimal  `json:"mkt_revenue"`
	Conversions      int64            `json:"conversions"`
	Clicks           int64            `json:"clicks"`
	Impressions      int64            `json:"impressions"`
	ROAS             metric.Ratio     `json:"roas"`
	CAC              metric.Ratio     `json:"cac"`
	SalesRevenue     decimal.Decimal  `json:"sales_revenue"`
	Units            int64            `json:"units"`
	ProductCost      *decimal.Decimal `json:"product_cost"`
	NetProfit        *decimal.Decimal `json:"net_profit"`
	NetMarginPct     metric.Ratio     `json:"net_profit_margin_pct"`
	SpendChangePct   metric.Ratio     `json:"spend_change_pct"`
	RevenueChangePct metric.Ratio     `json:"rev_change_pct"`
}

type MarketingReportDTO struct {
	AsOf           string                 `json:"as_of"`
	WindowDays     int                    `json:"window_days"`
	ChannelTable   []ChannelEfficiencyDTO `json:"channel_table"`
	Flags          []interpret.Flag       `json:"flags"`
	Interpretation []string               `json:"interpretation"`
}

func toMarketingReportDTO(r *interpret.MarketingReport) MarketingReportDTO {
	table := make([]ChannelEfficiencyDTO, len(r.Channels))
	for i, c := range r.Channels {
		dto := ChannelEfficiencyDTO{
			Channel:          c.Channel,
			Spend:            c.Spend,
			MarketingRevenue: c.MarketingRevenue,
			Conversions:      c.Conversions,
			Clicks:           c.Clicks,
			Impressions:      c.Impressions,
			ROAS:             c.ROAS,
			CAC:              c.CAC,
			SalesRevenue:     c.SalesRevenue,
			Units:            c.Units,
			NetMarginPct:     c.NetMarginPct,
			SpendChangePct:   c.SpendChangePct,
			RevenueChangePct: c.RevenueChangePct,
		}
		if c.CostKnown {
			cost, profit := c.ProductCost, c.NetProfit
			dto.ProductCost, dto.NetProfit = &cost, &profit
		}
		table[i] = dto
	}
	return MarketingReportDTO{
		AsOf:           asOf(r.AsOf),
		WindowDays:     r.WindowDays,
		ChannelTable:   table,
		Flags:          emptyFlags(r.Flags),
		Interpretation: r.Interpretation,
	}
}

type PortfolioEntryDTO struct {
	ProductProfitDTO
	RevenueSharePct metric.Ratio           `json:"revenue_share_pct"`
	Category        interpret.ProductClass `json:"category"`
}

type PortfolioReportDTO struct {
	AsOf           string              `json:"as_of"`
	ProductTable   []PortfolioEntryDTO `json:"product_table"`
	Flags          []interpret.Flag    `json:"flags"`
	Interpretation []string            `json:"interpretation"`
}

func toPortfolioReportDTO(r *interpret.PortfolioReport) PortfolioReportDTO {
	table := make([]PortfolioEntryDTO, len(r.Products))
	for i, p := range r.Products {
		table[i] = PortfolioEntryDTO{
			ProductProfitDTO: toProductProfitDTO(p.ProductProfit),
			RevenueSharePct:  p.RevenueSharePct,
			Category:         p.Category,
		}
	}
	return PortfolioReportDTO{
		AsOf:           asOf(r.AsOf),
		ProductTable:   table,
		Flags:          emptyFlags(r.Flags),
		Interpretation: r.Interpretation,
	}
}

type ProductInventoryDTO struct {
	Product            string          `json:"product"`
	DaysObserved       int             `json:"days_observed"`
	StockoutDays       int             `json:"stockout_days"`
	LowStockDays       int             `json:"low_stock_days"`
	AvgRevenueNormal   metric.Ratio    `json:"avg_daily_revenue_non_stockout"`
	AvgRevenueStockout metric.Ratio    `json:"avg_daily_revenue_stockout"`
	RevenueDropPct     metric.Ratio    `json:"revenue_drop_pct_on_stockout"`
	LostUnits          int64           `json:"lost_units_estimated"`
	LostRevenue        decimal.Decimal `json:"lost_revenue_estimated"`
}

type InventoryReportDTO struct {
	AsOf           string                `json:"as_of"`
	WindowDays     int                   `json:"window_days"`
	ProductTable   []ProductInventoryDTO `json:"product_table"`
	Flags          []interpret.Flag      `json:"flags"`
	Interpretation []string              `json:"interpretation"`
}

func toInventoryReportDTO(r *interpret.InventoryReport) InventoryReportDTO {
	table := make([]ProductInventoryDTO, len(r.Products))
	for i, p := range r.Products {
		table[i] = ProductInventoryDTO{
			Product:            p.Product,
			DaysObserved:       p.DaysObserved,
			StockoutDays:       p.StockoutDays,
			LowStockDays:       p.LowStockDays,
			AvgRevenueNormal:   p.AvgRevenueNormal,
			AvgRevenueStockout: p.AvgRevenueStockout,
			RevenueDropPct:     p.RevenueDropPct,
			LostUnits:          p.LostUnits,
			LostRevenue:        p.LostRevenue,
		}
	}
	return InventoryReportDTO{
		AsOf:           asOf(r.AsOf),
		WindowDays:     r.WindowDays,
		ProductTable:   table,
		Flags:          emptyFlags(r.Flags),
		Interpretation: r.Interpretation,
	}
}

type ChannelRiskEntryDTO struct {
	ChannelProfitDTO
	RevenueSharePct metric.Ratio `json:"revenue_share_pct"`
	ProfitSharePct  metric.Ratio `json:"profit_share_pct"`
}

type ChannelReportDTO struct {
	AsOf           string                `json:"as_of"`
	ChannelTable   []ChannelRiskEntryDTO `json:"channel_table"`
	Flags          []interpret.Flag      `json:"flags"`
	Interpretation []string              `json:"interpretation"`
}

func toChannelReportDTO(r *interpret.ChannelReport) ChannelReportDTO {
	table := make([]ChannelRiskEntryDTO, len(r.Channels))
	for i, c := range r.Channels {
		base := toChannelProfitDTOs([]aggregate.ChannelProfit{c.ChannelProfit})[0]
		table[i] = ChannelRiskEntryDTO{
			ChannelProfitDTO: base,
			RevenueSharePct:  c.RevenueSharePct,
			ProfitSharePct:   c.ProfitSharePct,
		}
	}
	return ChannelReportDTO{
		AsOf:           asOf(r.AsOf),
		ChannelTable:   table,
		Flags:          emptyFlags(r.Flags),
		Interpretation: r.Interpretation,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func asOf(d metric.Day) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// emptyFlags keeps "no flags" as [] in JSON rather than null.
func emptyFlags(flags []interpret.Flag) []interpret.Flag {
	if flags == nil {
		return []interpret.Flag{}
	}
	return flags
}
