/*
handlers.go - HTTP handlers for the analysis operations

PURPOSE:
  One handler per registered operation. Handlers parse query parameters,
  call the engine against the immutable analysis context, and serialize the
  result. Analyses never mutate the context, so every handler is safe to
  call concurrently and repeatedly with identical results.

KEY CONCEPTS:
  - Insufficient data (e.g. a one-day revenue series) returns HTTP 200 with
    insufficient_data=true. Only malformed parameters return 4xx.
  - Responses carry X-Session-ID so callers can correlate results with the
    dataset snapshot they were computed from.

SEE ALSO:
  - ops.go: the operation registry binding paths to these handlers
  - dto.go: the response shapes
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/warp/insight-engine/aggregate"
	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/factory"
	"github.com/warp/insight-engine/interpret"
	"github.com/warp/insight-engine/metric"
	"github.com/warp/insight-engine/recommend"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler serves analysis operations over one loaded dataset snapshot.
type Handler struct {
	Ctx        *dataset.Context
	Thresholds factory.Thresholds
}

func NewHandler(ctx *dataset.Context, th factory.Thresholds) *Handler {
	return &Handler{Ctx: ctx, Thresholds: th}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// PULSE ENDPOINTS
// =============================================================================

// DailyDelta compares the latest day's revenue with the day before.
// GET /api/pulse/daily-delta
func (h *Handler) DailyDelta(w http.ResponseWriter, r *http.Request) {
	delta, err := aggregate.DailyDelta(h.Ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute daily delta", err)
		return
	}
	if delta == nil {
		h.writeResult(w, insufficient("need at least two days of sales data"))
		return
	}
	h.writeResult(w, DayDeltaDTO{
		Date:             delta.Date.String(),
		RevenueToday:     delta.RevenueToday,
		RevenueYesterday: delta.RevenueYesterday,
		DeltaPct:         delta.DeltaPct,
	})
}

// RecentPerformance summarizes the trailing revenue window.
// GET /api/pulse/recent?days=7
func (h *Handler) RecentPerformance(w http.ResponseWriter, r *http.Request) {
	days, ok := h.queryInt(w, r, "days", 7)
	if !ok {
		return
	}
	pulse, err := aggregate.RecentPerformance(h.Ctx, days)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, metric.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "failed to compute recent performance", err)
		return
	}
	if pulse == nil {
		h.writeResult(w, insufficient(fmt.Sprintf("need at least two days of sales data in the last %d days", days)))
		return
	}
	h.writeResult(w, toPulseDTO(pulse))
}

// =============================================================================
// SALES AGGREGATES
// =============================================================================

// SalesByProduct returns revenue and units grouped by product.
// GET /api/sales/by-product
func (h *Handler) SalesByProduct(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toProductRevenueDTOs(aggregate.SalesByProduct(h.Ctx)))
}

// SalesByRegion returns revenue and units grouped by region.
// GET /api/sales/by-region
func (h *Handler) SalesByRegion(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toRegionRevenueDTOs(aggregate.SalesByRegion(h.Ctx)))
}

// SalesByChannel returns revenue and units grouped by channel.
// GET /api/sales/by-channel
func (h *Handler) SalesByChannel(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toChannelRevenueDTOs(aggregate.SalesByChannel(h.Ctx)))
}

// RevenueByMonth returns revenue grouped by calendar month.
// GET /api/sales/by-month
func (h *Handler) RevenueByMonth(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toMonthRevenueDTOs(aggregate.RevenueByMonth(h.Ctx)))
}

// TopProducts returns the n highest-revenue products.
// GET /api/sales/top-products?n=3
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	n, ok := h.queryInt(w, r, "n", 3)
	if !ok {
		return
	}
	h.writeResult(w, toProductRevenueDTOs(aggregate.TopProducts(h.Ctx, n)))
}

// TopRegions returns the n highest-revenue regions.
// GET /api/sales/top-regions?n=3
func (h *Handler) TopRegions(w http.ResponseWriter, r *http.Request) {
	n, ok := h.queryInt(w, r, "n", 3)
	if !ok {
		return
	}
	h.writeResult(w, toRegionRevenueDTOs(aggregate.TopRegions(h.Ctx, n)))
}

// =============================================================================
// PROFIT AGGREGATES
// =============================================================================

// ProfitByProduct returns per-product profit and margin.
// GET /api/profit/by-product
func (h *Handler) ProfitByProduct(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toProductProfitDTOs(aggregate.ProfitByProduct(h.Ctx)))
}

// TrueProfitByChannel returns per-channel net profit after marketing spend.
// GET /api/profit/by-channel
func (h *Handler) TrueProfitByChannel(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toChannelProfitDTOs(aggregate.TrueProfitByChannel(h.Ctx)))
}

// TrueProfitByRegion returns per-region profit after product cost.
// GET /api/profit/by-region
func (h *Handler) TrueProfitByRegion(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toRegionProfitDTOs(aggregate.TrueProfitByRegion(h.Ctx)))
}

// LossMakingProducts returns products with a known negative profit.
// GET /api/profit/loss-makers
func (h *Handler) LossMakingProducts(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toProductProfitDTOs(aggregate.LossMakingProducts(h.Ctx)))
}

// CostComponents returns the unit-economics cost sheet.
// GET /api/economics/cost-components
func (h *Handler) CostComponents(w http.ResponseWriter, r *http.Request) {
	rows := aggregate.CostComponentsByProduct(h.Ctx)
	out := make([]CostComponentsDTO, len(rows))
	for i, c := range rows {
		out[i] = CostComponentsDTO{
			Product:       c.Product,
			SellingPrice:  c.SellingPrice,
			COGS:          c.COGS,
			PackagingCost: c.PackagingCost,
			LogisticsCost: c.LogisticsCost,
			UnitCost:      c.UnitCost,
		}
	}
	h.writeResult(w, out)
}

// =============================================================================
// MARKETING / INVENTORY AGGREGATES
// =============================================================================

// ROASByChannel returns average return on ad spend per channel.
// GET /api/marketing/roas-by-channel
func (h *Handler) ROASByChannel(w http.ResponseWriter, r *http.Request) {
	rows := aggregate.ROASByChannel(h.Ctx)
	out := make([]ChannelROASDTO, len(rows))
	for i, c := range rows {
		out[i] = ChannelROASDTO{Channel: c.Channel, ROAS: c.ROAS}
	}
	h.writeResult(w, out)
}

// SpendOverTime returns marketing spend grouped by calendar month.
// GET /api/marketing/spend-over-time
func (h *Handler) SpendOverTime(w http.ResponseWriter, r *http.Request) {
	rows := aggregate.SpendOverTime(h.Ctx)
	out := make([]MonthSpendDTO, len(rows))
	for i, m := range rows {
		out[i] = MonthSpendDTO{Month: m.Key, Spend: m.Revenue}
	}
	h.writeResult(w, out)
}

// StockoutsByProduct returns distinct stockout-day counts per product.
// GET /api/inventory/stockouts-by-product
func (h *Handler) StockoutsByProduct(w http.ResponseWriter, r *http.Request) {
	rows := aggregate.StockoutsByProduct(h.Ctx)
	out := make([]ProductStockoutsDTO, len(rows))
	for i, p := range rows {
		out[i] = ProductStockoutsDTO{Product: p.Product, StockoutDays: p.StockoutDays}
	}
	h.writeResult(w, out)
}

// AvgClosingStock returns the mean closing stock per product.
// GET /api/inventory/avg-closing-stock
func (h *Handler) AvgClosingStock(w http.ResponseWriter, r *http.Request) {
	rows := aggregate.AvgClosingStock(h.Ctx)
	out := make([]ProductStockLevelDTO, len(rows))
	for i, p := range rows {
		out[i] = ProductStockLevelDTO{Product: p.Product, AvgClosingStock: p.AvgClosingStock}
	}
	h.writeResult(w, out)
}

// =============================================================================
// INTERPRETATION ENDPOINTS
// =============================================================================

// GrowthQuality judges whether recent revenue growth is backed by profit.
// GET /api/interpret/growth-quality?days=7
func (h *Handler) GrowthQuality(w http.ResponseWriter, r *http.Request) {
	days, ok := h.queryInt(w, r, "days", 7)
	if !ok {
		return
	}
	signal, err := h.growthSignal(days)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, metric.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "failed to assess growth quality", err)
		return
	}
	h.writeResult(w, signal)
}

// MarketingEfficiency evaluates paid channel performance in a lookback window.
// GET /api/interpret/marketing-efficiency?lookback_days=30
func (h *Handler) MarketingEfficiency(w http.ResponseWriter, r *http.Request) {
	p := h.Thresholds.Marketing
	days, ok := h.queryInt(w, r, "lookback_days", p.LookbackDays)
	if !ok {
		return
	}
	p.LookbackDays = days
	h.writeResult(w, toMarketingReportDTO(interpret.MarketingEfficiency(h.Ctx, p)))
}

// PortfolioHealth classifies products into portfolio categories.
// GET /api/interpret/portfolio-health
func (h *Handler) PortfolioHealth(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toPortfolioReportDTO(interpret.PortfolioHealth(h.Ctx, h.Thresholds.Portfolio)))
}

// InventoryHealth measures the revenue impact of stockouts.
// GET /api/interpret/inventory-health?lookback_days=30
func (h *Handler) InventoryHealth(w http.ResponseWriter, r *http.Request) {
	p := h.Thresholds.Inventory
	days, ok := h.queryInt(w, r, "lookback_days", p.LookbackDays)
	if !ok {
		return
	}
	p.LookbackDays = days
	h.writeResult(w, toInventoryReportDTO(interpret.InventoryHealth(h.Ctx, p)))
}

// ChannelRisk evaluates over-dependence on individual channels.
// GET /api/interpret/channel-risk
func (h *Handler) ChannelRisk(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, toChannelReportDTO(interpret.ChannelRisk(h.Ctx, h.Thresholds.Channel)))
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

type RecommendationsResponse struct {
	SessionID       string                     `json:"session_id"`
	AsOf            string                     `json:"as_of"`
	Flags           []interpret.Flag           `json:"flags"`
	GrowthSignal    interpret.Signal           `json:"growth_signal"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Recommendations runs every interpreter and maps the combined findings to
// executive actions. Interpreters run in a fixed order (marketing,
// portfolio, inventory, channel) so the output is reproducible.
// GET /api/recommendations
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var flags []interpret.Flag
	flags = append(flags, interpret.MarketingEfficiency(h.Ctx, h.Thresholds.Marketing).Flags...)
	flags = append(flags, interpret.PortfolioHealth(h.Ctx, h.Thresholds.Portfolio).Flags...)
	flags = append(flags, interpret.InventoryHealth(h.Ctx, h.Thresholds.Inventory).Flags...)
	flags = append(flags, interpret.ChannelRisk(h.Ctx, h.Thresholds.Channel).Flags...)

	signal, err := h.growthSignal(7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assess growth quality", err)
		return
	}

	latest, _ := h.Ctx.LatestDay()
	h.writeResult(w, RecommendationsResponse{
		SessionID:       h.Ctx.SessionID,
		AsOf:            asOf(latest),
		Flags:           emptyFlags(flags),
		GrowthSignal:    signal,
		Recommendations: recommend.Generate(flags, &signal),
	})
}

// growthSignal builds the growth-quality signal from the n-day pulse and the
// full-history product profit table.
func (h *Handler) growthSignal(days int) (interpret.Signal, error) {
	pulse, err := aggregate.RecentPerformance(h.Ctx, days)
	if err != nil {
		return interpret.Signal{}, err
	}
	return interpret.GrowthQuality(pulse, aggregate.ProfitByProduct(h.Ctx)), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// queryInt parses an optional positive integer query parameter. On a
// malformed value it writes a 400 and reports ok=false.
func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parameter %q must be a positive integer", name), err)
		return 0, false
	}
	return v, true
}

// writeResult stamps the dataset session before serializing.
func (h *Handler) writeResult(w http.ResponseWriter, data any) {
	w.Header().Set("X-Session-ID", h.Ctx.SessionID)
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
