package handlers

import (
	"net/http"

	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/stress"

	"github.com/gin-gonic/gin"
)

// ParameterHandler describes the scenario inputs
type ParameterHandler struct {
	policy stress.Policy
}

// NewParameterHandler creates a new parameter handler
func NewParameterHandler(policy stress.Policy) *ParameterHandler {
	return &ParameterHandler{policy: policy}
}

// ListParameters handles GET /api/v1/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	parameters := []models.ParameterInfo{
		{
			Name:        "bauxite_price_shock_pct",
			Type:        "float",
			Unit:        "%",
			Description: "Change in the world bauxite price. Drives export receipts and reserves.",
			Min:         ptr(model.BauxiteShockMinPct),
			Max:         ptr(model.BauxiteShockMaxPct),
			Default:     0.0,
		},
		{
			Name:        "fdi_flow_shock_pct",
			Type:        "float",
			Unit:        "%",
			Description: "Change in foreign direct investment inflows.",
			Min:         ptr(model.FDIShockMinPct),
			Max:         ptr(model.FDIShockMaxPct),
			Default:     0.0,
		},
		{
			Name:        "policy_rate_adjustment_bps",
			Type:        "float",
			Unit:        "bps",
			Description: "Change in the central bank policy rate. Tightening lowers inflation and drains liquidity.",
			Min:         ptr(model.PolicyAdjustMinBps),
			Max:         ptr(model.PolicyAdjustMaxBps),
			Default:     0.0,
		},
		{
			Name:        "forecast_horizon_months",
			Type:        "int",
			Unit:        "months",
			Description: "Length of the inflation projection.",
			Options:     model.ForecastHorizons,
			Default:     model.DefaultForecastHorizonMonths,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"parameters": parameters,
		"thresholds": models.ThresholdInfo{
			ReserveFloorUSDBillion: h.policy.ReserveFloorUSDBillion,
			BauxiteShockLimitPct:   h.policy.BauxiteShockLimitPct,
		},
	})
}

func ptr(v float64) *float64 { return &v }
