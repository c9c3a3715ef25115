package models

import (
	"sipre-forecast/internal/config"
)

// ScenarioRequest carries the scenario levers. Zero fields fall back to the
// preset named by ScenarioFile (when given) and then to the defaults.
type ScenarioRequest struct {
	Name                    string  `json:"name,omitempty"`
	BauxitePriceShockPct    float64 `json:"bauxite_price_shock_pct"`
	FDIFlowShockPct         float64 `json:"fdi_flow_shock_pct"`
	PolicyRateAdjustmentBps float64 `json:"policy_rate_adjustment_bps"`
	ForecastHorizonMonths   int     `json:"forecast_horizon_months" default:"3" binding:"omitempty,oneof=1 3 6 12"`
}

// ToConfig converts the request into a preset overlay.
func (r ScenarioRequest) ToConfig() config.ScenarioConfig {
	return config.ScenarioConfig{
		Name:                    r.Name,
		BauxitePriceShockPct:    r.BauxitePriceShockPct,
		FDIFlowShockPct:         r.FDIFlowShockPct,
		PolicyRateAdjustmentBps: r.PolicyRateAdjustmentBps,
		ForecastHorizonMonths:   r.ForecastHorizonMonths,
	}
}

// EvaluateRequest is the body of POST /api/v1/scenario/evaluate and /scenario/note.
type EvaluateRequest struct {
	// ScenarioFile names a preset in the scenario directory, e.g. "bauxite_crash".
	ScenarioFile string `json:"scenario_file,omitempty"`
	ScenarioRequest
	Options EvaluateOptions `json:"options,omitempty"`
}

// EvaluateOptions contains optional response shaping.
type EvaluateOptions struct {
	// HistoryMonths appends the last N observations to the response (0 = none).
	HistoryMonths int `json:"history_months,omitempty" binding:"min=0,max=240"`
}

// CompareRequest evaluates every variation on top of Base.
type CompareRequest struct {
	Base       EvaluateRequest     `json:"base"`
	Variations []ScenarioVariation `json:"variations" binding:"required,min=1,max=20,dive"`
}

// ScenarioVariation is one named override of the base scenario.
type ScenarioVariation struct {
	Name         string          `json:"name" binding:"required"`
	ScenarioFile string          `json:"scenario_file,omitempty"`
	Scenario     ScenarioRequest `json:"scenario"`
}
