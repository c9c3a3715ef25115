package model

import (
	"errors"
	"fmt"
)

// Recognized forecast horizons, in months.
var ForecastHorizons = []int{1, 3, 6, 12}

const (
	DefaultForecastHorizonMonths = 3

	BauxiteShockMinPct = -50.0
	BauxiteShockMaxPct = 20.0
	FDIShockMinPct     = -30.0
	FDIShockMaxPct     = 30.0
	PolicyAdjustMinBps = -200.0
	PolicyAdjustMaxBps = 500.0
)

// ScenarioParameters are the shocks and levers applied to the latest snapshot.
// Shock ranges are typical, not enforced: out-of-range values simply produce larger effects.
type ScenarioParameters struct {
	BauxitePriceShockPct    float64 `json:"bauxite_price_shock_pct" yaml:"bauxite_price_shock_pct"`
	FDIFlowShockPct         float64 `json:"fdi_flow_shock_pct" yaml:"fdi_flow_shock_pct"`
	PolicyRateAdjustmentBps float64 `json:"policy_rate_adjustment_bps" yaml:"policy_rate_adjustment_bps"`
	ForecastHorizonMonths   int     `json:"forecast_horizon_months" yaml:"forecast_horizon_months"`
}

// DefaultScenario is the zero-shock scenario with the default horizon.
func DefaultScenario() ScenarioParameters {
	return ScenarioParameters{ForecastHorizonMonths: DefaultForecastHorizonMonths}
}

// Validate rejects non-finite shocks and a horizon below one month.
func (p ScenarioParameters) Validate() error {
	if err := p.CheckFinite(); err != nil {
		return err
	}
	if p.ForecastHorizonMonths < 1 {
		return &InvalidParameterError{Field: "forecast_horizon_months", Value: float64(p.ForecastHorizonMonths)}
	}
	return nil
}

// CheckFinite rejects NaN and infinite shock values.
func (p ScenarioParameters) CheckFinite() error {
	for _, f := range []NamedValue{
		{Name: "bauxite_price_shock_pct", Value: p.BauxitePriceShockPct},
		{Name: "fdi_flow_shock_pct", Value: p.FDIFlowShockPct},
		{Name: "policy_rate_adjustment_bps", Value: p.PolicyRateAdjustmentBps},
	} {
		if !isFinite(f.Value) {
			return &InvalidParameterError{Field: f.Name, Value: f.Value}
		}
	}
	return nil
}

// IsRecognizedHorizon reports whether h is one of ForecastHorizons.
func IsRecognizedHorizon(h int) bool {
	for _, v := range ForecastHorizons {
		if v == h {
			return true
		}
	}
	return false
}

// ErrInvalidParameter is matched by every *InvalidParameterError.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError names the field that failed validation and its value.
type InvalidParameterError struct {
	Field string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Field, e.Value)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}
