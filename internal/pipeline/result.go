package pipeline

import (
	"fmt"
	"math"

	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/impact"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/stress"
)

// Result is everything one evaluation produces.
// It is the primary artifact consumed by the API, the CLI and the note renderer.
type Result struct {
	ID     string                   `json:"id"`
	Params model.ScenarioParameters `json:"params"`

	Latest  model.IndicatorSnapshot `json:"latest"`
	Revised model.RevisedSnapshot   `json:"revised"`

	FXPressure   float64 `json:"fx_pressure"`
	PolicyEffect float64 `json:"policy_effect"`

	Forecast forecast.Result   `json:"forecast"`
	Stress   stress.Assessment `json:"stress"`
	KPIs     KPIs              `json:"kpis"`
}

// Projection is a shortcut for Forecast.Projection.
func (r *Result) Projection() model.ProjectionSeries { return r.Forecast.Projection }

// KPI is a headline value with its change against the latest observation.
type KPI struct {
	Value      float64 `json:"value"`
	Delta      float64 `json:"delta"`
	ValueLabel string  `json:"value_label"`
	DeltaLabel string  `json:"delta_label"`
}

// KPIs are the four headline indicators shown for a scenario.
type KPIs struct {
	Inflation KPI `json:"inflation"`
	Reserves  KPI `json:"reserves"`
	FXRate    KPI `json:"fx_rate"`
	Liquidity KPI `json:"liquidity"`
}

// BuildKPIs formats the four headline indicators.
func BuildKPIs(latest model.IndicatorSnapshot, imp impact.Impact, params model.ScenarioParameters) KPIs {
	rev := imp.Revised

	inflationDelta := rev.InflationPct - latest.InflationPct
	reservesDelta := rev.ReservesUSDBillion - latest.ReservesUSDBillion
	liquidityBps := -params.PolicyRateAdjustmentBps
	if liquidityBps == 0 {
		// normalize -0
		liquidityBps = 0
	}

	return KPIs{
		Inflation: KPI{
			Value:      rev.InflationPct,
			Delta:      inflationDelta,
			ValueLabel: fmt.Sprintf("%.2f%%", rev.InflationPct),
			DeltaLabel: fmt.Sprintf("%.2f%%", inflationDelta),
		},
		Reserves: KPI{
			Value:      rev.ReservesUSDBillion,
			Delta:      reservesDelta,
			ValueLabel: fmt.Sprintf("%.2f bn USD", rev.ReservesUSDBillion),
			DeltaLabel: fmt.Sprintf("%.2f bn USD", reservesDelta),
		},
		FXRate: KPI{
			Value:      rev.FXRateGNFPerUSD,
			Delta:      imp.FXPressure,
			ValueLabel: fmt.Sprintf("%d", int64(math.Trunc(rev.FXRateGNFPerUSD))),
			DeltaLabel: FXPressureLabel(imp.FXPressure),
		},
		Liquidity: KPI{
			Value:      rev.BankLiquidityPct,
			Delta:      rev.BankLiquidityPct - latest.BankLiquidityPct,
			ValueLabel: fmt.Sprintf("%.1f%%", rev.BankLiquidityPct),
			DeltaLabel: fmt.Sprintf("%g bps", liquidityBps),
		},
	}
}

// FXPressureLabel renders "+N GNF" for positive pressure and "Stable" otherwise.
func FXPressureLabel(pressure float64) string {
	if pressure > 0 {
		return fmt.Sprintf("+%d GNF", int64(math.Trunc(pressure)))
	}
	return "Stable"
}
