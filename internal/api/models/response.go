package models

import (
	"time"

	"sipre-forecast/internal/analysis"
	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"
	"sipre-forecast/internal/stress"
)

// EvaluateResponse represents one evaluated scenario
type EvaluateResponse struct {
	ID       string                   `json:"id"`
	Scenario string                   `json:"scenario,omitempty"`
	Params   model.ScenarioParameters `json:"params"`
	Latest   model.IndicatorSnapshot  `json:"latest"`
	Revised  model.IndicatorSnapshot  `json:"revised"`
	KPIs     pipeline.KPIs            `json:"kpis"`
	Stress   StressInfo               `json:"stress"`
	Forecast ForecastInfo             `json:"forecast"`
	History  []HistoryPoint           `json:"history,omitempty"`
}

// StressInfo is the stress assessment of a scenario.
type StressInfo struct {
	Level   stress.Level `json:"level"`
	Message string       `json:"message"`
	Reasons []string     `json:"reasons,omitempty"`
}

// ForecastInfo describes the adjusted inflation projection. Status is "fallback"
// with a Reason when the seasonal model could not be fitted.
type ForecastInfo struct {
	Status     forecast.Status   `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	Delta      float64           `json:"delta"`
	Params     *forecast.Params  `json:"params,omitempty"`
	Projection []ProjectionPoint `json:"projection"`
}

type ProjectionPoint struct {
	Date  string   `json:"date"` // YYYY-MM-DD, first of month
	Value float64  `json:"value"`
	Raw   *float64 `json:"raw,omitempty"`
}

type HistoryPoint struct {
	Date string `json:"date"`
	model.IndicatorSnapshot
}

// NewEvaluateResponse flattens a pipeline result for the wire.
func NewEvaluateResponse(name string, res *pipeline.Result) EvaluateResponse {
	points := make([]ProjectionPoint, len(res.Forecast.Projection))
	for i, p := range res.Forecast.Projection {
		points[i] = ProjectionPoint{Date: p.Date.Format(model.DateLayout), Value: p.Value}
		if i < len(res.Forecast.Raw) {
			raw := res.Forecast.Raw[i]
			points[i].Raw = &raw
		}
	}

	return EvaluateResponse{
		ID:       res.ID,
		Scenario: name,
		Params:   res.Params,
		Latest:   res.Latest,
		Revised:  res.Revised.IndicatorSnapshot,
		KPIs:     res.KPIs,
		Stress: StressInfo{
			Level:   res.Stress.Level,
			Message: res.Stress.Message,
			Reasons: res.Stress.Reasons,
		},
		Forecast: ForecastInfo{
			Status:     res.Forecast.Status,
			Reason:     res.Forecast.Reason(),
			Delta:      res.Forecast.Delta,
			Params:     res.Forecast.Params,
			Projection: points,
		},
	}
}

// NewHistory converts the tail of a series to wire points.
func NewHistory(s model.HistoricalSeries) []HistoryPoint {
	out := make([]HistoryPoint, s.Len())
	for i, o := range s.Observations {
		out[i] = HistoryPoint{Date: o.Date.Format(model.DateLayout), IndicatorSnapshot: o.IndicatorSnapshot}
	}
	return out
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank   int              `json:"rank"`
	Name   string           `json:"name"`
	Result EvaluateResponse `json:"result"`
}

// NewCompareResponse keeps the ranking order.
func NewCompareResponse(ranked []analysis.RankedScenario) CompareResponse {
	out := CompareResponse{Comparison: make([]ComparisonResult, len(ranked))}
	for i, r := range ranked {
		out.Comparison[i] = ComparisonResult{
			Rank:   r.Rank,
			Name:   r.Name,
			Result: NewEvaluateResponse(r.Name, r.Result),
		}
	}
	return out
}

// ScenarioInfo represents information about a scenario preset
type ScenarioInfo struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Params      model.ScenarioParameters `json:"params"`
}

// ParameterInfo describes a scenario parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int"
	Unit        string      `json:"unit"`
	Description string      `json:"description"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	Options     []int       `json:"options,omitempty"`
	Default     interface{} `json:"default"`
}

// ThresholdInfo exposes the active stress policy.
type ThresholdInfo struct {
	ReserveFloorUSDBillion float64 `json:"reserve_floor_usd_billion"`
	BauxiteShockLimitPct   float64 `json:"bauxite_shock_limit_pct"`
}

// DatasetInfo describes the loaded historical snapshot
type DatasetInfo struct {
	Source       string                  `json:"source"`
	Observations int                     `json:"observations"`
	FirstDate    time.Time               `json:"first_date"`
	LastDate     time.Time               `json:"last_date"`
	Latest       model.IndicatorSnapshot `json:"latest"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
