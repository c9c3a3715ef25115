// Package forecast projects inflation forward with a seasonal Holt-Winters model and
// shifts the projection by the scenario's inflation impact.
package forecast

import (
	"errors"

	"sipre-forecast/internal/model"
)

// Status reports whether the projection came from the fitted model.
type Status string

const (
	StatusModel    Status = "model"
	StatusFallback Status = "fallback"
)

// Result is one adjusted projection.
type Result struct {
	Projection model.ProjectionSeries `json:"projection"`
	// Raw is the unshifted model forecast; nil on fallback.
	Raw    []float64 `json:"raw,omitempty"`
	Delta  float64   `json:"delta"`
	Status Status    `json:"status"`
	// FitError is the caught *ModelFitError on fallback.
	FitError error   `json:"-"`
	Params   *Params `json:"params,omitempty"`
}

func (r Result) Fallback() bool { return r.Status == StatusFallback }

// Reason is the fit failure message, empty when the model was used.
func (r Result) Reason() string {
	if r.FitError == nil {
		return ""
	}
	return r.FitError.Error()
}

// Adjuster fits the inflation history and re-anchors the forecast on the revised inflation.
type Adjuster struct {
	period int
	cache  *FitCache
}

// Option configures an Adjuster.
type Option func(*Adjuster)

// WithFitCache enables fitted-weight memoization.
func WithFitCache(c *FitCache) Option {
	return func(a *Adjuster) { a.cache = c }
}

// WithSeasonalPeriod overrides SeasonalPeriod.
func WithSeasonalPeriod(m int) Option {
	return func(a *Adjuster) { a.period = m }
}

// NewAdjuster creates an adjuster with a 12-month season and no fit cache.
func NewAdjuster(opts ...Option) *Adjuster {
	a := &Adjuster{period: SeasonalPeriod}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Adjust fits the inflation history, forecasts horizon months and shifts every
// point by revised.inflation - latest.inflation. A fit failure never surfaces as
// an error: the result is a flat line at the revised inflation with StatusFallback.
func (a *Adjuster) Adjust(history model.HistoricalSeries, revised model.RevisedSnapshot, latest model.IndicatorSnapshot, horizon int) Result {
	delta := revised.InflationPct - latest.InflationPct
	dates := model.FutureMonths(history.LastDate(), horizon)

	hw, err := a.fit(history.Inflation())
	if err != nil {
		projection := make(model.ProjectionSeries, len(dates))
		for i, d := range dates {
			projection[i] = model.ProjectionPoint{Date: d, Value: revised.InflationPct}
		}
		return Result{
			Projection: projection,
			Delta:      delta,
			Status:     StatusFallback,
			FitError:   err,
		}
	}

	raw := hw.Forecast(len(dates))
	projection := make(model.ProjectionSeries, len(dates))
	for i, d := range dates {
		projection[i] = model.ProjectionPoint{Date: d, Value: raw[i] + delta}
	}
	params := hw.Params
	return Result{
		Projection: projection,
		Raw:        raw,
		Delta:      delta,
		Status:     StatusModel,
		Params:     &params,
	}
}

func (a *Adjuster) fit(y []float64) (*HoltWinters, error) {
	key := ""
	if a.cache != nil {
		key = SeriesKey(y, a.period)
		if p, ok := a.cache.Get(key); ok {
			return newHoltWinters(y, a.period, p)
		}
	}
	hw, err := FitHoltWinters(y, a.period)
	if err != nil {
		var fitErr *ModelFitError
		if !errors.As(err, &fitErr) {
			err = &ModelFitError{Reason: err.Error(), Observations: len(y)}
		}
		return nil, err
	}
	a.cache.Set(key, hw.Params)
	return hw, nil
}
