// Package pipeline composes the impact calculator, the stress evaluator and the
// forecast adjuster into one scenario evaluation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/impact"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/stress"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrEmptyHistory is returned when there is no observation to apply a scenario to.
var ErrEmptyHistory = errors.New("historical series is empty")

// Recorder receives one call per successful evaluation.
type Recorder interface {
	RecordEvaluation(stressLevel string, forecastFallback bool, revisedReserves float64, elapsed time.Duration)
}

// Engine runs scenarios through impact, stress and forecast. It is safe for concurrent use.
type Engine struct {
	adjuster *forecast.Adjuster
	policy   stress.Policy
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithAdjuster replaces the default forecast adjuster.
func WithAdjuster(a *forecast.Adjuster) Option {
	return func(e *Engine) { e.adjuster = a }
}

// WithPolicy sets the stress thresholds.
func WithPolicy(p stress.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with the default adjuster and stress policy.
func New(opts ...Option) *Engine {
	e := &Engine{
		adjuster: forecast.NewAdjuster(),
		policy:   stress.DefaultPolicy(),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Policy() stress.Policy { return e.policy }

// Run evaluates one scenario against history. Invalid parameters and an empty
// history are fatal; a forecast fit failure is not and shows up as
// Result.Forecast.Status == forecast.StatusFallback.
func (e *Engine) Run(ctx context.Context, history model.HistoricalSeries, params model.ScenarioParameters) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := e.now()

	latest, ok := history.Latest()
	if !ok {
		return nil, ErrEmptyHistory
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	imp, err := impact.Apply(latest, params)
	if err != nil {
		return nil, fmt.Errorf("apply scenario: %w", err)
	}

	assessment := e.policy.Evaluate(imp.Revised.ReservesUSDBillion, params.BauxitePriceShockPct)
	fc := e.adjuster.Adjust(history, imp.Revised, latest, params.ForecastHorizonMonths)

	id := uuid.NewString()
	log := e.logger.With().Str("evaluation_id", id).Logger()
	if fc.Fallback() {
		log.Warn().
			Int("observations", history.Len()).
			Str("reason", fc.Reason()).
			Msg("forecast model unavailable, using flat projection")
	}

	res := &Result{
		ID:           id,
		Params:       params,
		Latest:       latest,
		Revised:      imp.Revised,
		FXPressure:   imp.FXPressure,
		PolicyEffect: imp.PolicyEffect,
		Forecast:     fc,
		Stress:       assessment,
		KPIs:         BuildKPIs(latest, imp, params),
	}

	elapsed := e.now().Sub(start)
	if e.recorder != nil {
		e.recorder.RecordEvaluation(string(assessment.Level), fc.Fallback(), imp.Revised.ReservesUSDBillion, elapsed)
	}
	log.Info().
		Str("stress_level", string(assessment.Level)).
		Str("forecast_status", string(fc.Status)).
		Float64("revised_reserves", imp.Revised.ReservesUSDBillion).
		Dur("elapsed", elapsed).
		Msg("scenario evaluated")

	return res, nil
}
