package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// IndicatorSnapshot is the set of tracked macro indicators at one point in time.
// Units:
// - InflationPct: annualized CPI change, %
// - ReservesUSDBillion: foreign reserves, bn USD (>= 0)
// - FXRateGNFPerUSD: GNF per USD (> 0)
// - BankLiquidityPct: system liquidity ratio, %
// - NPLRatioPct: non-performing loans, % in [0,100]
type IndicatorSnapshot struct {
	InflationPct       float64 `json:"inflation_pct"`
	ReservesUSDBillion float64 `json:"reserves_usd_billion"`
	FXRateGNFPerUSD    float64 `json:"fx_rate_gnf_per_usd"`
	BankLiquidityPct   float64 `json:"bank_liquidity_pct"`
	NPLRatioPct        float64 `json:"npl_ratio_pct"`
}

// Fields returns the snapshot values keyed by their wire names, in a stable order.
func (s IndicatorSnapshot) Fields() []NamedValue {
	return []NamedValue{
		{Name: "inflation_pct", Value: s.InflationPct},
		{Name: "reserves_usd_billion", Value: s.ReservesUSDBillion},
		{Name: "fx_rate_gnf_per_usd", Value: s.FXRateGNFPerUSD},
		{Name: "bank_liquidity_pct", Value: s.BankLiquidityPct},
		{Name: "npl_ratio_pct", Value: s.NPLRatioPct},
	}
}

// NamedValue is one indicator field and its name.
type NamedValue struct {
	Name  string
	Value float64
}

// CheckFinite reports the first non-finite field.
func (s IndicatorSnapshot) CheckFinite() error {
	for _, f := range s.Fields() {
		if !isFinite(f.Value) {
			return &InvalidParameterError{Field: f.Name, Value: f.Value}
		}
	}
	return nil
}

// Validate checks the documented bounds. It is meant for data loaders; the impact
// calculator does not call it.
func (s IndicatorSnapshot) Validate() error {
	if err := s.CheckFinite(); err != nil {
		return err
	}
	var errs []error
	if s.ReservesUSDBillion < 0 {
		errs = append(errs, errors.New("reserves_usd_billion must be >= 0"))
	}
	if s.FXRateGNFPerUSD <= 0 {
		errs = append(errs, errors.New("fx_rate_gnf_per_usd must be > 0"))
	}
	if s.NPLRatioPct < 0 || s.NPLRatioPct > 100 {
		errs = append(errs, errors.New("npl_ratio_pct must be in [0, 100]"))
	}
	return errors.Join(errs...)
}

// RevisedSnapshot is a snapshot derived by applying a scenario to the latest observation.
type RevisedSnapshot struct {
	IndicatorSnapshot
}

// Observation is one row of the historical dataset.
type Observation struct {
	Date time.Time `json:"date"`
	IndicatorSnapshot
}

// HistoricalSeries is an ordered, read-only set of monthly observations.
type HistoricalSeries struct {
	Observations []Observation
}

// NewHistoricalSeries validates obs, which must already be in date order.
func NewHistoricalSeries(obs []Observation) (HistoricalSeries, error) {
	s := HistoricalSeries{Observations: obs}
	if err := s.Validate(); err != nil {
		return HistoricalSeries{}, err
	}
	return s, nil
}

// Validate checks that dates are strictly increasing and values are finite.
func (s HistoricalSeries) Validate() error {
	for i, o := range s.Observations {
		if err := o.CheckFinite(); err != nil {
			return fmt.Errorf("observation %d (%s): %w", i, o.Date.Format(DateLayout), err)
		}
		if i > 0 && !o.Date.After(s.Observations[i-1].Date) {
			return fmt.Errorf("observation %d (%s): dates must be strictly increasing", i, o.Date.Format(DateLayout))
		}
	}
	return nil
}

func (s HistoricalSeries) Len() int { return len(s.Observations) }

func (s HistoricalSeries) Empty() bool { return len(s.Observations) == 0 }

// Latest returns the most recent snapshot. ok is false for an empty series.
func (s HistoricalSeries) Latest() (IndicatorSnapshot, bool) {
	if len(s.Observations) == 0 {
		return IndicatorSnapshot{}, false
	}
	return s.Observations[len(s.Observations)-1].IndicatorSnapshot, true
}

// FirstDate is the zero time for an empty series.
func (s HistoricalSeries) FirstDate() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[0].Date
}

func (s HistoricalSeries) LastDate() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[len(s.Observations)-1].Date
}

// Inflation extracts the inflation column.
func (s HistoricalSeries) Inflation() []float64 {
	return s.Column(func(o IndicatorSnapshot) float64 { return o.InflationPct })
}

// Column extracts one indicator as a float slice, in series order.
func (s HistoricalSeries) Column(pick func(IndicatorSnapshot) float64) []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = pick(o.IndicatorSnapshot)
	}
	return out
}

// Tail returns the last n observations (or all of them when n <= 0 or n >= Len).
func (s HistoricalSeries) Tail(n int) HistoricalSeries {
	if n <= 0 || n >= len(s.Observations) {
		return s
	}
	return HistoricalSeries{Observations: s.Observations[len(s.Observations)-n:]}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
