package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestScenarioValidateRejectsNonFinite(t *testing.T) {
	cases := []struct {
		name  string
		p     ScenarioParameters
		field string
	}{
		{"nan bauxite", ScenarioParameters{BauxitePriceShockPct: math.NaN(), ForecastHorizonMonths: 3}, "bauxite_price_shock_pct"},
		{"inf fdi", ScenarioParameters{FDIFlowShockPct: math.Inf(1), ForecastHorizonMonths: 3}, "fdi_flow_shock_pct"},
		{"neg inf policy", ScenarioParameters{PolicyRateAdjustmentBps: math.Inf(-1), ForecastHorizonMonths: 3}, "policy_rate_adjustment_bps"},
		{"zero horizon", ScenarioParameters{}, "forecast_horizon_months"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
			var ipe *InvalidParameterError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tc.field, ipe.Field)
		})
	}
}

func TestScenarioValidateAcceptsOutOfTypicalRange(t *testing.T) {
	p := ScenarioParameters{BauxitePriceShockPct: -90, FDIFlowShockPct: 75, PolicyRateAdjustmentBps: 900, ForecastHorizonMonths: 5}
	assert.NoError(t, p.Validate())
	assert.False(t, IsRecognizedHorizon(5))
	assert.True(t, IsRecognizedHorizon(12))
}

func TestSnapshotValidateBounds(t *testing.T) {
	ok := IndicatorSnapshot{InflationPct: 5, ReservesUSDBillion: 2, FXRateGNFPerUSD: 8600, BankLiquidityPct: 100, NPLRatioPct: 6}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.ReservesUSDBillion = -1
	bad.FXRateGNFPerUSD = 0
	bad.NPLRatioPct = 120
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserves_usd_billion")
	assert.Contains(t, err.Error(), "fx_rate_gnf_per_usd")
	assert.Contains(t, err.Error(), "npl_ratio_pct")
}

func TestHistoricalSeriesOrdering(t *testing.T) {
	_, err := NewHistoricalSeries([]Observation{
		{Date: month(2024, 2)},
		{Date: month(2024, 1)},
	})
	require.Error(t, err)

	s, err := NewHistoricalSeries([]Observation{
		{Date: month(2024, 1), IndicatorSnapshot: IndicatorSnapshot{InflationPct: 9}},
		{Date: month(2024, 2), IndicatorSnapshot: IndicatorSnapshot{InflationPct: 8}},
	})
	require.NoError(t, err)
	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 8.0, latest.InflationPct)
	assert.Equal(t, []float64{9, 8}, s.Inflation())
	assert.Equal(t, month(2024, 2), s.LastDate())
	assert.Equal(t, 1, s.Tail(1).Len())
}

func TestHistoricalSeriesRejectsNaN(t *testing.T) {
	_, err := NewHistoricalSeries([]Observation{
		{Date: month(2024, 1), IndicatorSnapshot: IndicatorSnapshot{InflationPct: math.NaN()}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFutureMonths(t *testing.T) {
	got := FutureMonths(month(2025, 11), 3)
	assert.Equal(t, []time.Time{month(2025, 12), month(2026, 1), month(2026, 2)}, got)

	// mid-month dates still land on the following month starts
	mid := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, month(2025, 2), FutureMonths(mid, 1)[0])
	assert.Nil(t, FutureMonths(mid, 0))
}
