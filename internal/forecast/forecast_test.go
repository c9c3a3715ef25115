package forecast

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"sipre-forecast/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seasonal = [12]float64{1, 2, 1, 0, -1, -2, -1, 0, 1, 2, -1, -2}

func trendSeason(t int) float64 {
	return 10 + 0.05*float64(t) + seasonal[t%12]
}

func monthlySeries(values []float64) model.HistoricalSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]model.Observation, len(values))
	for i, v := range values {
		obs[i] = model.Observation{
			Date:              start.AddDate(0, i, 0),
			IndicatorSnapshot: model.IndicatorSnapshot{InflationPct: v, ReservesUSDBillion: 2, FXRateGNFPerUSD: 8600},
		}
	}
	return model.HistoricalSeries{Observations: obs}
}

func noisySeries(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 12.5 - 0.1*float64(i) + 0.8*math.Sin(2*math.Pi*float64(i)/12) + rng.NormFloat64()*0.3
	}
	return out
}

func TestHoltWintersContinuesDeterministicPattern(t *testing.T) {
	n := 36
	y := make([]float64, n)
	for i := range y {
		y[i] = trendSeason(i)
	}

	hw, err := FitHoltWinters(y, SeasonalPeriod)
	require.NoError(t, err)
	assert.Less(t, hw.Params.SSE, 1e-12)

	got := hw.Forecast(15)
	require.Len(t, got, 15)
	for h := 1; h <= 15; h++ {
		assert.InDelta(t, trendSeason(n-1+h), got[h-1], 1e-6, "h=%d", h)
	}
}

func TestHoltWintersParamsInUnitInterval(t *testing.T) {
	hw, err := FitHoltWinters(noisySeries(60, 7), SeasonalPeriod)
	require.NoError(t, err)
	for _, p := range []float64{hw.Params.Alpha, hw.Params.Beta, hw.Params.Gamma} {
		assert.Greater(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	assert.False(t, math.IsNaN(hw.Params.SSE))
	for _, v := range hw.Forecast(12) {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestHoltWintersFitErrors(t *testing.T) {
	constant := make([]float64, 30)
	for i := range constant {
		constant[i] = 5.2
	}
	withNaN := noisySeries(30, 1)
	withNaN[10] = math.NaN()

	cases := map[string][]float64{
		"too short":  noisySeries(23, 1),
		"constant":   constant,
		"non-finite": withNaN,
		"empty":      nil,
	}
	for name, y := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FitHoltWinters(y, SeasonalPeriod)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrModelFit))
			var fitErr *ModelFitError
			require.True(t, errors.As(err, &fitErr))
			assert.Equal(t, len(y), fitErr.Observations)
		})
	}
}

func TestAdjustShortHistoryFallsBack(t *testing.T) {
	history := monthlySeries(noisySeries(20, 3))
	latest, _ := history.Latest()
	revised := model.RevisedSnapshot{IndicatorSnapshot: latest}
	revised.InflationPct = latest.InflationPct + 1.2

	got := NewAdjuster().Adjust(history, revised, latest, 6)

	assert.Equal(t, StatusFallback, got.Status)
	assert.True(t, got.Fallback())
	assert.ErrorIs(t, got.FitError, ErrModelFit)
	assert.NotEmpty(t, got.Reason())
	assert.Nil(t, got.Raw)
	assert.Nil(t, got.Params)
	require.Len(t, got.Projection, 6)
	for _, p := range got.Projection {
		assert.Equal(t, revised.InflationPct, p.Value)
	}
	assert.InDelta(t, 1.2, got.Delta, 1e-12)
}

func TestAdjustZeroDeltaMatchesRaw(t *testing.T) {
	history := monthlySeries(noisySeries(48, 11))
	latest, _ := history.Latest()

	got := NewAdjuster().Adjust(history, model.RevisedSnapshot{IndicatorSnapshot: latest}, latest, 12)

	require.Equal(t, StatusModel, got.Status)
	assert.Nil(t, got.FitError)
	assert.Empty(t, got.Reason())
	assert.Zero(t, got.Delta)
	assert.Equal(t, got.Raw, got.Projection.Values())
}

func TestAdjustParallelShift(t *testing.T) {
	history := monthlySeries(noisySeries(48, 5))
	latest, _ := history.Latest()
	revised := model.RevisedSnapshot{IndicatorSnapshot: latest}
	revised.InflationPct -= 0.75

	got := NewAdjuster().Adjust(history, revised, latest, 6)
	require.Equal(t, StatusModel, got.Status)
	for i, p := range got.Projection {
		assert.InDelta(t, -0.75, p.Value-got.Raw[i], 1e-9)
	}
}

func TestAdjustProjectionLengthAndDates(t *testing.T) {
	history := monthlySeries(noisySeries(72, 9))
	latest, _ := history.Latest()
	last := history.LastDate()

	for _, h := range model.ForecastHorizons {
		for _, hist := range []model.HistoricalSeries{history, history.Tail(10)} {
			got := NewAdjuster().Adjust(hist, model.RevisedSnapshot{IndicatorSnapshot: latest}, latest, h)
			require.Len(t, got.Projection, h)
			for i, p := range got.Projection {
				assert.Equal(t, last.AddDate(0, i+1, 0), p.Date)
			}
		}
	}
}

func TestFitCacheReproducesProjection(t *testing.T) {
	history := monthlySeries(noisySeries(60, 21))
	latest, _ := history.Latest()
	revised := model.RevisedSnapshot{IndicatorSnapshot: latest}
	revised.InflationPct += 0.4

	cache := NewFitCache(time.Hour)
	cached := NewAdjuster(WithFitCache(cache))

	first := cached.Adjust(history, revised, latest, 12)
	assert.Equal(t, 1, cache.Len())
	second := cached.Adjust(history, revised, latest, 12)
	plain := NewAdjuster().Adjust(history, revised, latest, 12)

	assert.Equal(t, first.Projection, second.Projection)
	assert.Equal(t, plain.Projection, second.Projection)
	assert.Equal(t, *plain.Params, *second.Params)
}

func TestFitCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFitCache(time.Minute)
	c.now = func() time.Time { return now }

	key := SeriesKey([]float64{1, 2, 3}, 12)
	c.Set(key, Params{Alpha: 0.5})
	p, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 0.5, p.Alpha)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	var nilCache *FitCache
	nilCache.Set(key, Params{})
	_, ok = nilCache.Get(key)
	assert.False(t, ok)
}

func TestSeriesKeyDistinguishesInputs(t *testing.T) {
	a := SeriesKey([]float64{1, 2, 3}, 12)
	assert.Equal(t, a, SeriesKey([]float64{1, 2, 3}, 12))
	assert.NotEqual(t, a, SeriesKey([]float64{1, 2, 3.0000001}, 12))
	assert.NotEqual(t, a, SeriesKey([]float64{1, 2, 3}, 4))
}
