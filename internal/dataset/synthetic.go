package dataset

import (
	"context"
	"math/rand"
	"time"

	"sipre-forecast/internal/model"
)

var syntheticStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	SyntheticMonths = 60
	TrendMonths     = 72
)

// SyntheticSource generates a uniformly random dataset. The same seed always
// yields the same series.
type SyntheticSource struct {
	Seed int64
}

func (s SyntheticSource) Name() string { return "synthetic" }

func (s SyntheticSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoricalSeries{}, err
	}
	return RandomSeries(rand.New(rand.NewSource(s.Seed))), nil
}

// RandomSeries draws 60 monthly observations from 2020-01 with independent
// uniform values per indicator.
func RandomSeries(rng *rand.Rand) model.HistoricalSeries {
	obs := make([]model.Observation, SyntheticMonths)
	for i := range obs {
		obs[i] = model.Observation{
			Date: syntheticStart.AddDate(0, i, 0),
			IndicatorSnapshot: model.IndicatorSnapshot{
				InflationPct:       uniform(rng, 8, 12),
				ReservesUSDBillion: uniform(rng, 1.8, 2.5),
				FXRateGNFPerUSD:    uniform(rng, 8500, 8700),
				BankLiquidityPct:   uniform(rng, 90, 110),
				NPLRatioPct:        uniform(rng, 5, 8),
			},
		}
	}
	return model.HistoricalSeries{Observations: obs}
}

// TrendSeries generates 72 months (2020-01 to 2025-12) of disinflation with
// rising reserves, a slowly depreciating currency and falling NPLs, plus noise.
func TrendSeries(rng *rand.Rand) model.HistoricalSeries {
	n := TrendMonths
	inflation := linspace(12.5, 5.2, n)
	reserves := linspace(1.6, 2.1, n)
	fx := linspace(8500, 8750, n)
	npl := linspace(10, 6.5, n)

	obs := make([]model.Observation, n)
	for i := range obs {
		obs[i] = model.Observation{
			Date: syntheticStart.AddDate(0, i, 0),
			IndicatorSnapshot: model.IndicatorSnapshot{
				InflationPct:       inflation[i] + rng.NormFloat64()*0.3,
				ReservesUSDBillion: reserves[i] + rng.NormFloat64()*0.05,
				FXRateGNFPerUSD:    fx[i] + rng.NormFloat64()*20,
				BankLiquidityPct:   uniform(rng, 95, 120),
				NPLRatioPct:        npl[i] + rng.NormFloat64()*0.2,
			},
		}
	}
	return model.HistoricalSeries{Observations: obs}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// linspace returns n evenly spaced values from start to stop inclusive.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
