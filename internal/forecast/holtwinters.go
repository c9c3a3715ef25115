package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// SeasonalPeriod is the seasonal cycle length for monthly data.
const SeasonalPeriod = 12

const (
	maxIterations = 500

	initialAlpha = 0.3
	initialBeta  = 0.1
	initialGamma = 0.1

	logitBound = 30.0
)

// Params are the fitted smoothing weights and the in-sample one-step SSE.
type Params struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	SSE   float64 `json:"sse"`
}

// HoltWinters is a fitted additive-trend, additive-seasonal exponential smoothing model.
type HoltWinters struct {
	Params Params

	period int
	level  float64
	trend  float64
	// season[i] is the seasonal component for time n-period+i.
	season []float64
}

type hwState struct {
	level  float64
	trend  float64
	season []float64
}

// FitHoltWinters fits the model to y. It needs at least two full seasonal cycles
// of finite, non-constant data.
func FitHoltWinters(y []float64, period int) (*HoltWinters, error) {
	if err := checkSeries(y, period); err != nil {
		return nil, err
	}
	init := initialState(y, period)

	objective := func(x []float64) float64 {
		a, b, g := logistic(x[0]), logistic(x[1]), logistic(x[2])
		_, sse := smooth(y, period, init, a, b, g)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return math.MaxFloat64
		}
		return sse
	}

	x0 := []float64{logit(initialAlpha), logit(initialBeta), logit(initialGamma)}
	best, bestF := x0, objective(x0)

	// An early stop (iteration limit) still carries the best simplex vertex.
	res, _ := optimize.Minimize(
		optimize.Problem{Func: objective},
		x0,
		&optimize.Settings{MajorIterations: maxIterations},
		&optimize.NelderMead{},
	)
	if res != nil && len(res.X) == len(x0) && res.F <= bestF {
		best = res.X
	}

	return fitWithParams(y, period, init, Params{
		Alpha: logistic(best[0]),
		Beta:  logistic(best[1]),
		Gamma: logistic(best[2]),
	})
}

// newHoltWinters rebuilds a model from known weights without searching.
func newHoltWinters(y []float64, period int, p Params) (*HoltWinters, error) {
	if err := checkSeries(y, period); err != nil {
		return nil, err
	}
	return fitWithParams(y, period, initialState(y, period), p)
}

func fitWithParams(y []float64, period int, init hwState, p Params) (*HoltWinters, error) {
	final, sse := smooth(y, period, init, p.Alpha, p.Beta, p.Gamma)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return nil, &ModelFitError{Reason: "non-finite sum of squared errors", Observations: len(y)}
	}
	p.SSE = sse
	return &HoltWinters{
		Params: p,
		period: period,
		level:  final.level,
		trend:  final.trend,
		season: final.season,
	}, nil
}

// Forecast returns h out-of-sample values:
// y(n+h) = level + h*trend + season(n+h-m(k+1)), k = floor((h-1)/m).
func (m *HoltWinters) Forecast(h int) []float64 {
	if h <= 0 {
		return nil
	}
	out := make([]float64, h)
	for i := 1; i <= h; i++ {
		out[i-1] = m.level + float64(i)*m.trend + m.season[(i-1)%m.period]
	}
	return out
}

func checkSeries(y []float64, period int) error {
	if period < 2 {
		return &ModelFitError{Reason: fmt.Sprintf("seasonal period %d is too short", period), Observations: len(y)}
	}
	if len(y) < 2*period {
		return &ModelFitError{
			Reason:       fmt.Sprintf("need at least %d observations, have %d", 2*period, len(y)),
			Observations: len(y),
		}
	}
	constant := true
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ModelFitError{Reason: fmt.Sprintf("non-finite value at index %d", i), Observations: len(y)}
		}
		if v != y[0] {
			constant = false
		}
	}
	if constant {
		return &ModelFitError{Reason: "series is constant", Observations: len(y)}
	}
	return nil
}

// initialState derives level and trend from the first two cycle means and the
// seasonal indices from the detrended first cycle. The returned level and trend
// are positioned one step before the first observation.
func initialState(y []float64, m int) hwState {
	mean1 := stat.Mean(y[:m], nil)
	mean2 := stat.Mean(y[m:2*m], nil)
	trend := (mean2 - mean1) / float64(m)

	season := make([]float64, m)
	center := float64(m-1) / 2
	for i := range season {
		season[i] = y[i] - (mean1 + (float64(i)-center)*trend)
	}
	return hwState{
		level:  mean1 - trend*float64(m+1)/2,
		trend:  trend,
		season: season,
	}
}

// smooth runs the recursions over y and returns the final state with the one-step SSE.
func smooth(y []float64, m int, init hwState, alpha, beta, gamma float64) (hwState, float64) {
	season := make([]float64, len(y)+m)
	copy(season, init.season)
	level, trend := init.level, init.trend

	sse := 0.0
	for t, v := range y {
		s := season[t]
		e := v - (level + trend + s)
		sse += e * e

		prevLevel, prevTrend := level, trend
		level = alpha*(v-s) + (1-alpha)*(prevLevel+prevTrend)
		trend = beta*(level-prevLevel) + (1-beta)*prevTrend
		season[t+m] = gamma*(v-prevLevel-prevTrend) + (1-gamma)*s
	}
	return hwState{level: level, trend: trend, season: season[len(y):]}, sse
}

// logistic maps the unconstrained search space onto (0,1). Inputs are clamped so
// the weights never round to exactly 0 or 1.
func logistic(x float64) float64 {
	x = math.Max(-logitBound, math.Min(logitBound, x))
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 { return math.Log(p / (1 - p)) }
