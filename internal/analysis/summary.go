package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"sipre-forecast/internal/model"
)

// IndicatorSummary is a distribution summary of one indicator over the dataset.
type IndicatorSummary struct {
	Indicator string `json:"indicator"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Count int `json:"count"`

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`

	Last float64 `json:"last"`
	// Change is last minus first observation.
	Change float64 `json:"change"`
}

// Summarize returns one summary per indicator, in IndicatorSnapshot.Fields order.
func Summarize(s model.HistoricalSeries) []IndicatorSummary {
	if s.Empty() {
		return nil
	}
	columns := make([][]float64, 0, 5)
	var names []string
	for i, o := range s.Observations {
		for j, f := range o.Fields() {
			if i == 0 {
				names = append(names, f.Name)
				columns = append(columns, make([]float64, 0, s.Len()))
			}
			columns[j] = append(columns[j], f.Value)
		}
	}

	out := make([]IndicatorSummary, len(names))
	for j, name := range names {
		out[j] = summarize(name, columns[j])
		out[j].Start = s.FirstDate()
		out[j].End = s.LastDate()
	}
	return out
}

func summarize(name string, vals []float64) IndicatorSummary {
	p := IndicatorSummary{Indicator: name, Count: len(vals)}
	if len(vals) == 0 {
		return p
	}
	p.Last = vals[len(vals)-1]
	p.Change = p.Last - vals[0]

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, v := range vals {
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	p.Min = minv
	p.Max = maxv
	if len(vals) > 1 {
		var variance float64
		p.Mean, variance = stat.MeanVariance(vals, nil)
		// rounding can leave a constant column with a tiny negative variance
		p.StdDev = math.Sqrt(math.Max(variance, 0))
	} else {
		p.Mean = vals[0]
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	p.P05 = percentileSorted(sorted, 0.05)
	p.P95 = percentileSorted(sorted, 0.95)
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
