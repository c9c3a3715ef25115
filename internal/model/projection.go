package model

import "time"

// DateLayout is the canonical day format used in files and API payloads.
const DateLayout = "2006-01-02"

// ProjectionPoint is one projected inflation value.
type ProjectionPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ProjectionSeries is the forward projection; its length equals the horizon.
type ProjectionSeries []ProjectionPoint

func (p ProjectionSeries) Values() []float64 {
	out := make([]float64, len(p))
	for i, pt := range p {
		out[i] = pt.Value
	}
	return out
}

// MonthStart truncates t to the first day of its month, keeping the location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FutureMonths returns n consecutive month starts following last.
func FutureMonths(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	base := MonthStart(last)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.AddDate(0, i+1, 0)
	}
	return out
}
