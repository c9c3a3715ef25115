package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder publishes scenario evaluation metrics to a Prometheus registry.
type Recorder struct {
	evaluations *prometheus.CounterVec
	fallbacks   prometheus.Counter
	duration    prometheus.Histogram
	reserves    prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sipre_evaluations_total",
				Help: "Total number of scenario evaluations by stress level",
			},
			[]string{"stress_level"},
		),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "sipre_forecast_fallbacks_total",
			Help: "Evaluations whose forecast fell back to a flat line",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sipre_evaluation_duration_seconds",
			Help:    "Duration of scenario evaluations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		reserves: f.NewGauge(prometheus.GaugeOpts{
			Name: "sipre_revised_reserves_usd_billion",
			Help: "Revised reserves of the most recent evaluation",
		}),
	}
}

func (r *Recorder) RecordEvaluation(stressLevel string, forecastFallback bool, revisedReserves float64, elapsed time.Duration) {
	r.evaluations.WithLabelValues(stressLevel).Inc()
	if forecastFallback {
		r.fallbacks.Inc()
	}
	r.reserves.Set(revisedReserves)
	r.duration.Observe(elapsed.Seconds())
}
