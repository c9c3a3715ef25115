package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvaluation(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordEvaluation("CRITICAL", true, 1.05, 20*time.Millisecond)
	r.RecordEvaluation("STABLE", false, 2.1, 10*time.Millisecond)
	r.RecordEvaluation("STABLE", false, 2.2, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("CRITICAL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("STABLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks))
	assert.Equal(t, 2.2, testutil.ToFloat64(r.reserves))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.ElementsMatch(t, []string{
		"sipre_evaluations_total",
		"sipre_forecast_fallbacks_total",
		"sipre_evaluation_duration_seconds",
		"sipre_revised_reserves_usd_billion",
	}, names)
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
