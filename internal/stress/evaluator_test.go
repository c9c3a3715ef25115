package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		reserves float64
		bauxite  float64
		want     Level
		reasons  []string
	}{
		{"baseline", 2.1, 0, LevelStable, nil},
		{"exactly at floor", 1.5, 0, LevelStable, nil},
		{"exactly at shock limit", 2.0, -30, LevelStable, nil},
		{"severe bauxite shock with ample reserves", 10, -40, LevelCritical, []string{ReasonBauxiteShockBelowLimit}},
		{"reserves below floor", 1.49, 5, LevelCritical, []string{ReasonReservesBelowFloor}},
		{"negative reserves", -0.4, -10, LevelCritical, []string{ReasonReservesBelowFloor}},
		{"both rules", 1.05, -50, LevelCritical, []string{ReasonReservesBelowFloor, ReasonBauxiteShockBelowLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.reserves, tt.bauxite)
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, tt.reasons, got.Reasons)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestBauxiteMinus40AlwaysCritical(t *testing.T) {
	for _, reserves := range []float64{-5, 0, 1.5, 2.5, 100} {
		assert.True(t, Evaluate(reserves, -40).Critical())
	}
}

func TestCriticalMessageCarriesReserves(t *testing.T) {
	got := Evaluate(1.05, -50)
	assert.Equal(t, "ALERT: reserves fall to 1.05 bn USD. Critical safety threshold!", got.Message)
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{ReserveFloorUSDBillion: 3, BauxiteShockLimitPct: -10}
	assert.Equal(t, LevelCritical, p.Evaluate(2.5, 0).Level)
	assert.Equal(t, LevelCritical, p.Evaluate(4, -15).Level)
	assert.Equal(t, LevelStable, p.Evaluate(4, -5).Level)
}
