package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]model.Observation, 36)
	for i := range obs {
		obs[i] = model.Observation{
			Date: start.AddDate(0, i, 0),
			IndicatorSnapshot: model.IndicatorSnapshot{
				InflationPct:       9 - 0.1*float64(i) + 0.5*math.Sin(2*math.Pi*float64(i)/12),
				ReservesUSDBillion: 2.1,
				FXRateGNFPerUSD:    8750,
				BankLiquidityPct:   110,
				NPLRatioPct:        6.5,
			},
		}
	}
	obs[35].InflationPct = 5.2

	path := filepath.Join(t.TempDir(), "bcrg.csv")
	require.NoError(t, dataset.WriteCSV(path, model.HistoricalSeries{Observations: obs}))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEvaluateCommand(t *testing.T) {
	data := writeDataset(t)
	csvOut := filepath.Join(t.TempDir(), "results", "projection.csv")

	out, err := run(t, "evaluate", "--data", data, "--bauxite=-50", "--horizon=6", "--out", csvOut, "--tail=12")
	require.NoError(t, err, out)

	assert.Contains(t, out, "1.05 bn USD")
	assert.Contains(t, out, "+200 GNF")
	assert.Contains(t, out, "[CRITICAL]")
	assert.Contains(t, out, "Inflation projection (model)")
	assert.Contains(t, out, "2026-01  ")
	assert.Contains(t, out, "2026-06  ")

	f, err := os.Open(csvOut)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1+12+6)
	assert.Equal(t, "2026-01-01", rows[13][0])
	assert.Equal(t, "projection", rows[13][1])
}

func TestEvaluateCommandJSON(t *testing.T) {
	out, err := run(t, "evaluate", "--data", writeDataset(t), "--fdi=10", "--policy=100", "--json")
	require.NoError(t, err, out)

	var resp models.EvaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "custom", resp.Scenario)
	assert.Equal(t, 3, resp.Params.ForecastHorizonMonths)
	assert.InDelta(t, 2.1*1.05, resp.Revised.ReservesUSDBillion, 1e-9)
	assert.InDelta(t, 109.0, resp.Revised.BankLiquidityPct, 1e-9)
	assert.Len(t, resp.Forecast.Projection, 3)
}

func TestEvaluateCommandScenarioFile(t *testing.T) {
	preset := filepath.Join(t.TempDir(), "crash.yaml")
	require.NoError(t, os.WriteFile(preset, []byte(`scenario:
  name: crash
  bauxite_price_shock_pct: -50
  fdi_flow_shock_pct: -20
  forecast_horizon_months: 12
`), 0o644))

	// an explicit zero flag overrides the preset
	out, err := run(t, "evaluate", "--data", writeDataset(t), "--scenario-file", preset, "--fdi=0", "--json")
	require.NoError(t, err, out)

	var resp models.EvaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "crash", resp.Scenario)
	assert.Equal(t, -50.0, resp.Params.BauxitePriceShockPct)
	assert.Zero(t, resp.Params.FDIFlowShockPct)
	assert.Len(t, resp.Forecast.Projection, 12)
}

func TestEvaluateCommandRejectsHorizon(t *testing.T) {
	_, err := run(t, "evaluate", "--data", writeDataset(t), "--horizon=5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--horizon must be one of")
}

func TestEvaluateCommandMissingData(t *testing.T) {
	_, err := run(t, "evaluate", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestNoteCommand(t *testing.T) {
	out, err := run(t, "note", "--data", writeDataset(t), "--bauxite=-50")
	require.NoError(t, err, out)
	assert.Contains(t, out, "CONJUNCTURE NOTE")
	assert.Contains(t, out, "GNF/USD rate:      8950 (+200 GNF)")
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", "--data", writeDataset(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "36 observations, 2023-01-01 to 2025-12-01")
	assert.Contains(t, out, "inflation_pct")
	assert.Contains(t, out, "npl_ratio_pct")
}
