package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipre-forecast/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	assert.Equal(t, 4, c.Server.CompareConcurrency)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "data/bcrg_data.csv", c.Dataset.Path)
	assert.Equal(t, int64(42), c.Dataset.Seed)
	assert.True(t, c.Dataset.SyntheticFallback)
	assert.False(t, c.Forecast.FitCache)
	assert.Equal(t, time.Hour, c.Forecast.FitCacheTTL)
	assert.Equal(t, 1.5, c.StressPolicy().ReserveFloorUSDBillion)
	assert.Equal(t, -30.0, c.StressPolicy().BauxiteShockLimitPct)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/bcrg.xlsx", "placeholder")
	path := writeFile(t, dir, "sipre.yaml", `
environment: production
server:
  port: 9090
logging:
  level: warn
dataset:
  source: xlsx
  path: data/bcrg.xlsx
  sheet: Indicateurs
  synthetic_fallback: false
forecast:
  fit_cache: true
stress:
  reserve_floor_usd_billion: 2
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.IsProduction())
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, filepath.Join(dir, "data/bcrg.xlsx"), c.Dataset.Path)
	assert.False(t, c.Dataset.SyntheticFallback)
	assert.True(t, c.Forecast.FitCache)
	assert.Equal(t, 2.0, c.Stress.ReserveFloorUSDBillion)
	assert.Equal(t, -30.0, c.Stress.BauxiteShockLimitPct)

	opts := c.DatasetOptions()
	assert.Equal(t, "xlsx", opts.Kind)
	assert.Equal(t, "Indicateurs", opts.Sheet)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SIPRE_PORT", "7070")
	t.Setenv("SIPRE_LOG_LEVEL", "debug")
	t.Setenv("SIPRE_DATASET_SOURCE", "synthetic")
	t.Setenv("SIPRE_SCENARIO_DIR", "/srv/scenarios")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "synthetic", c.Dataset.Source)
	assert.Equal(t, "/srv/scenarios", c.ScenarioDir)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"bad level":        "logging:\n  level: loud\n",
		"bad port":         "server:\n  port: 70000\n",
		"bad source":       "dataset:\n  source: parquet\n",
		"sql without dsn":  "dataset:\n  source: sql\n",
		"http without url": "dataset:\n  source: http\n",
		"bad env":          "environment: prod\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "c.yaml", content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScenarioPresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crash.yaml", `
scenario:
  name: bauxite_crash
  bauxite_price_shock_pct: -50
  fdi_flow_shock_pct: -20
  forecast_horizon_months: 6
`)
	writeFile(t, dir, "unnamed.yml", `
scenario:
  policy_rate_adjustment_bps: 250
`)
	writeFile(t, dir, "notes.txt", "ignored")

	presets, err := LoadScenarioDir(dir)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "bauxite_crash", presets[0].Name)
	assert.Equal(t, "unnamed", presets[1].Name)

	assert.Equal(t, model.ScenarioParameters{
		PolicyRateAdjustmentBps: 250,
		ForecastHorizonMonths:   model.DefaultForecastHorizonMonths,
	}, presets[1].Params())

	p, err := ResolveScenarioFile(dir, "crash")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "crash.yaml"), p)
	_, err = ResolveScenarioFile(dir, "../etc/passwd")
	assert.Error(t, err)
	_, err = ResolveScenarioFile(dir, filepath.Join(dir, "crash.yaml"))
	assert.Error(t, err, "absolute names are rejected even inside dir")
	_, err = ResolveScenarioFile(dir, "sub/../../crash")
	assert.Error(t, err)
	_, err = ResolveScenarioFile(dir, "nope")
	assert.Error(t, err)

	none, err := LoadScenarioDir(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMergeScenario(t *testing.T) {
	base := ScenarioConfig{Name: "crash", BauxitePriceShockPct: -50, FDIFlowShockPct: -20, ForecastHorizonMonths: 6}
	got := MergeScenario(base, ScenarioConfig{PolicyRateAdjustmentBps: 300, ForecastHorizonMonths: 12})

	assert.Equal(t, ScenarioConfig{
		Name:                    "crash",
		BauxitePriceShockPct:    -50,
		FDIFlowShockPct:         -20,
		PolicyRateAdjustmentBps: 300,
		ForecastHorizonMonths:   12,
	}, got)
	assert.Equal(t, base, MergeScenario(base, ScenarioConfig{}))
}

func TestShippedExamplesLoad(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)

	presets, err := LoadScenarioDir(c.ScenarioDir)
	require.NoError(t, err)
	require.NotEmpty(t, presets)
	for _, p := range presets {
		assert.True(t, model.IsRecognizedHorizon(p.Params().ForecastHorizonMonths), p.Name)
	}
}
