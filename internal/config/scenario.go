package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sipre-forecast/internal/model"
)

// ScenarioConfig is a named scenario preset.
type ScenarioConfig struct {
	Name                    string  `yaml:"name" json:"name"`
	Description             string  `yaml:"description" json:"description,omitempty"`
	BauxitePriceShockPct    float64 `yaml:"bauxite_price_shock_pct" json:"bauxite_price_shock_pct"`
	FDIFlowShockPct         float64 `yaml:"fdi_flow_shock_pct" json:"fdi_flow_shock_pct"`
	PolicyRateAdjustmentBps float64 `yaml:"policy_rate_adjustment_bps" json:"policy_rate_adjustment_bps"`
	ForecastHorizonMonths   int     `yaml:"forecast_horizon_months" json:"forecast_horizon_months"`
}

type scenarioFileWrapper struct {
	Scenario ScenarioConfig `yaml:"scenario"`
}

// LoadScenarioFile reads a preset. A file without a name is named after its base name.
func LoadScenarioFile(path string) (ScenarioConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScenarioConfig{}, err
	}
	var w scenarioFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ScenarioConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if w.Scenario.Name == "" {
		w.Scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w.Scenario, nil
}

// LoadScenarioDir reads every *.yaml / *.yml preset in dir, sorted by name.
// A missing directory yields no presets.
func LoadScenarioDir(dir string) ([]ScenarioConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []ScenarioConfig
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		sc, err := LoadScenarioFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ResolveScenarioFile finds name in dir, with or without an extension.
// Names that are absolute or would leave dir are rejected.
func ResolveScenarioFile(dir, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("invalid scenario file %q", name)
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".yaml", name+".yml")
	}
	for _, c := range candidates {
		p := filepath.Join(dir, c)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("scenario file %q not found in %s", name, dir)
}

// MergeScenario overlays non-zero fields from override onto base.
// This is used when loading a preset and then applying overrides from the request.
func MergeScenario(base, override ScenarioConfig) ScenarioConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.BauxitePriceShockPct != 0 {
		out.BauxitePriceShockPct = override.BauxitePriceShockPct
	}
	if override.FDIFlowShockPct != 0 {
		out.FDIFlowShockPct = override.FDIFlowShockPct
	}
	if override.PolicyRateAdjustmentBps != 0 {
		out.PolicyRateAdjustmentBps = override.PolicyRateAdjustmentBps
	}
	if override.ForecastHorizonMonths != 0 {
		out.ForecastHorizonMonths = override.ForecastHorizonMonths
	}
	return out
}

// Params converts the preset, defaulting an unset horizon.
func (s ScenarioConfig) Params() model.ScenarioParameters {
	p := model.ScenarioParameters{
		BauxitePriceShockPct:    s.BauxitePriceShockPct,
		FDIFlowShockPct:         s.FDIFlowShockPct,
		PolicyRateAdjustmentBps: s.PolicyRateAdjustmentBps,
		ForecastHorizonMonths:   s.ForecastHorizonMonths,
	}
	if p.ForecastHorizonMonths == 0 {
		p.ForecastHorizonMonths = model.DefaultForecastHorizonMonths
	}
	return p
}

// ScenarioFromParams is the inverse of Params.
func ScenarioFromParams(name string, p model.ScenarioParameters) ScenarioConfig {
	return ScenarioConfig{
		Name:                    name,
		BauxitePriceShockPct:    p.BauxitePriceShockPct,
		FDIFlowShockPct:         p.FDIFlowShockPct,
		PolicyRateAdjustmentBps: p.PolicyRateAdjustmentBps,
		ForecastHorizonMonths:   p.ForecastHorizonMonths,
	}
}
