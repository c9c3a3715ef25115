package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/logging"
	"sipre-forecast/internal/stress"
)

// EnvPrefix namespaces environment overrides, e.g. SIPRE_PORT.
const EnvPrefix = "SIPRE"

var validate = validator.New()

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Environment string         `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig   `yaml:"server"`
	Logging     LoggingConfig  `yaml:"logging"`
	Dataset     DatasetConfig  `yaml:"dataset"`
	Forecast    ForecastConfig `yaml:"forecast"`
	Stress      StressConfig   `yaml:"stress"`
	// ScenarioDir holds preset files (examples/scenarios/*.yaml).
	ScenarioDir string `yaml:"scenario_dir" default:"examples/scenarios"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port               int      `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	StaticDir          string   `yaml:"static_dir" default:"web"`
	CORSOrigins        []string `yaml:"cors_origins" default:"[\"*\"]"`
	CompareConcurrency int      `yaml:"compare_concurrency" default:"4" validate:"min=1,max=64"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout" validate:"required"`
}

// DatasetConfig selects and locates the historical dataset.
type DatasetConfig struct {
	// Source is one of csv, xlsx, json, sql, http, synthetic; empty infers from Path.
	Source            string `yaml:"source" validate:"omitempty,oneof=csv xlsx json sql http synthetic"`
	Path              string `yaml:"path" default:"data/bcrg_data.csv"`
	Sheet             string `yaml:"sheet"`
	DSN               string `yaml:"dsn"`
	Query             string `yaml:"query"`
	URL               string `yaml:"url" validate:"omitempty,url"`
	APIKey            string `yaml:"api_key"`
	Seed              int64  `yaml:"seed" default:"42"`
	SyntheticFallback bool   `yaml:"synthetic_fallback" default:"true"`
}

type ForecastConfig struct {
	FitCache    bool          `yaml:"fit_cache"`
	FitCacheTTL time.Duration `yaml:"fit_cache_ttl" default:"1h"`
}

type StressConfig struct {
	ReserveFloorUSDBillion float64 `yaml:"reserve_floor_usd_billion" default:"1.5"`
	BauxiteShockLimitPct   float64 `yaml:"bauxite_shock_limit_pct" default:"-30"`
}

// envOverrides carries no defaults so that only variables actually set replace file values.
type envOverrides struct {
	Port          int    `envconfig:"PORT"`
	Environment   string `envconfig:"ENV"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
	DatasetPath   string `envconfig:"DATASET_PATH"`
	DatasetSource string `envconfig:"DATASET_SOURCE"`
	DatasetDSN    string `envconfig:"DATASET_DSN"`
	ScenarioDir   string `envconfig:"SCENARIO_DIR"`
}

// Load reads path (optional), fills defaults, applies SIPRE_* overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads defaults and the file, without env overrides or validation.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Relative paths inside the file are relative to the file when they exist there.
	dir := filepath.Dir(path)
	c.ScenarioDir = resolvePath(dir, c.ScenarioDir)
	c.Dataset.Path = resolvePath(dir, c.Dataset.Path)
	return &c, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.Environment != "" {
		c.Environment = env.Environment
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.DatasetPath != "" {
		c.Dataset.Path = env.DatasetPath
	}
	if env.DatasetSource != "" {
		c.Dataset.Source = env.DatasetSource
	}
	if env.DatasetDSN != "" {
		c.Dataset.DSN = env.DatasetDSN
	}
	if env.ScenarioDir != "" {
		c.ScenarioDir = env.ScenarioDir
	}
	return nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	switch c.Dataset.Source {
	case dataset.KindSQL:
		if c.Dataset.DSN == "" {
			return errors.New("dataset.dsn is required for source sql")
		}
	case dataset.KindHTTP:
		if c.Dataset.URL == "" {
			return errors.New("dataset.url is required for source http")
		}
	case dataset.KindSynthetic:
	default:
		if c.Dataset.Path == "" {
			return errors.New("dataset.path is required for file sources")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

// DatasetOptions converts the dataset section for dataset.Open.
func (c *Config) DatasetOptions() dataset.Options {
	d := c.Dataset
	return dataset.Options{
		Kind:              d.Source,
		Path:              d.Path,
		Sheet:             d.Sheet,
		DSN:               d.DSN,
		Query:             d.Query,
		URL:               d.URL,
		APIKey:            d.APIKey,
		Seed:              d.Seed,
		SyntheticFallback: d.SyntheticFallback,
	}
}

func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Logging.Level, Format: c.Logging.Format, Output: c.Logging.Output}
}

func (c *Config) StressPolicy() stress.Policy {
	return stress.Policy{
		ReserveFloorUSDBillion: c.Stress.ReserveFloorUSDBillion,
		BauxiteShockLimitPct:   c.Stress.BauxiteShockLimitPct,
	}
}

// resolvePath prefers p relative to dir, falling back to p as given (relative to cwd).
func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}
