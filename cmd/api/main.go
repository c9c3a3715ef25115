package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"sipre-forecast/internal/api"
	"sipre-forecast/internal/api/handlers"
	"sipre-forecast/internal/config"
	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/forecast"
	"sipre-forecast/internal/logging"
	"sipre-forecast/internal/metrics"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", os.Getenv("SIPRE_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The dataset is loaded once and served read-only for the process lifetime.
	// A load failure is not fatal: data endpoints answer 503 until restart.
	data := handlers.Dataset{}
	src, err := dataset.Open(ctx, cfg.DatasetOptions(), logger)
	if err != nil {
		logger.Error().Err(err).Msg("dataset source unavailable")
	} else {
		history, err := src.Load(ctx)
		if cerr := dataset.Close(src); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close dataset source")
		}
		if err != nil {
			logger.Error().Err(err).Str("source", src.Name()).Msg("failed to load dataset")
		} else {
			data = handlers.Dataset{Source: dataset.ServedBy(src), History: history}
			logger.Info().
				Str("source", data.Source).
				Int("observations", history.Len()).
				Str("first", history.FirstDate().Format(model.DateLayout)).
				Str("last", history.LastDate().Format(model.DateLayout)).
				Msg("dataset loaded")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	adjusterOpts := []forecast.Option{}
	if cfg.Forecast.FitCache {
		adjusterOpts = append(adjusterOpts, forecast.WithFitCache(forecast.NewFitCache(cfg.Forecast.FitCacheTTL)))
	}
	engine := pipeline.New(
		pipeline.WithAdjuster(forecast.NewAdjuster(adjusterOpts...)),
		pipeline.WithPolicy(cfg.StressPolicy()),
		pipeline.WithRecorder(metrics.New(registry)),
		pipeline.WithLogger(logger),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Engine:             engine,
		Dataset:            data,
		Logger:             logger,
		Gatherer:           registry,
		ScenarioDir:        cfg.ScenarioDir,
		StaticDir:          cfg.Server.StaticDir,
		CORSOrigins:        cfg.Server.CORSOrigins,
		CompareConcurrency: cfg.Server.CompareConcurrency,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().
		Str("addr", addr).
		Str("environment", cfg.Environment).
		Str("scenario_dir", cfg.ScenarioDir).
		Msg("starting API server")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
