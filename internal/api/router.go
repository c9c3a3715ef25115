// Package api wires the HTTP handlers onto a gin router.
package api

import (
	"os"
	"path/filepath"
	"strings"

	"sipre-forecast/internal/api/handlers"
	"sipre-forecast/internal/api/middleware"
	"sipre-forecast/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Engine  *pipeline.Engine
	Dataset handlers.Dataset
	Logger  zerolog.Logger
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer

	ScenarioDir        string
	StaticDir          string
	CORSOrigins        []string
	CompareConcurrency int
}

// NewRouter builds the gin engine with middleware, API routes and optional
// static file serving.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))

	scenarioHandler := handlers.NewScenarioHandler(d.Engine, d.Dataset, d.ScenarioDir, d.CompareConcurrency, d.Logger)
	datasetHandler := handlers.NewDatasetHandler(d.Dataset)
	parameterHandler := handlers.NewParameterHandler(d.Engine.Policy())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/parameters", parameterHandler.ListParameters)
		api.GET("/scenarios", scenarioHandler.ListScenarios)

		api.GET("/dataset", datasetHandler.GetDataset)
		api.GET("/dataset/summary", datasetHandler.GetSummary)

		api.POST("/scenario/evaluate", scenarioHandler.Evaluate)
		api.POST("/scenario/compare", scenarioHandler.Compare)
		api.POST("/scenario/note", scenarioHandler.Note)
	}

	serveStatic(router, d.StaticDir, d.Logger)
	return router
}

// serveStatic serves a built dashboard from dir, falling back to index.html for
// client-side routes. API paths never fall back.
func serveStatic(router *gin.Engine, dir string, logger zerolog.Logger) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Info().Str("static_dir", dir).Msg("static directory not found, skipping static file serving")
		return
	}

	assets := filepath.Join(dir, "assets")
	if _, err := os.Stat(assets); err == nil {
		router.Static("/assets", assets)
	}
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.File(index)
	})
	logger.Info().Str("static_dir", dir).Msg("serving static files")
}
