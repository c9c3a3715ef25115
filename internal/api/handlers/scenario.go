package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"sipre-forecast/internal/analysis"
	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/config"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"
	"sipre-forecast/internal/report"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ScenarioHandler handles scenario evaluation requests
type ScenarioHandler struct {
	engine      *pipeline.Engine
	data        Dataset
	scenarioDir string
	concurrency int
	logger      zerolog.Logger
}

// NewScenarioHandler creates a new scenario handler. concurrency bounds the
// number of variations evaluated at once by Compare.
func NewScenarioHandler(engine *pipeline.Engine, data Dataset, scenarioDir string, concurrency int, logger zerolog.Logger) *ScenarioHandler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScenarioHandler{
		engine:      engine,
		data:        data,
		scenarioDir: scenarioDir,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "scenario_handler").Logger(),
	}
}

// requestError is a client mistake detected before the pipeline runs.
type requestError struct {
	code    string
	message string
	details map[string]interface{}
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) respond(c *gin.Context) {
	respondError(c, http.StatusBadRequest, e.code, e.message, e.details)
}

// Evaluate handles POST /api/v1/scenario/evaluate
func (h *ScenarioHandler) Evaluate(c *gin.Context) {
	req, ok := h.bindEvaluate(c)
	if !ok {
		return
	}
	sc, reqErr := h.buildScenario(req)
	if reqErr != nil {
		reqErr.respond(c)
		return
	}

	res, err := h.engine.Run(c.Request.Context(), h.data.History, sc.Params())
	if err != nil {
		respondRunError(c, err)
		return
	}

	response := models.NewEvaluateResponse(sc.Name, res)
	if req.Options.HistoryMonths > 0 {
		response.History = models.NewHistory(h.data.History.Tail(req.Options.HistoryMonths))
	}
	c.JSON(http.StatusOK, response)
}

// Note handles POST /api/v1/scenario/note
func (h *ScenarioHandler) Note(c *gin.Context) {
	req, ok := h.bindEvaluate(c)
	if !ok {
		return
	}
	sc, reqErr := h.buildScenario(req)
	if reqErr != nil {
		reqErr.respond(c)
		return
	}

	res, err := h.engine.Run(c.Request.Context(), h.data.History, sc.Params())
	if err != nil {
		respondRunError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.NewRenderer(&buf).Render(res); err != nil {
		respondError(c, http.StatusInternalServerError, CodePipelineError, err.Error(), nil)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// Compare handles POST /api/v1/scenario/compare
func (h *ScenarioHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	base, reqErr := h.buildScenario(req.Base)
	if reqErr != nil {
		reqErr.respond(c)
		return
	}

	// Resolve every variation up front so a bad preset fails the whole request
	// before any evaluation starts.
	params := make([]model.ScenarioParameters, len(req.Variations))
	for i, v := range req.Variations {
		sc, reqErr := h.mergeVariation(base, v)
		if reqErr != nil {
			reqErr.respond(c)
			return
		}
		params[i] = sc.Params()
	}

	results := make([]analysis.NamedResult, len(req.Variations))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(h.concurrency)
	for i, v := range req.Variations {
		i, v := i, v
		g.Go(func() error {
			res, err := h.engine.Run(ctx, h.data.History, params[i])
			if err != nil {
				return fmt.Errorf("variation %q: %w", v.Name, err)
			}
			results[i] = analysis.NamedResult{Name: v.Name, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		respondRunError(c, err)
		return
	}

	h.logger.Info().Int("variations", len(results)).Msg("scenario comparison completed")
	c.JSON(http.StatusOK, models.NewCompareResponse(analysis.RankScenarios(results)))
}

func (h *ScenarioHandler) bindEvaluate(c *gin.Context) (models.EvaluateRequest, bool) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return req, false
	}
	return req, true
}

// buildScenario loads the optional preset and overlays the request on it.
// Defaults only fill fields neither the preset nor the request set.
func (h *ScenarioHandler) buildScenario(req models.EvaluateRequest) (config.ScenarioConfig, *requestError) {
	sc := config.ScenarioConfig{}
	if req.ScenarioFile != "" {
		preset, reqErr := h.loadPreset(req.ScenarioFile)
		if reqErr != nil {
			return config.ScenarioConfig{}, reqErr
		}
		sc = preset
	}
	sc = config.MergeScenario(sc, req.ScenarioRequest.ToConfig())

	var defaulted models.ScenarioRequest
	if err := defaults.Set(&defaulted); err != nil {
		return config.ScenarioConfig{}, &requestError{code: CodeInvalidRequest, message: err.Error()}
	}
	sc = config.MergeScenario(defaulted.ToConfig(), sc)

	if reqErr := checkHorizon(sc); reqErr != nil {
		return config.ScenarioConfig{}, reqErr
	}
	return sc, nil
}

func (h *ScenarioHandler) mergeVariation(base config.ScenarioConfig, v models.ScenarioVariation) (config.ScenarioConfig, *requestError) {
	sc := base
	if v.ScenarioFile != "" {
		preset, reqErr := h.loadPreset(v.ScenarioFile)
		if reqErr != nil {
			return config.ScenarioConfig{}, reqErr
		}
		sc = config.MergeScenario(sc, preset)
	}
	sc = config.MergeScenario(sc, v.Scenario.ToConfig())
	sc.Name = v.Name
	if reqErr := checkHorizon(sc); reqErr != nil {
		return config.ScenarioConfig{}, reqErr
	}
	return sc, nil
}

func (h *ScenarioHandler) loadPreset(name string) (config.ScenarioConfig, *requestError) {
	path, err := config.ResolveScenarioFile(h.scenarioDir, name)
	if err != nil {
		return config.ScenarioConfig{}, &requestError{
			code:    CodeInvalidRequest,
			message: err.Error(),
			details: map[string]interface{}{"scenario_file": name},
		}
	}
	preset, err := config.LoadScenarioFile(path)
	if err != nil {
		// parse errors quote file content, so they stay in the server log
		h.logger.Warn().Err(err).Str("scenario_file", name).Msg("failed to load scenario preset")
		return config.ScenarioConfig{}, &requestError{
			code:    CodeInvalidRequest,
			message: fmt.Sprintf("scenario file %q could not be loaded", name),
			details: map[string]interface{}{"scenario_file": name},
		}
	}
	return preset, nil
}

// checkHorizon enforces the recognized horizon set, which presets can bypass
// since they are not bound through the request validator.
func checkHorizon(sc config.ScenarioConfig) *requestError {
	h := sc.Params().ForecastHorizonMonths
	if model.IsRecognizedHorizon(h) {
		return nil
	}
	return &requestError{
		code:    CodeInvalidParameter,
		message: fmt.Sprintf("forecast_horizon_months must be one of %v, got %d", model.ForecastHorizons, h),
		details: map[string]interface{}{
			"field":   "forecast_horizon_months",
			"value":   h,
			"options": model.ForecastHorizons,
		},
	}
}
