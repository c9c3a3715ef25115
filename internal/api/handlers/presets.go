package handlers

import (
	"net/http"

	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/config"

	"github.com/gin-gonic/gin"
)

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	presets, err := config.LoadScenarioDir(h.scenarioDir)
	if err != nil {
		h.logger.Error().Err(err).Str("dir", h.scenarioDir).Msg("failed to read scenario presets")
		respondError(c, http.StatusInternalServerError, CodePipelineError, "failed to read scenario presets: "+err.Error(), nil)
		return
	}

	scenarios := make([]models.ScenarioInfo, 0, len(presets))
	for _, p := range presets {
		scenarios = append(scenarios, models.ScenarioInfo{
			ID:          p.Name,
			Name:        p.Name,
			Description: p.Description,
			Params:      p.Params(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios, "count": len(scenarios)})
}
