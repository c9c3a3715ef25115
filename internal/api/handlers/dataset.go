package handlers

import (
	"net/http"

	"sipre-forecast/internal/analysis"
	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/model"

	"github.com/gin-gonic/gin"
)

// Dataset is the historical snapshot served by the API. It is loaded once at
// startup and never mutated.
type Dataset struct {
	Source  string
	History model.HistoricalSeries
}

// DatasetHandler handles dataset-related requests
type DatasetHandler struct {
	data Dataset
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(data Dataset) *DatasetHandler {
	return &DatasetHandler{data: data}
}

// GetDataset handles GET /api/v1/dataset
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	latest, ok := h.data.History.Latest()
	if !ok {
		respondError(c, http.StatusServiceUnavailable, CodeDataUnavailable, "no historical data loaded", nil)
		return
	}

	c.JSON(http.StatusOK, models.DatasetInfo{
		Source:       h.data.Source,
		Observations: h.data.History.Len(),
		FirstDate:    h.data.History.FirstDate(),
		LastDate:     h.data.History.LastDate(),
		Latest:       latest,
	})
}

// GetSummary handles GET /api/v1/dataset/summary
func (h *DatasetHandler) GetSummary(c *gin.Context) {
	if h.data.History.Empty() {
		respondError(c, http.StatusServiceUnavailable, CodeDataUnavailable, "no historical data loaded", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":     h.data.Source,
		"indicators": analysis.Summarize(h.data.History),
	})
}
