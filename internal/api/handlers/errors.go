package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"sipre-forecast/internal/api/models"
	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/model"
	"sipre-forecast/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// Error codes returned in models.ErrorDetail.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeDataUnavailable  = "DATA_UNAVAILABLE"
	CodePipelineError    = "PIPELINE_ERROR"
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondRunError maps a pipeline error onto its HTTP status and code.
func respondRunError(c *gin.Context, err error) {
	var paramErr *model.InvalidParameterError
	switch {
	case errors.As(err, &paramErr):
		respondError(c, http.StatusBadRequest, CodeInvalidParameter, err.Error(), map[string]interface{}{
			"field": paramErr.Field,
			// NaN and Inf are not valid JSON numbers
			"value": fmt.Sprint(paramErr.Value),
		})
	case errors.Is(err, pipeline.ErrEmptyHistory), errors.Is(err, dataset.ErrDataUnavailable):
		respondError(c, http.StatusServiceUnavailable, CodeDataUnavailable, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, CodePipelineError, err.Error(), nil)
	}
}
