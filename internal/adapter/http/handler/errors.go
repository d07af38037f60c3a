package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapScoreError maps scoring failures to HTTP error responses for the
// explanation sidecar. Classifier-side failures are upstream errors from the
// callback server's point of view.
func MapScoreError(err error) ErrorResponse {
	switch {
	case errors.Is(err, service.ErrIncompletePrediction):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "INCOMPLETE_PREDICTION",
			Message:    "classifier returned fewer class scores than declared classes",
		}
	case errors.Is(err, service.ErrPrediction):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "PREDICTION_FAILED",
			Message:    "classifier failed to score the perturbed texts",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleScoreError handles a scoring error by sending an appropriate HTTP response
func HandleScoreError(c *gin.Context, err error) {
	errResp := MapScoreError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
