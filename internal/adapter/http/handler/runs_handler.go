package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/repository"
)

// RunListResult pages through recorded explanation runs, newest first
type RunListResult struct {
	Runs    []*entity.Run `json:"runs"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// RunsHandler serves the recorded explanation run history. It is only
// registered when run recording is configured.
type RunsHandler struct {
	runs repository.RunRepository
}

// NewRunsHandler creates a new run history handler
func NewRunsHandler(runs repository.RunRepository) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// List handles GET /runs with optional method, limit and offset query params
func (h *RunsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var (
		runs  []*entity.Run
		total int64
		err   error
	)
	if method := c.Query("method"); method != "" {
		runs, total, err = h.runs.GetByMethod(c.Request.Context(), method, limit, offset)
	} else {
		runs, total, err = h.runs.List(c.Request.Context(), limit, offset)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list runs")
		return
	}

	respondSuccess(c, http.StatusOK, RunListResult{
		Runs:    runs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	})
}
