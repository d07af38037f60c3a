package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/metrics"
)

// ScoreRequest carries a batch of (possibly perturbed) texts from the
// explanation sidecar
type ScoreRequest struct {
	Texts []string `json:"texts" binding:"required,min=1"`
}

// ScoreResult carries one canonical probability vector per requested text
type ScoreResult struct {
	Probabilities [][]float64 `json:"probabilities"`
}

// ScoreHandler exposes scoring callbacks to the explanation sidecar. Each
// explanation binds its predictor under a fresh UUID route before the explain
// call and releases it afterwards; requests for released or unknown IDs get 404.
//
// It implements service.CallbackRegistry.
type ScoreHandler struct {
	baseURL string
	logger  *zap.Logger

	mu       sync.RWMutex
	bindings map[uuid.UUID]service.ScoreFunc
}

// NewScoreHandler creates a score handler advertising callback URLs under baseURL
func NewScoreHandler(baseURL string, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		baseURL:  baseURL,
		logger:   logger,
		bindings: make(map[uuid.UUID]service.ScoreFunc),
	}
}

// Bind registers a scoring function and returns its callback URL together
// with a release function
func (h *ScoreHandler) Bind(fn service.ScoreFunc) (string, func()) {
	id := uuid.New()

	h.mu.Lock()
	h.bindings[id] = fn
	h.mu.Unlock()

	release := func() {
		h.mu.Lock()
		delete(h.bindings, id)
		h.mu.Unlock()
	}

	return fmt.Sprintf("%s/callbacks/%s/score", h.baseURL, id), release
}

// Score handles POST /callbacks/:id/score
func (h *ScoreHandler) Score(c *gin.Context) {
	start := time.Now()

	id, err := CallbackID(c)
	if err != nil {
		HandleInvalidRequest(c, "invalid callback id")
		return
	}

	h.mu.RLock()
	fn, ok := h.bindings[id]
	h.mu.RUnlock()
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "no active scoring binding for this callback")
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, "texts are required")
		return
	}

	metrics.ScoreRequests.Inc()

	vectors, err := fn(c.Request.Context(), req.Texts)
	if err != nil {
		h.logger.Error("scoring callback failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Int("texts", len(req.Texts)),
			zap.Error(err),
		)
		HandleScoreError(c, err)
		return
	}

	metrics.ScoreLatency.Observe(time.Since(start).Seconds())
	respondSuccess(c, http.StatusOK, ScoreResult{Probabilities: vectors})
}
