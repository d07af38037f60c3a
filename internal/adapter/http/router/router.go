package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/http/handler"
	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/http/middleware"
)

// Setup creates and configures the Gin router for the scoring callback server.
// runsHandler is nil when run recording is not configured.
func Setup(db *gorm.DB, redisClient *redis.Client, scoreHandler *handler.ScoreHandler, runsHandler *handler.RunsHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(db, redisClient)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scoring callbacks queried by the explanation sidecar
	router.POST("/callbacks/:id/score", scoreHandler.Score)

	// Run history, only when recording is configured
	if runsHandler != nil {
		router.GET("/runs", runsHandler.List)
	}

	return router
}
