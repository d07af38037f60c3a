package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/client"
	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/http/handler"
	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/http/router"
	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/report"
	"github.com/hanman2016/fine-grained-sentiment/internal/adapter/repository/postgres"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/repository"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/cache"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/config"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/database"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/logger"
	"github.com/hanman2016/fine-grained-sentiment/internal/registry"
	"github.com/hanman2016/fine-grained-sentiment/internal/usecase"
)

// Default samples from the SST-5 dev set, pre-tokenized
var defaultTexts = []string{
	"It 's not horrible , just horribly mediocre .",
	"Light , cute and forgettable .",
}

var (
	methods   []string
	texts     []string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "explainer",
	Short: "Explain fine-grained sentiment predictions with LIME",
	Long: `explainer produces local, perturbation-based explanations of fine-grained
sentiment predictions. Each requested method names a classifier backend; the
harness loads its model, canonicalizes its predictions into five-class
probability vectors and feeds them to the LIME sidecar, writing one HTML
report per (sample, method) pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringSliceVar(&methods, "method", nil, "explanation method to run (repeatable)")
	rootCmd.Flags().StringArrayVar(&texts, "text", nil, "text to explain (repeatable, defaults to two SST-5 samples)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for HTML reports (defaults to the configured output dir)")
	_ = rootCmd.MarkFlagRequired("method")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.Explain.OutputDir = outputDir
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Reject unknown methods before any model is loaded
	reg := registry.Default()
	if err := reg.Validate(methods); err != nil {
		return err
	}

	if len(texts) == 0 {
		texts = defaultTexts
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize run history (optional, off unless a host is configured)
	var runRepo repository.RunRepository
	var runsHandler *handler.RunsHandler
	var db *gorm.DB
	if cfg.Database.Enabled() {
		gormDB, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(gormDB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		runRepo = postgres.NewRunRepository(gormDB)
		runsHandler = handler.NewRunsHandler(runRepo)
		db = gormDB
		log.Info("Run history enabled", zap.String("host", cfg.Database.Host))
	}

	// Initialize Redis (optional, continue without it)
	var predictionCache service.PredictionCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		predictionCache = cache.NewPredictionCache(redisClient, cfg.Redis.TTL)
		log.Info("Prediction cache enabled")
	}

	// Scoring callback server queried by the explanation sidecar
	scoreHandler := handler.NewScoreHandler(cfg.Server.CallbackBaseURL(), log)
	r := router.Setup(db, redisClient, scoreHandler, runsHandler, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("Starting callback server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Callback server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Callback server forced to shutdown", zap.Error(err))
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if db != nil {
			if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
				_ = sqlDB.Close()
			}
		}
	}()

	// Model-serving sidecars
	fasttextClient := client.NewModelClient(cfg.Models.FasttextURL, cfg.Models.Timeout)
	flairClient := client.NewModelClient(cfg.Models.FlairURL, cfg.Models.Timeout)
	loaders := map[entity.Strategy]service.Loader{
		entity.StrategyBatch:      client.NewFasttextLoader(fasttextClient, entity.NumClasses),
		entity.StrategySequential: client.NewFlairLoader(flairClient),
	}

	// Explanation sidecar and report sink
	explainer := client.NewLimeExplainer(cfg.Lime.URL, cfg.Lime.Timeout, scoreHandler, entity.ClassNames())
	sink, err := report.NewFileSink(cfg.Explain.OutputDir)
	if err != nil {
		return err
	}

	uc := usecase.NewExplainUsecase(reg, loaders, explainer, sink, runRepo, predictionCache, log,
		cfg.Explain.TopLabels, cfg.Explain.NumFeatures)

	summary, err := uc.Run(ctx, &usecase.RunInput{Methods: methods, Texts: texts})
	if err != nil {
		return err
	}

	printSummary(os.Stdout, summary)

	if summary.Failed > 0 || len(summary.SkippedMethods) > 0 {
		return fmt.Errorf("%d explanations failed", summary.Failed+len(summary.SkippedMethods))
	}
	return nil
}

// printSummary reports per-sample progress on stdout. Samples are numbered
// from 1 for the reader even though artifacts carry the 0-based index.
func printSummary(w io.Writer, summary *usecase.RunSummary) {
	for _, out := range summary.Runs {
		if out.Status == string(entity.RunStatusCompleted) {
			fmt.Fprintf(w, "Output explainer data %d to HTML: %s\n", out.SampleIndex+1, out.ArtifactPath)
		} else {
			fmt.Fprintf(w, "Explanation %d with %s failed: %s\n", out.SampleIndex+1, out.Method, out.Error)
		}
	}
	fmt.Fprintf(w, "Completed %d, failed %d", summary.Completed, summary.Failed)
	if len(summary.SkippedMethods) > 0 {
		fmt.Fprintf(w, ", skipped methods: %v", summary.SkippedMethods)
	}
	fmt.Fprintln(w)
}
