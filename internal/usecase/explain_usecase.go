package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/repository"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/metrics"
	"github.com/hanman2016/fine-grained-sentiment/internal/registry"
)

// Error definitions for explain usecase
var (
	ErrNoTexts  = errors.New("no texts to explain")
	ErrNoLoader = errors.New("no loader for strategy")
)

// RunInput represents a request to explain a set of texts with a set of methods
type RunInput struct {
	Methods []string `json:"methods"`
	Texts   []string `json:"texts"`
}

// RunOutput represents the outcome of a single (method, text) explanation
type RunOutput struct {
	Method       string `json:"method"`
	SampleIndex  int    `json:"sample_index"`
	Status       string `json:"status"`
	TopLabel     int    `json:"top_label"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	Error        string `json:"error,omitempty"`
	LatencyMs    int64  `json:"latency_ms"`
}

// RunSummary aggregates the outcomes of one harness invocation
type RunSummary struct {
	Runs           []*RunOutput `json:"runs"`
	Completed      int          `json:"completed"`
	Failed         int          `json:"failed"`
	SkippedMethods []string     `json:"skipped_methods,omitempty"`
}

// ExplainUsecase defines the interface for the explanation harness logic
type ExplainUsecase interface {
	Run(ctx context.Context, input *RunInput) (*RunSummary, error)
}

type explainUsecase struct {
	registry    *registry.Registry
	loaders     map[entity.Strategy]service.Loader
	explainer   service.Explainer
	sink        repository.ReportSink
	runRepo     repository.RunRepository
	cache       service.PredictionCache
	logger      *zap.Logger
	topLabels   int
	numFeatures int
}

// NewExplainUsecase creates a new explain usecase.
// runRepo and cache are optional and may be nil.
func NewExplainUsecase(
	reg *registry.Registry,
	loaders map[entity.Strategy]service.Loader,
	explainer service.Explainer,
	sink repository.ReportSink,
	runRepo repository.RunRepository,
	cache service.PredictionCache,
	logger *zap.Logger,
	topLabels, numFeatures int,
) ExplainUsecase {
	return &explainUsecase{
		registry:    reg,
		loaders:     loaders,
		explainer:   explainer,
		sink:        sink,
		runRepo:     runRepo,
		cache:       cache,
		logger:      logger,
		topLabels:   topLabels,
		numFeatures: numFeatures,
	}
}

// Run explains every text with every requested method. Unknown methods fail
// the whole invocation before any model is loaded. A method whose model cannot
// be loaded is skipped; a failed explanation aborts the remaining texts of
// that method only.
func (u *explainUsecase) Run(ctx context.Context, input *RunInput) (*RunSummary, error) {
	if err := u.registry.Validate(input.Methods); err != nil {
		return nil, err
	}
	if len(input.Texts) == 0 {
		return nil, ErrNoTexts
	}

	summary := &RunSummary{}

	for _, name := range input.Methods {
		method, err := u.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		if err := u.runMethod(ctx, method, input.Texts, summary); err != nil {
			u.logger.Warn("skipping method",
				zap.String("method", method.Name),
				zap.Error(err))
			summary.SkippedMethods = append(summary.SkippedMethods, method.Name)
			metrics.Explanations.WithLabelValues(method.Name, "skipped").Inc()
		}
	}

	return summary, nil
}

func (u *explainUsecase) runMethod(ctx context.Context, method entity.Method, texts []string, summary *RunSummary) error {
	loader, ok := u.loaders[method.Strategy]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, method.Strategy)
	}

	classifier, err := loader.Load(ctx, method.ArtifactPath)
	if err != nil {
		return err
	}

	u.logger.Info("model loaded",
		zap.String("method", method.Name),
		zap.String("artifact", method.ArtifactPath))

	predictor := service.NewPredictor(classifier, method.Name, entity.NumClasses, u.cache)

	for i, text := range texts {
		output := u.explainOne(ctx, method, predictor, i, text)
		summary.Runs = append(summary.Runs, output)
		if output.Status != string(entity.RunStatusCompleted) {
			summary.Failed++
			metrics.Explanations.WithLabelValues(method.Name, "failed").Inc()
			// Remaining texts for this method would hit the same backend
			break
		}
		summary.Completed++
		metrics.Explanations.WithLabelValues(method.Name, "completed").Inc()
		u.logger.Info("output explainer data to HTML",
			zap.String("method", method.Name),
			zap.Int("sample_index", i),
			zap.String("artifact", output.ArtifactPath))
	}

	return nil
}

func (u *explainUsecase) explainOne(ctx context.Context, method entity.Method, predictor *service.Predictor, index int, text string) *RunOutput {
	run := entity.NewRun(method.Name, index, text)
	start := time.Now()

	explanation, err := u.explainer.Explain(ctx, text, predictor.Score, u.topLabels, u.numFeatures)
	if err == nil {
		name := fmt.Sprintf("%d-explanation-%s.html", index, method.Name)
		var path string
		path, err = u.sink.Persist(explanation, name)
		if err == nil {
			run.SetResult(explanation.TopLabel(), len(explanation.Features()), path, time.Since(start).Milliseconds())
		}
	}
	if err != nil {
		run.SetFailure(err, time.Since(start).Milliseconds())
		u.logger.Error("explanation failed",
			zap.String("method", method.Name),
			zap.Int("sample_index", index),
			zap.Error(err))
	}

	u.record(ctx, run)

	return toRunOutput(run)
}

// record persists the run for later inspection; history is best effort and
// never fails the harness
func (u *explainUsecase) record(ctx context.Context, run *entity.Run) {
	if u.runRepo == nil {
		return
	}
	if err := u.runRepo.Create(ctx, run); err != nil {
		u.logger.Warn("failed to record run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}
}

func toRunOutput(run *entity.Run) *RunOutput {
	return &RunOutput{
		Method:       run.Method,
		SampleIndex:  run.SampleIndex,
		Status:       string(run.Status),
		TopLabel:     run.TopLabel,
		ArtifactPath: run.ArtifactPath,
		Error:        run.Error,
		LatencyMs:    run.LatencyMs,
	}
}
