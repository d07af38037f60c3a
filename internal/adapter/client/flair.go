package client

import (
	"context"
	"fmt"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// FlairLoader loads flair models through a model-serving sidecar
type FlairLoader struct {
	client *ModelClient
}

// NewFlairLoader creates a loader for the sequential-strategy flair backend
func NewFlairLoader(client *ModelClient) service.Loader {
	return &FlairLoader{client: client}
}

// Load materializes the flair artifact on the sidecar
func (l *FlairLoader) Load(ctx context.Context, artifactPath string) (service.Classifier, error) {
	resp, err := l.client.LoadModel(ctx, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrModelLoad, err)
	}
	if !resp.ModelLoaded {
		return nil, fmt.Errorf("%w: artifact %q not loaded: %s", service.ErrModelLoad, artifactPath, resp.Error)
	}

	return &flairClassifier{client: l.client}, nil
}

// flairClassifier scores one document per call, in input order. Each call
// blocks on model inference; there is no overlap between calls and no state
// shared across iterations.
type flairClassifier struct {
	client *ModelClient
}

func (c *flairClassifier) Predict(ctx context.Context, texts []string) ([]service.RawPrediction, error) {
	predictions := make([]service.RawPrediction, 0, len(texts))
	for _, text := range texts {
		resp, err := c.client.Predict(ctx, text)
		if err != nil {
			return nil, err
		}

		labels := make([]string, len(resp.Labels))
		scores := make([]float64, len(resp.Labels))
		for i, label := range resp.Labels {
			labels[i] = label.Value
			scores[i] = label.Score
		}

		predictions = append(predictions, service.RawPrediction{Labels: labels, Scores: scores})
	}

	if len(predictions) != len(texts) {
		return nil, fmt.Errorf("scored %d of %d documents", len(predictions), len(texts))
	}

	return predictions, nil
}
