package client

import (
	"context"
	"fmt"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// FasttextLoader loads fasttext models through a model-serving sidecar
type FasttextLoader struct {
	client  *ModelClient
	classes int
}

// NewFasttextLoader creates a loader for the batch-strategy fasttext backend
func NewFasttextLoader(client *ModelClient, classes int) service.Loader {
	return &FasttextLoader{client: client, classes: classes}
}

// Load materializes the fasttext artifact on the sidecar
func (l *FasttextLoader) Load(ctx context.Context, artifactPath string) (service.Classifier, error) {
	resp, err := l.client.LoadModel(ctx, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrModelLoad, err)
	}
	if !resp.ModelLoaded {
		return nil, fmt.Errorf("%w: artifact %q not loaded: %s", service.ErrModelLoad, artifactPath, resp.Error)
	}

	return &fasttextClassifier{client: l.client, classes: l.classes}, nil
}

// fasttextClassifier scores every text in a single batched call, always
// requesting k equal to the declared class count so the prediction is never
// truncated to a top-k subset
type fasttextClassifier struct {
	client  *ModelClient
	classes int
}

func (c *fasttextClassifier) Predict(ctx context.Context, texts []string) ([]service.RawPrediction, error) {
	resp, err := c.client.PredictBatch(ctx, texts, c.classes)
	if err != nil {
		return nil, err
	}
	if len(resp.Labels) != len(texts) || len(resp.Scores) != len(texts) {
		return nil, fmt.Errorf("model service returned %d label rows and %d score rows for %d texts",
			len(resp.Labels), len(resp.Scores), len(texts))
	}

	predictions := make([]service.RawPrediction, len(texts))
	for i := range texts {
		predictions[i] = service.RawPrediction{
			Labels: resp.Labels[i],
			Scores: resp.Scores[i],
		}
	}

	return predictions, nil
}
