package service

import (
	"context"
	"errors"
)

// Error definitions for classifier capabilities
var (
	// ErrModelLoad indicates the model artifact is missing or malformed.
	// Fatal for the requesting method only.
	ErrModelLoad = errors.New("model load failed")

	// ErrPrediction indicates the classifier failed to score one or more texts
	ErrPrediction = errors.New("prediction failed")

	// ErrIncompletePrediction indicates the classifier returned fewer class
	// scores than the declared class count
	ErrIncompletePrediction = errors.New("incomplete prediction")
)

// RawPrediction is the classifier-native output for one text: parallel label
// and score sequences. The label ordering is classifier-specific and must not
// be assumed sorted.
type RawPrediction struct {
	Labels []string
	Scores []float64
}

// Classifier is a loaded model capability able to score texts. Implementations
// choose their own invocation pattern (single batched call or one call per
// document) but always return one RawPrediction per input text, in input order.
type Classifier interface {
	Predict(ctx context.Context, texts []string) ([]RawPrediction, error)
}

// Loader materializes a Classifier from a model artifact.
// One Loader is registered per invocation strategy at process start.
type Loader interface {
	Load(ctx context.Context, artifactPath string) (Classifier, error)
}
