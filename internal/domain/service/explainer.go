package service

import (
	"context"
	"io"
)

// ScoreFunc scores a batch of texts, returning one canonical probability
// vector per text in input order. It is the callback handed to the
// explanation algorithm during perturbation sampling.
type ScoreFunc func(ctx context.Context, texts []string) ([][]float64, error)

// FeatureWeight is the contribution of one token to the explained class
type FeatureWeight struct {
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
}

// Explanation is an opaque explanation result for one (text, method) pair
type Explanation interface {
	// TopLabel returns the class identity the explanation is for
	TopLabel() int

	// Features returns the weighted tokens, strongest first
	Features() []FeatureWeight

	// WriteHTML writes the rendered report
	WriteHTML(w io.Writer) error
}

// Explainer drives a perturbation-based local explanation of a single
// prediction. Implementations own the sampling and weighting mathematics;
// the harness only supplies the text and the scoring callback.
type Explainer interface {
	Explain(ctx context.Context, text string, score ScoreFunc, topLabels, numFeatures int) (Explanation, error)
}

// CallbackRegistry exposes a ScoreFunc to an out-of-process explanation
// algorithm. Bind returns the URL the algorithm should query during sampling
// and a release function that must be called once the explanation finishes.
type CallbackRegistry interface {
	Bind(fn ScoreFunc) (url string, release func())
}
