package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/metrics"
)

// fasttext prefixes its labels, flair does not
const labelPrefix = "__label__"

// PredictionCache stores canonical probability vectors keyed by method and text.
// Implementations may silently drop entries; a miss only costs a classifier call.
type PredictionCache interface {
	Get(ctx context.Context, method, text string) ([]float64, bool)
	Set(ctx context.Context, method, text string, vector []float64)
}

// Predictor binds a loaded Classifier and converts its native predictions into
// canonical probability vectors: one fixed-length vector per input text, scores
// ordered ascending by class identity. Explanation algorithms consuming these
// vectors assume position i always means class i+1, so the native label
// permutation is recomputed and undone for every text independently.
type Predictor struct {
	classifier Classifier
	method     string
	classes    int
	cache      PredictionCache
}

// NewPredictor creates a Predictor over the given classifier.
// The cache is optional and may be nil.
func NewPredictor(classifier Classifier, method string, classes int, cache PredictionCache) *Predictor {
	return &Predictor{
		classifier: classifier,
		method:     method,
		classes:    classes,
		cache:      cache,
	}
}

// Score returns one canonical probability vector per text, in input order
func (p *Predictor) Score(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	// Resolve cache hits first; only misses reach the classifier
	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))
	for i, text := range texts {
		if p.cache != nil {
			if vector, ok := p.cache.Get(ctx, p.method, text); ok && len(vector) == p.classes {
				vectors[i] = vector
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	start := time.Now()
	raw, err := p.classifier.Predict(ctx, missing)
	metrics.ClassifierLatency.WithLabelValues(p.method).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	if len(raw) != len(missing) {
		return nil, fmt.Errorf("%w: classifier returned %d predictions for %d texts", ErrPrediction, len(raw), len(missing))
	}

	for j, prediction := range raw {
		vector, err := canonicalize(prediction, p.classes)
		if err != nil {
			return nil, err
		}
		vectors[missingIdx[j]] = vector
		if p.cache != nil {
			p.cache.Set(ctx, p.method, missing[j], vector)
		}
	}

	return vectors, nil
}

// canonicalize sorts a native (label, score) pairing into ascending class order.
// The result always has exactly `classes` entries; short, duplicated or
// out-of-range label sets are rejected rather than zero-padded, since a padded
// vector would silently bias downstream relevance estimates.
func canonicalize(raw RawPrediction, classes int) ([]float64, error) {
	if len(raw.Labels) != len(raw.Scores) {
		return nil, fmt.Errorf("%w: %d labels with %d scores", ErrPrediction, len(raw.Labels), len(raw.Scores))
	}
	if len(raw.Labels) < classes {
		return nil, fmt.Errorf("%w: got %d of %d class scores", ErrIncompletePrediction, len(raw.Labels), classes)
	}

	vector := make([]float64, classes)
	seen := make([]bool, classes)
	for i, label := range raw.Labels {
		class, err := classIndex(label)
		if err != nil {
			return nil, err
		}
		if class < 1 || class > classes {
			return nil, fmt.Errorf("%w: class %d outside 1..%d", ErrPrediction, class, classes)
		}
		if seen[class-1] {
			return nil, fmt.Errorf("%w: duplicate class %d", ErrPrediction, class)
		}
		seen[class-1] = true
		vector[class-1] = raw.Scores[i]
	}

	return vector, nil
}

// classIndex parses the class identity out of a native label,
// accepting both the bare ("3") and prefixed ("__label__3") forms
func classIndex(label string) (int, error) {
	class, err := strconv.Atoi(strings.TrimPrefix(label, labelPrefix))
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable label %q", ErrPrediction, label)
	}
	return class, nil
}
