package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanman2016/fine-grained-sentiment/internal/infrastructure/metrics"
)

// stubClassifier answers from a fixed text -> prediction table in one batched call
type stubClassifier struct {
	predictions map[string]RawPrediction
	calls       int
}

func (s *stubClassifier) Predict(_ context.Context, texts []string) ([]RawPrediction, error) {
	s.calls++
	out := make([]RawPrediction, len(texts))
	for i, text := range texts {
		p, ok := s.predictions[text]
		if !ok {
			return nil, fmt.Errorf("no prediction for %q", text)
		}
		out[i] = p
	}
	return out, nil
}

// sequentialStub answers from the same table but one document at a time,
// mirroring the per-call invocation pattern of the sequential strategy
type sequentialStub struct {
	predictions map[string]RawPrediction
}

func (s *sequentialStub) Predict(ctx context.Context, texts []string) ([]RawPrediction, error) {
	out := make([]RawPrediction, 0, len(texts))
	for _, text := range texts {
		p, ok := s.predictions[text]
		if !ok {
			return nil, fmt.Errorf("no prediction for %q", text)
		}
		out = append(out, p)
	}
	return out, nil
}

type memoryCache struct {
	entries map[string][]float64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]float64)}
}

func (c *memoryCache) Get(_ context.Context, method, text string) ([]float64, bool) {
	v, ok := c.entries[method+":"+text]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, method, text string, vector []float64) {
	c.entries[method+":"+text] = vector
}

func TestPredictor_Score(t *testing.T) {
	t.Run("canonically ordered labels pass through unchanged", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {
				Labels: []string{"1", "2", "3", "4", "5"},
				Scores: []float64{0.1, 0.2, 0.3, 0.25, 0.15},
			},
		}}
		p := NewPredictor(classifier, "flair", 5, nil)

		vectors, err := p.Score(context.Background(), []string{"a"})

		require.NoError(t, err)
		require.Len(t, vectors, 1)
		assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.25, 0.15}, vectors[0])
	})

	t.Run("shuffled native labels are re-sorted into class order", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {
				Labels: []string{"3", "1", "5", "2", "4"},
				Scores: []float64{0.1, 0.5, 0.05, 0.2, 0.15},
			},
		}}
		p := NewPredictor(classifier, "flair", 5, nil)

		vectors, err := p.Score(context.Background(), []string{"a"})

		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.2, 0.1, 0.15, 0.05}, vectors[0])
	})

	t.Run("output is invariant under native label permutation", func(t *testing.T) {
		orderings := []RawPrediction{
			{Labels: []string{"1", "2", "3", "4", "5"}, Scores: []float64{0.5, 0.2, 0.1, 0.15, 0.05}},
			{Labels: []string{"5", "4", "3", "2", "1"}, Scores: []float64{0.05, 0.15, 0.1, 0.2, 0.5}},
			{Labels: []string{"2", "5", "1", "4", "3"}, Scores: []float64{0.2, 0.05, 0.5, 0.15, 0.1}},
		}

		for i, raw := range orderings {
			classifier := &stubClassifier{predictions: map[string]RawPrediction{"a": raw}}
			p := NewPredictor(classifier, "fasttext", 5, nil)

			vectors, err := p.Score(context.Background(), []string{"a"})

			require.NoError(t, err, "ordering %d", i)
			assert.Equal(t, []float64{0.5, 0.2, 0.1, 0.15, 0.05}, vectors[0], "ordering %d", i)
		}
	})

	t.Run("prefixed fasttext labels resolve to the same classes", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {
				Labels: []string{"__label__4", "__label__1", "__label__3", "__label__5", "__label__2"},
				Scores: []float64{0.4, 0.1, 0.2, 0.05, 0.25},
			},
		}}
		p := NewPredictor(classifier, "fasttext", 5, nil)

		vectors, err := p.Score(context.Background(), []string{"a"})

		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.25, 0.2, 0.4, 0.05}, vectors[0])
	})

	t.Run("vector length always equals the class count", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"2", "1", "3"}, Scores: []float64{0.3, 0.5, 0.2}},
		}}
		p := NewPredictor(classifier, "flair", 3, nil)

		vectors, err := p.Score(context.Background(), []string{"a"})

		require.NoError(t, err)
		assert.Len(t, vectors[0], 3)
	})

	t.Run("batch and sequential strategies agree", func(t *testing.T) {
		predictions := map[string]RawPrediction{
			"a": {Labels: []string{"3", "1", "5", "2", "4"}, Scores: []float64{0.1, 0.5, 0.05, 0.2, 0.15}},
			"b": {Labels: []string{"5", "1", "2", "3", "4"}, Scores: []float64{0.6, 0.1, 0.1, 0.1, 0.1}},
		}
		batch := NewPredictor(&stubClassifier{predictions: predictions}, "fasttext", 5, nil)
		sequential := NewPredictor(&sequentialStub{predictions: predictions}, "flair", 5, nil)

		texts := []string{"a", "b"}
		fromBatch, err := batch.Score(context.Background(), texts)
		require.NoError(t, err)
		fromSequential, err := sequential.Score(context.Background(), texts)
		require.NoError(t, err)

		assert.Equal(t, fromBatch, fromSequential)
	})

	t.Run("scoring is deterministic", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"2", "1", "3", "5", "4"}, Scores: []float64{0.2, 0.1, 0.3, 0.15, 0.25}},
		}}
		p := NewPredictor(classifier, "flair", 5, nil)

		first, err := p.Score(context.Background(), []string{"a"})
		require.NoError(t, err)
		second, err := p.Score(context.Background(), []string{"a"})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("fewer scores than classes is rejected", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"1", "2", "3"}, Scores: []float64{0.5, 0.3, 0.2}},
		}}
		p := NewPredictor(classifier, "fasttext", 5, nil)

		_, err := p.Score(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, ErrIncompletePrediction)
	})

	t.Run("duplicate classes are rejected", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"1", "2", "2", "4", "5"}, Scores: []float64{0.2, 0.2, 0.2, 0.2, 0.2}},
		}}
		p := NewPredictor(classifier, "fasttext", 5, nil)

		_, err := p.Score(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, ErrPrediction)
	})

	t.Run("unparseable labels are rejected", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"positive", "2", "3", "4", "5"}, Scores: []float64{0.2, 0.2, 0.2, 0.2, 0.2}},
		}}
		p := NewPredictor(classifier, "flair", 5, nil)

		_, err := p.Score(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, ErrPrediction)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("classifier failure surfaces as prediction error", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{}}
		p := NewPredictor(classifier, "flair", 5, nil)

		_, err := p.Score(context.Background(), []string{"a"})

		assert.ErrorIs(t, err, ErrPrediction)
	})

	t.Run("cache hits skip the classifier", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"1", "2", "3", "4", "5"}, Scores: []float64{0.1, 0.2, 0.3, 0.25, 0.15}},
		}}
		cache := newMemoryCache()
		p := NewPredictor(classifier, "fasttext", 5, cache)

		first, err := p.Score(context.Background(), []string{"a"})
		require.NoError(t, err)
		second, err := p.Score(context.Background(), []string{"a"})
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, classifier.calls)
	})

	t.Run("mixed cache hits keep input order", func(t *testing.T) {
		classifier := &stubClassifier{predictions: map[string]RawPrediction{
			"a": {Labels: []string{"1", "2", "3", "4", "5"}, Scores: []float64{0.9, 0.025, 0.025, 0.025, 0.025}},
			"b": {Labels: []string{"5", "4", "3", "2", "1"}, Scores: []float64{0.9, 0.025, 0.025, 0.025, 0.025}},
		}}
		cache := newMemoryCache()
		p := NewPredictor(classifier, "fasttext", 5, cache)

		_, err := p.Score(context.Background(), []string{"a"})
		require.NoError(t, err)

		vectors, err := p.Score(context.Background(), []string{"b", "a"})
		require.NoError(t, err)

		assert.Equal(t, []float64{0.025, 0.025, 0.025, 0.025, 0.9}, vectors[0])
		assert.Equal(t, []float64{0.9, 0.025, 0.025, 0.025, 0.025}, vectors[1])
	})
}

func TestPredictor_ClassifierLatencyMetric(t *testing.T) {
	classifier := &stubClassifier{predictions: map[string]RawPrediction{
		"a": {Labels: []string{"1", "2", "3", "4", "5"}, Scores: []float64{0.2, 0.2, 0.2, 0.2, 0.2}},
	}}
	p := NewPredictor(classifier, "fasttext-latency", 5, nil)

	before := testutil.CollectAndCount(metrics.ClassifierLatency)

	_, err := p.Score(context.Background(), []string{"a"})
	require.NoError(t, err)

	after := testutil.CollectAndCount(metrics.ClassifierLatency)
	assert.Equal(t, before+1, after, "each method gets its own latency series")
}
