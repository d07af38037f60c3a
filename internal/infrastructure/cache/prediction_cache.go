package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PredictionCache stores canonical probability vectors in Redis. Perturbation
// sampling re-queries repeated text variants, so hits save classifier
// round-trips. The cache is strictly best-effort: every failure degrades to
// a miss and the write path never blocks the run.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPredictionCache creates a prediction cache with the given TTL
func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

// Get returns the cached vector for (method, text), if present
func (c *PredictionCache) Get(ctx context.Context, method, text string) ([]float64, bool) {
	data, err := c.client.Get(ctx, cacheKey(method, text)).Bytes()
	if err != nil {
		return nil, false
	}

	var vector []float64
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, false
	}

	return vector, true
}

// Set stores the vector for (method, text)
func (c *PredictionCache) Set(ctx context.Context, method, text string, vector []float64) {
	data, err := json.Marshal(vector)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(method, text), data, c.ttl)
}

func cacheKey(method, text string) string {
	digest := sha256.Sum256([]byte(text))
	return fmt.Sprintf("explainer:pred:%s:%s", method, hex.EncodeToString(digest[:]))
}
