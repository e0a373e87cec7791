package ml

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/win-predictor/internal/metrics"
	"github.com/yourusername/win-predictor/internal/models"
)

// CacheKey identifies a prediction by model version and feature vector.
type CacheKey struct {
	ModelVersion string
	Features     models.FeatureVector
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	f := k.Features
	return fmt.Sprintf("%s|%s|%s|%s|%g|%g|%g|%g|%g|%g",
		k.ModelVersion, f.BattingTeam, f.BowlingTeam, f.City,
		f.RunsLeft, f.BallsLeft, f.WicketsRemaining, f.Target, f.CurrentRunRate, f.RequiredRunRate)
}

// Probabilities is a cached PredictProba result.
type Probabilities struct {
	Loss float64
	Win  float64
}

// PredictionCache memoises PredictProba results. It only ever caches a pure
// function of the frozen model, so stale entries cannot exist within one
// model version.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves cached probabilities
func (pc *PredictionCache) Get(key CacheKey) (Probabilities, bool) {
	if result, found := pc.cache.Get(key.String()); found {
		if p, ok := result.(Probabilities); ok {
			pc.hitCount.Add(1)
			pc.updateMetrics()
			return p, true
		}
	}

	pc.missCount.Add(1)
	pc.updateMetrics()
	return Probabilities{}, false
}

// Set stores probabilities in cache. When the cache is full, expired
// entries are purged first and the write is dropped if that frees nothing.
func (pc *PredictionCache) Set(key CacheKey, p Probabilities) {
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}
	pc.cache.Set(key.String(), p, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}

func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}
