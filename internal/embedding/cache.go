package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jd-fit-evaluator/internal/store"
)

const (
	defaultBatchSize   = 64
	defaultMaxRetries  = 3
	defaultRetryBase   = 500 * time.Millisecond
	defaultCallTimeout = 60 * time.Second
)

// CacheConfig tunes the cache's provider-call behavior.
type CacheConfig struct {
	BatchSize   int
	MaxRetries  int
	RetryBase   time.Duration
	CallTimeout time.Duration
}

// Cache is a provider-agnostic text→vector cache backed by a persistent
// store. It is safe for concurrent use: reads race freely and writes are
// idempotent, so duplicate computation of the same miss costs a redundant
// provider call at worst, never a wrong answer.
type Cache struct {
	store    store.Store
	provider Provider
	fallback *Mock
	cfg      CacheConfig
	log      *zap.Logger
}

// NewCache wires a cache over the given store and provider. The fallback
// mock dimension follows the provider so degraded vectors stay comparable
// with each other.
func NewCache(st store.Store, provider Provider, cfg CacheConfig, log *zap.Logger) *Cache {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		store:    st,
		provider: provider,
		fallback: NewMock(provider.Dimension()),
		cfg:      cfg,
		log:      log,
	}
}

// Embed returns one vector per input text, preserving order. The returned
// bool is true when any vector came from the deterministic fallback after
// provider retries were exhausted; callers should surface it as a degraded
// result rather than a failure.
func (c *Cache) Embed(ctx context.Context, texts []string) ([][]float64, bool, error) {
	if len(texts) == 0 {
		return nil, false, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = CacheKey(c.provider.ID(), TextHash(text))
	}

	cached, err := c.store.Get(ctx, uniqueKeys(keys))
	if err != nil {
		return nil, false, fmt.Errorf("embedding cache read: %w", err)
	}

	// Collect distinct misses, preserving first-seen order.
	var missKeys []string
	var missTexts []string
	seen := make(map[string]bool)
	for i, key := range keys {
		if _, ok := cached[key]; ok || seen[key] {
			continue
		}
		seen[key] = true
		missKeys = append(missKeys, key)
		missTexts = append(missTexts, texts[i])
	}

	degraded := false
	computed := make(map[string][]float64, len(missKeys))
	fresh := make(map[string][]float64)
	for start := 0; start < len(missTexts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(missTexts))
		vectors, fellBack := c.embedBatch(ctx, missTexts[start:end])
		if fellBack {
			degraded = true
		}
		for i, vec := range vectors {
			key := missKeys[start+i]
			computed[key] = vec
			// Fallback vectors are not persisted under the real provider's
			// keys: a later healthy run must recompute them.
			if !fellBack {
				fresh[key] = vec
			}
		}
	}

	if len(fresh) > 0 {
		if err := c.store.Put(ctx, fresh); err != nil {
			c.log.Warn("embedding cache write failed", zap.Error(err), zap.Int("entries", len(fresh)))
		}
	}

	out := make([][]float64, len(texts))
	for i, key := range keys {
		if vec, ok := cached[key]; ok {
			out[i] = vec
		} else {
			out[i] = computed[key]
		}
	}
	return out, degraded, nil
}

// embedBatch calls the provider with bounded retries and exponential
// backoff. After exhausting retries it substitutes deterministic fallback
// vectors and reports the substitution.
func (c *Cache) embedBatch(ctx context.Context, texts []string) ([][]float64, bool) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				lastErr = ctx.Err()
				break
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		vectors, err := c.provider.EmbedBatch(callCtx, texts)
		cancel()
		if err == nil {
			return vectors, false
		}
		lastErr = err
		c.log.Warn("embedding provider call failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("batch", len(texts)))
		if ctx.Err() != nil {
			break
		}
	}

	c.log.Warn("embedding provider exhausted retries, using deterministic fallback",
		zap.Error(lastErr),
		zap.Int("batch", len(texts)))
	vectors, _ := c.fallback.EmbedBatch(ctx, texts)
	return vectors, true
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
