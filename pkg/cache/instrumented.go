package cache

import (
	"context"
	"time"

	"github.com/matzehuels/hotspotmap/pkg/observability"
)

// Instrumented reports hits, misses and writes of an underlying cache to
// the registered observability cache hooks under keyType.
type Instrumented struct {
	Cache
	keyType string
}

// NewInstrumented wraps c.
func NewInstrumented(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Get retrieves a value and reports the outcome.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

// Set stores a value and reports its size.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
