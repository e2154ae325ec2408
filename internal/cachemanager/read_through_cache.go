package cachemanager

import (
	"context"
	"time"
)

// Loader produces the value for key on a cache miss.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// ReadThroughCache answers from its cache and falls back to load on a miss.
// A nil cache loads every time.
type ReadThroughCache[K comparable, V any] struct {
	cache CacheManager[K, V]
	load  Loader[K, V]
	ttl   time.Duration
}

func NewReadThroughCache[K comparable, V any](cache CacheManager[K, V], ttl time.Duration, load Loader[K, V]) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{cache: cache, load: load, ttl: ttl}
}

// Get returns the value for key. Failed loads are not cached.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if r.cache == nil {
		return r.load(ctx, key)
	}
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.load(ctx, key)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}
