// Package cachemanager memoizes lookups that read from disk, such as locale
// catalogs, behind a go-cache store.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by key, each with its own ttl.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
}
