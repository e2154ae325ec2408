package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager_SetThenGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, map[string]string]("catalogs", NoExpiration)
	cache.Set(ctx, "en-US", map[string]string{"_STREAM_": "Stream"}, NoExpiration)

	got, ok := cache.Get(ctx, "en-US")
	require.True(t, ok)
	require.Equal(t, "Stream", got["_STREAM_"])
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("catalogs", NoExpiration)

	got, ok := cache.Get(context.Background(), "es-ES")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_WrongTypeIsMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("catalogs", NoExpiration)
	cache.cache.Set("en-US", 123, NoExpiration)

	_, ok := cache.Get(context.Background(), "en-US")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("catalogs", NoExpiration)
	cache.Set(context.Background(), "en-US", "a", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "en-US")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
