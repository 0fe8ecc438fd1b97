package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("trust", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	rtc := NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, input string) (string, error) {
			calls++
			return "fingerprint:" + input, nil
		},
		true,
	)

	got, err := rtc.Get(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "fingerprint:host", got)

	_, err = rtc.Get(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("trust", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "host", "cached", time.Minute)

	rtc := NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, input string) (string, error) {
			t.Fatal("loader should not run on a cache hit")
			return "", nil
		},
		false,
	)

	got, err := rtc.Get(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
}

func TestReadThroughCache_Get_EmptyCachePopulates(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("trust", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	rtc := NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, input string) (string, error) {
			calls++
			return "loaded", nil
		},
		false,
	)

	got, err := rtc.Get(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "loaded", got)

	// Second read comes from the cache.
	got, err = rtc.Get(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "loaded", got)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("trust", DefaultExpiration, DefaultCleanupInterval)

	rtc := NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, input string) (string, error) {
			return "", errors.New("failed to get data")
		},
		false,
	)

	_, err := rtc.Get(context.Background(), "host", "host", time.Minute)
	require.Error(t, err)

	_, ok := cache.Get(context.Background(), "host")
	require.False(t, ok)
}

func TestReadThroughCache_GetWithRefresh_EmptyCachePopulates(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("trust", DefaultExpiration, DefaultCleanupInterval)

	rtc := NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, input string) (string, error) {
			return "loaded", nil
		},
		false,
	)

	got, err := rtc.GetWithRefresh(context.Background(), "host", "host", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "loaded", got)

	cached, ok := cache.Get(context.Background(), "host")
	require.True(t, ok)
	require.Equal(t, "loaded", cached)
}
