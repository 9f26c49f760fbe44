package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheVersionInitialises(t *testing.T) {
	cache := newTestCache(t)

	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), ver)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "analytics", "aging", "2026-03-15")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "analytics", "aging", "2026-03-15")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestCacheFetchJSON(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return map[string]int{"value": 42}, nil
	}

	var first, second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "k", &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, "k", &second, loader))

	require.Equal(t, 1, loads)
	require.Equal(t, first, second)
	require.Equal(t, 42, second["value"])
}

func TestCacheNilSafe(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a:b", key)

	var out map[string]int
	err = cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return map[string]int{"value": 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, out["value"])

	require.NoError(t, cache.Bump(ctx))
}
