package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChartCache(ttl time.Duration) (*ChartCache, *time.Time) {
	now := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	cache := NewChartCache(ttl)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestChartCacheStoresEntry(t *testing.T) {
	cache, _ := newTestChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("room-1:participation:bar:x", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("room-1:participation:bar:x", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpires(t *testing.T) {
	cache, now := newTestChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	*now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache, _ := newTestChartCache(time.Minute)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("render failed") })
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheInvalidateClassroom(t *testing.T) {
	cache, _ := newTestChartCache(time.Minute)
	render := func() (string, error) { return "html", nil }
	for _, key := range []string{"room-1:a:bar:1", "room-1:b:line:2", "room-10:a:bar:1"} {
		_, err := cache.GetOrRender(key, render)
		require.NoError(t, err)
	}

	removed := cache.InvalidateClassroom("room-1")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Len(), "room-10 entries must survive a room-1 invalidation")
}

func TestChartCacheDisabledWithZeroTTL(t *testing.T) {
	cache, _ := newTestChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}
	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
}
