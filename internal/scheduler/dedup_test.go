package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDedupCache_SuppressesWithinWindow(t *testing.T) {
	cache := NewDedupCache(time.Hour)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.True(t, cache.ShouldNotify("t1|task1|a|2026-03", now))
	require.False(t, cache.ShouldNotify("t1|task1|a|2026-03", now.Add(30*time.Minute)))
	require.True(t, cache.ShouldNotify("t1|task1|b|2026-03", now))
}

func TestDedupCache_AllowsAfterWindow(t *testing.T) {
	cache := NewDedupCache(time.Hour)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.True(t, cache.ShouldNotify("k", now))
	require.True(t, cache.ShouldNotify("k", now.Add(time.Hour)))
}

func TestDedupCache_EvictsExpiredEntries(t *testing.T) {
	cache := NewDedupCache(time.Hour)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cache.ShouldNotify("a", now)
	cache.ShouldNotify("b", now)
	require.Equal(t, 2, cache.Len())

	cache.ShouldNotify("c", now.Add(2*time.Hour))
	require.Equal(t, 1, cache.Len())
}
