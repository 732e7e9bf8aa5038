package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShardedCacheRoutesAcrossShards(t *testing.T) {
	c := New(16*64, nil)
	defer c.Close()

	seen := make(map[*shard]bool)
	for i := 0; i < 1000; i++ {
		key := []byte{byte(i), byte(i >> 8)}
		hash := hashKey(key)
		seen[c.shardFor(hash)] = true
	}
	require.Greater(t, len(seen), 1, "expected keys to spread across more than one shard")
}

func TestShardedCacheNewIDMonotonic(t *testing.T) {
	c := New(100, nil)
	defer c.Close()

	prev := c.NewID()
	for i := 0; i < 100; i++ {
		next := c.NewID()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestShardedCacheTotalChargeSumsShards(t *testing.T) {
	c := New(16*100, nil)
	defer c.Close()

	for i := 0; i < 16; i++ {
		h := c.Insert([]byte{byte(i)}, i, 5, nil)
		c.Release(h)
	}
	require.Equal(t, uint64(16*5), c.TotalCharge())
}

func TestShardedCacheEraseReleasesDeleter(t *testing.T) {
	c := New(100, nil)
	defer c.Close()

	released := false
	h := c.Insert([]byte("k"), "v", 1, func(key []byte, value any) {
		released = true
	})
	c.Release(h)
	require.False(t, released, "the cache's own reference should keep the deleter from firing")

	c.Erase([]byte("k"))
	require.True(t, released)
}

func TestShardedCachePinnedHandleSurvivesErase(t *testing.T) {
	c := New(100, nil)
	defer c.Close()

	h := c.Insert([]byte("k"), "v1", 1, nil)
	pinned := c.Lookup([]byte("k"))
	require.NotNil(t, pinned)

	c.Erase([]byte("k"))
	require.Nil(t, c.Lookup([]byte("k")))
	require.Equal(t, "v1", c.Value(pinned))

	c.Release(h)
	c.Release(pinned)
}
