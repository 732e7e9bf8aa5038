package cache

import (
	"encoding/binary"
	"testing"
)

const testCacheSize = 1000

func encodeKey(k int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(k))
	return b
}

// cacheTestHarness mirrors the fixture the original LevelDB cache test
// suite uses: encode small ints as 4-byte keys, record every deletion, and
// expose Lookup/Insert helpers that hide the Handle plumbing for the
// straight-line scenarios below.
type cacheTestHarness struct {
	t             *testing.T
	cache         *ShardedLRUCache
	deletedKeys   []int
	deletedValues []int
}

func newCacheTestHarness(t *testing.T) *cacheTestHarness {
	return &cacheTestHarness{t: t, cache: New(testCacheSize, nil)}
}

func (h *cacheTestHarness) deleter(key []byte, value any) {
	h.deletedKeys = append(h.deletedKeys, int(binary.LittleEndian.Uint32(key)))
	h.deletedValues = append(h.deletedValues, value.(int))
}

func (h *cacheTestHarness) lookup(key int) int {
	handle := h.cache.Lookup(encodeKey(key))
	if handle == nil {
		return -1
	}
	v := h.cache.Value(handle).(int)
	h.cache.Release(handle)
	return v
}

func (h *cacheTestHarness) insert(key, value int, charge uint64) {
	h.cache.Release(h.cache.Insert(encodeKey(key), value, charge, h.deleter))
}

func (h *cacheTestHarness) insertAndReturnHandle(key, value int, charge uint64) *Handle {
	return h.cache.Insert(encodeKey(key), value, charge, h.deleter)
}

func (h *cacheTestHarness) erase(key int) {
	h.cache.Erase(encodeKey(key))
}

func assertEq(t *testing.T, want, got int) {
	t.Helper()
	if want != got {
		t.Fatalf("want %d, got %d", want, got)
	}
}

func TestCacheHitAndMiss(t *testing.T) {
	h := newCacheTestHarness(t)

	assertEq(t, -1, h.lookup(100))

	h.insert(100, 101, 1)
	assertEq(t, 101, h.lookup(100))
	assertEq(t, -1, h.lookup(200))
	assertEq(t, -1, h.lookup(300))

	h.insert(200, 201, 1)
	assertEq(t, 101, h.lookup(100))
	assertEq(t, 201, h.lookup(200))
	assertEq(t, -1, h.lookup(300))

	h.insert(100, 102, 1)
	assertEq(t, 102, h.lookup(100))
	assertEq(t, 201, h.lookup(200))
	assertEq(t, -1, h.lookup(300))

	assertEq(t, 1, len(h.deletedKeys))
	assertEq(t, 100, h.deletedKeys[0])
	assertEq(t, 101, h.deletedValues[0])
}

func TestCacheErase(t *testing.T) {
	h := newCacheTestHarness(t)

	h.erase(200)
	assertEq(t, 0, len(h.deletedKeys))

	h.insert(100, 101, 1)
	h.insert(200, 201, 1)
	h.erase(100)
	assertEq(t, -1, h.lookup(100))
	assertEq(t, 201, h.lookup(200))
	assertEq(t, 1, len(h.deletedKeys))
	assertEq(t, 100, h.deletedKeys[0])
	assertEq(t, 101, h.deletedValues[0])

	h.erase(100)
	assertEq(t, -1, h.lookup(100))
	assertEq(t, 201, h.lookup(200))
	assertEq(t, 1, len(h.deletedKeys))
}

func TestCacheEntriesArePinned(t *testing.T) {
	h := newCacheTestHarness(t)

	h.insert(100, 101, 1)
	h1 := h.cache.Lookup(encodeKey(100))
	assertEq(t, 101, h.cache.Value(h1).(int))

	h.insert(100, 102, 1)
	h2 := h.cache.Lookup(encodeKey(100))
	assertEq(t, 102, h.cache.Value(h2).(int))
	assertEq(t, 0, len(h.deletedKeys))

	h.cache.Release(h1)
	assertEq(t, 1, len(h.deletedKeys))
	assertEq(t, 100, h.deletedKeys[0])
	assertEq(t, 101, h.deletedValues[0])

	h.erase(100)
	assertEq(t, -1, h.lookup(100))
	assertEq(t, 1, len(h.deletedKeys))

	h.cache.Release(h2)
	assertEq(t, 2, len(h.deletedKeys))
	assertEq(t, 100, h.deletedKeys[1])
	assertEq(t, 102, h.deletedValues[1])
}

func TestCacheEvictionPolicy(t *testing.T) {
	h := newCacheTestHarness(t)

	h.insert(100, 101, 1)
	h.insert(200, 201, 1)
	h.insert(300, 301, 1)
	pinned := h.cache.Lookup(encodeKey(300))

	// A frequently looked-up entry must be kept around, as must anything
	// still pinned, even as enough new entries flow through to fill the
	// cache many times over.
	for i := 0; i < testCacheSize+100; i++ {
		h.insert(1000+i, 2000+i, 1)
		assertEq(t, 2000+i, h.lookup(1000+i))
		assertEq(t, 101, h.lookup(100))
	}
	assertEq(t, 101, h.lookup(100))
	assertEq(t, -1, h.lookup(200))
	assertEq(t, 301, h.lookup(300))
	h.cache.Release(pinned)
}

func TestCacheUseExceedsCacheSize(t *testing.T) {
	h := newCacheTestHarness(t)

	// Overfill the cache, keeping a handle on every inserted entry.
	var handles []*Handle
	for i := 0; i < testCacheSize+100; i++ {
		handles = append(handles, h.insertAndReturnHandle(1000+i, 2000+i, 1))
	}

	// Every entry must still be found: none of them could be evicted while
	// pinned, no matter how far over capacity usage ran.
	for i := range handles {
		assertEq(t, 2000+i, h.lookup(1000+i))
	}

	for _, handle := range handles {
		h.cache.Release(handle)
	}
}

func TestCacheHeavyEntries(t *testing.T) {
	h := newCacheTestHarness(t)

	const heavy = 10
	const light = 1
	added := 0
	index := 0
	for added < 2*testCacheSize {
		charge := uint64(light)
		if index&1 == 1 {
			charge = heavy
		}
		h.insert(index, 1000+index, charge)
		added += int(charge)
		index++
	}

	// TotalCharge is authoritative: it must never exceed the cache's real
	// capacity, which is the per-shard capacity (rounded up from
	// testCacheSize/16) times 16 shards, not testCacheSize itself.
	const numShards = 16
	perShard := (uint64(testCacheSize) + numShards - 1) / numShards
	maxCapacity := perShard * numShards
	if total := h.cache.TotalCharge(); total > maxCapacity {
		t.Fatalf("TotalCharge %d exceeds capacity %d", total, maxCapacity)
	}
}

func TestCachePrune(t *testing.T) {
	h := newCacheTestHarness(t)

	h.insert(1, 1, 1)
	h.insert(2, 2, 1)
	pinned := h.cache.Lookup(encodeKey(2))

	h.cache.Prune()

	assertEq(t, -1, h.lookup(1))
	assertEq(t, 2, h.lookup(2)) // still pinned, survives Prune

	h.cache.Release(pinned)
	h.cache.Prune()
	assertEq(t, -1, h.lookup(2))
}

func TestCacheZeroCapacity(t *testing.T) {
	c := New(0, nil)
	defer c.Close()

	h := c.Insert([]byte("k"), "v", 1, nil)
	if got := c.Value(h); got != "v" {
		t.Fatalf("want v, got %v", got)
	}
	c.Release(h)

	// Nothing is retained once the caller's own reference drops.
	if found := c.Lookup([]byte("k")); found != nil {
		t.Fatalf("expected miss in a zero-capacity cache, got a handle")
	}
}
