package cache

import (
	"sync"

	"github.com/dendrondb/lrucache/internal/murmurhash"
)

const (
	numShardBits = 4
	numShards    = 1 << numShardBits
	hashSeed     = 0
)

// ShardedLRUCache fans a total capacity out across a fixed 16 shards,
// routing each key by the top numShardBits bits of its hash. The low bits
// feed the handle table's bucket indexing inside a shard, so the two are
// deliberately uncorrelated: a key's shard and its bucket within that
// shard never depend on overlapping bits of the same hash.
type ShardedLRUCache struct {
	shards [numShards]*shard

	idMu   sync.Mutex
	lastID uint64
}

// New builds a ShardedLRUCache with the given total capacity, split evenly
// (rounded up) across the 16 shards. opts may be nil, equivalent to a
// zero-value Options.
func New(capacity uint64, opts *Options) *ShardedLRUCache {
	if opts == nil {
		opts = &Options{}
	}
	metrics := opts.Metrics
	logger := opts.logger()
	perShard := (capacity + numShards - 1) / numShards

	c := &ShardedLRUCache{}
	for i := range c.shards {
		c.shards[i] = newShard(perShard, i, metrics, logger)
	}
	return c
}

// Close logs a diagnostic for any shard that still has handles pinned by
// callers. It does not release or invalidate those handles; callers remain
// responsible for releasing every Handle they hold.
func (c *ShardedLRUCache) Close() {
	for _, s := range c.shards {
		s.close()
	}
}

func hashKey(key []byte) uint32 {
	return murmurhash.Hash(key, hashSeed)
}

func (c *ShardedLRUCache) shardFor(hash uint32) *shard {
	return c.shards[hash>>(32-numShardBits)]
}

// Insert adds key->value with the given charge, evicting idle entries in
// key's shard as needed, and returns a Handle pinned for the caller.
func (c *ShardedLRUCache) Insert(key []byte, value any, charge uint64, deleter Deleter) *Handle {
	hash := hashKey(key)
	return c.shardFor(hash).insert(key, hash, value, charge, deleter)
}

// Lookup returns a pinned Handle for key, or nil if key is not present.
func (c *ShardedLRUCache) Lookup(key []byte) *Handle {
	hash := hashKey(key)
	return c.shardFor(hash).lookup(key, hash)
}

// Release drops one reference on h, taken by a prior Insert or Lookup.
func (c *ShardedLRUCache) Release(h *Handle) {
	c.shardFor(h.hash).release(h)
}

// Value returns the value associated with a still-held Handle.
func (c *ShardedLRUCache) Value(h *Handle) any {
	return c.shardFor(h.hash).value(h)
}

// Erase removes key from the cache if present. Callers already holding a
// Handle for key keep it valid until they Release it.
func (c *ShardedLRUCache) Erase(key []byte) {
	hash := hashKey(key)
	c.shardFor(hash).erase(key, hash)
}

// NewID returns a cache-wide monotonically increasing id, for callers that
// need to namespace keys (e.g. per-file cache key prefixes) without
// coordinating among themselves.
func (c *ShardedLRUCache) NewID() uint64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.lastID++
	return c.lastID
}

// Prune evicts every currently unpinned entry across all shards.
func (c *ShardedLRUCache) Prune() {
	for _, s := range c.shards {
		s.prune()
	}
}

// TotalCharge sums usage across all 16 shards.
func (c *ShardedLRUCache) TotalCharge() uint64 {
	var total uint64
	for _, s := range c.shards {
		total += s.totalCharge()
	}
	return total
}

// ShardStats is a lock-free snapshot of one shard's operation counters.
// Like MetricsHook, this is additive ambient instrumentation: it never
// gates or changes the outcome of Insert/Lookup/Release/Erase/Prune, and
// it is not the authoritative accounting primitive for resident charge —
// TotalCharge remains that.
type ShardStats struct {
	Hits      uint64
	Misses    uint64
	Inserts   uint64
	Evictions uint64
}

// Stats returns a per-shard snapshot of operation counters, one entry per
// shard in shard-index order. Reading it never blocks on or contends with
// Insert/Lookup/Release/Erase running concurrently on any shard.
func (c *ShardedLRUCache) Stats() []ShardStats {
	stats := make([]ShardStats, len(c.shards))
	for i, s := range c.shards {
		stats[i] = s.stats()
	}
	return stats
}
