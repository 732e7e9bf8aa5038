package cache

// Cache is a concurrent, sharded, reference-counted LRU cache mapping
// opaque byte-string keys to opaque values. All methods are safe for
// concurrent use by multiple goroutines. Complexity for Insert, Lookup,
// Release, Erase, and Value is O(1) amortized; Prune is O(n) in the number
// of currently cached entries; TotalCharge reads one counter per shard.
//
// A Handle returned by Insert or Lookup carries one reference the caller
// owns and must release exactly once via Release. The entry it refers to
// stays valid — Value keeps returning the same value — for as long as that
// reference is held, even if the entry is evicted or Erase is called for
// its key in the meantime.
type Cache interface {
	// Insert adds key->value under charge units of capacity, evicting idle
	// entries in key's shard as needed, and returns a Handle pinned for
	// the caller. deleter, if non-nil, runs exactly once when the last
	// reference to the returned Handle drops. A prior entry for the same
	// key is displaced, and its own deleter runs when its last reference
	// drops.
	Insert(key []byte, value any, charge uint64, deleter Deleter) *Handle

	// Lookup returns a pinned Handle for key, or nil if key is absent.
	Lookup(key []byte) *Handle

	// Release drops one reference taken by a prior Insert or Lookup.
	Release(h *Handle)

	// Value returns the value associated with a still-held Handle.
	Value(h *Handle) any

	// Erase removes key from the cache if present. Handles already held
	// for key remain valid until released.
	Erase(key []byte)

	// NewID returns a cache-wide monotonically increasing id.
	NewID() uint64

	// Prune evicts every currently unpinned entry.
	Prune()

	// TotalCharge returns the sum of charges for all entries currently
	// held by the cache, across all shards.
	TotalCharge() uint64
}

var _ Cache = (*ShardedLRUCache)(nil)
