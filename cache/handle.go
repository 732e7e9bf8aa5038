package cache

// Deleter is invoked exactly once, with the key and value a Handle held,
// when that handle's last reference drops. It may run on whichever
// goroutine caused the last Release, Erase, eviction, or Prune — it must
// not reenter the cache on the shard that owns the entry.
type Deleter func(key []byte, value any)

// Handle is an opaque reference to one cached entry. Insert and a
// successful Lookup each return a Handle carrying one external reference;
// callers must Release it exactly once. A Handle remains valid — Value
// keeps returning the same value — across evictions and Erase calls of its
// key, for as long as the caller holds it.
//
// Handle doubles as the intrusive list node described in spec.md §3: it
// carries its own prev/next pointers for whichever of the shard's two
// circular lists it currently belongs to, and a singly linked nextHash
// pointer for the handle table's collision chain. There is no separate
// node wrapper type; the handle table and the shard's lists operate on
// *Handle directly.
type Handle struct {
	value   any
	deleter Deleter
	key     []byte
	hash    uint32
	charge  uint64

	refs    uint32
	inCache bool

	// prev/next: exactly one of the shard's lru/inUse circular lists.
	prev *Handle
	next *Handle

	// nextHash: the handle table's collision chain within one bucket.
	nextHash *Handle
}

func newHandle(key []byte, hash uint32, value any, charge uint64, deleter Deleter) *Handle {
	owned := make([]byte, len(key))
	copy(owned, key)
	return &Handle{
		value:   value,
		deleter: deleter,
		key:     owned,
		hash:    hash,
		charge:  charge,
		refs:    1,
	}
}
