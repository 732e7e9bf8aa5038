// Package cache implements a concurrent, sharded, reference-counted LRU
// cache. Keys and values are opaque: keys are byte strings, values are any
// caller-supplied type. Capacity is tracked in caller-supplied "charge"
// units rather than bytes or entry counts, so the cache has no notion of
// what a charge actually measures.
//
// Every entry handed back by Insert or Lookup is a *Handle the caller owns
// and must Release exactly once. While at least one reference is held, the
// entry cannot be evicted by capacity pressure. An explicit Erase of its
// key removes it from the cache, but the held Handle stays valid until it
// is released. Eviction only ever considers entries with no external
// references, and always in strict least-recently-used order among those.
//
// The cache is split into 16 fixed shards, each independently locked, to
// keep lock contention low under concurrent access from many goroutines.
package cache
