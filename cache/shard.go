package cache

import (
	"sync"

	"github.com/dendrondb/lrucache/internal/util"
	"go.uber.org/zap"
)

// shard is one LRUCache: a handle table plus two circular, intrusive lists.
//
// lru holds entries with in_cache=true, refs==1 — unpinned, eligible for
// eviction, ordered oldest-to-newest from lru.next. inUse holds entries
// with in_cache=true, refs>=2 — currently held by at least one caller in
// addition to the cache's own reference. Both lists use a dummy sentinel
// Handle (next/prev point back at themselves when empty) so insert/remove
// never special-case the empty list.
type shard struct {
	mu sync.Mutex

	capacity uint64
	usage    uint64

	lru   Handle
	inUse Handle
	table *handleTable

	_       util.CacheLinePad
	id      int
	metrics MetricsHook
	log     shardLog

	// Lock-free counters, one cache line apart so that 16 shards updating
	// their own counters concurrently don't bounce a shared line between
	// cores. Maintained unconditionally (not just when Options.Metrics is
	// set) so Stats can report them without taking the shard's mutex.
	hits      util.PaddedAtomicUint64
	misses    util.PaddedAtomicUint64
	inserts   util.PaddedAtomicUint64
	evictions util.PaddedAtomicUint64
}

func newShard(capacity uint64, id int, metrics MetricsHook, logger *zap.Logger) *shard {
	log := newShardLog(logger, id)
	s := &shard{
		capacity: capacity,
		table:    newHandleTable(log),
		id:       id,
		metrics:  metrics,
		log:      log,
	}
	s.lru.next = &s.lru
	s.lru.prev = &s.lru
	s.inUse.next = &s.inUse
	s.inUse.prev = &s.inUse
	return s
}

// ---- internals ----

func listRemove(h *Handle) {
	h.next.prev = h.prev
	h.prev.next = h.next
}

// listAppend inserts h immediately before list, i.e. at list's tail —
// making list.prev == h the most-recently-appended slot.
func listAppend(list, h *Handle) {
	h.next = list
	h.prev = list.prev
	h.prev.next = h
	h.next.prev = h
}

// ref moves h into the in-use list the first time an external reference is
// taken (refs goes 1->2 while in_cache). Every other call just bumps refs.
func (s *shard) ref(h *Handle) {
	if h.refs == 1 && h.inCache {
		listRemove(h)
		listAppend(&s.inUse, h)
	}
	h.refs++
}

// unref drops one reference, invoking the deleter and freeing h once refs
// reaches zero. Panics if called on a handle that has already hit zero
// references, which can only mean a caller double-released a Handle.
func (s *shard) unref(h *Handle) {
	if h.refs == 0 {
		panic("cache: unref of handle with zero references")
	}
	h.refs--
	if h.refs == 0 {
		if h.inCache {
			panic("cache: unref dropped refs to zero while still in cache")
		}
		if h.deleter != nil {
			h.deleter(h.key, h.value)
		}
	} else if h.inCache && h.refs == 1 {
		// Back down to the cache's own reference: move idle.
		listRemove(h)
		listAppend(&s.lru, h)
	}
}

func (s *shard) lookup(key []byte, hash uint32) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.table.lookup(key, hash)
	if h != nil {
		s.ref(h)
	}
	s.recordLookup(h != nil)
	return h
}

func (s *shard) release(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unref(h)
}

func (s *shard) value(h *Handle) any {
	return h.value
}

// insert adds (key, value) under hash with the given charge, evicting
// idle entries from the lru list while usage exceeds capacity. Returns a
// Handle carrying one reference for the caller. A capacity of zero
// disables retention entirely: the entry is still handed back to the
// caller with one live reference, but it is never added to the handle
// table or either list, matching spec.md §4.2's zero-capacity mode.
func (s *shard) insert(key []byte, hash uint32, value any, charge uint64, deleter Deleter) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := newHandle(key, hash, value, charge, deleter)

	if s.capacity > 0 {
		h.refs++ // one for the cache's table entry, one for the caller
		h.inCache = true
		listAppend(&s.inUse, h)
		s.usage += charge
		if old := s.table.insert(h); old != nil {
			s.finishErase(old)
		}
	} else {
		// Not cached: the caller's handle is the only reference.
		h.nextHash = nil
	}

	for s.usage > s.capacity && s.lru.next != &s.lru {
		oldest := s.lru.next
		old := s.table.remove(oldest.key, oldest.hash)
		if old != oldest {
			panic("cache: lru entry missing from handle table")
		}
		s.finishErase(oldest)
	}

	s.recordInsert()
	return h
}

// finishErase removes h from whichever list it occupies, marks it evicted,
// and drops the cache's own reference. h must already be unlinked from the
// handle table by the caller.
func (s *shard) finishErase(h *Handle) {
	listRemove(h)
	h.inCache = false
	s.usage -= h.charge
	s.unref(h)
	s.recordEvict()
}

func (s *shard) erase(key []byte, hash uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.table.remove(key, hash); h != nil {
		s.finishErase(h)
	}
}

// prune evicts every currently unpinned (idle) entry, regardless of
// capacity headroom.
func (s *shard) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.lru.next != &s.lru {
		h := s.lru.next
		old := s.table.remove(h.key, h.hash)
		if old != h {
			panic("cache: lru entry missing from handle table")
		}
		s.finishErase(h)
	}
}

// close logs a diagnostic if any handles in this shard are still pinned by
// callers. It does not force-release them: a Handle's lifetime is owned by
// whoever holds it, not by the cache.
func (s *shard) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	pinned := 0
	for h := s.inUse.next; h != &s.inUse; h = h.next {
		pinned++
	}
	if pinned > 0 {
		s.log.closedWithPinned(pinned)
	}
}

func (s *shard) totalCharge() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

func (s *shard) recordInsert() {
	s.inserts.Add(1)
	if s.metrics != nil {
		s.metrics.Insert(s.id, s.usage, s.capacity)
	}
}

func (s *shard) recordLookup(hit bool) {
	if hit {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.Hit(s.id)
	} else {
		s.metrics.Miss(s.id)
	}
}

func (s *shard) recordEvict() {
	s.evictions.Add(1)
	if s.metrics != nil {
		s.metrics.Evict(s.id, s.usage, s.capacity)
	}
}

// stats snapshots this shard's lock-free counters. Safe to call
// concurrently with any other shard method; it never takes s.mu.
func (s *shard) stats() ShardStats {
	return ShardStats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Inserts:   s.inserts.Load(),
		Evictions: s.evictions.Load(),
	}
}
