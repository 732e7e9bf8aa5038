package cache

import (
	"bytes"

	"github.com/dendrondb/lrucache/internal/util"
)

// handleTable is an open-chaining hash index from (hash, key) to *Handle.
// The bucket array length is always a power of two; bucket i holds the
// head of a singly linked chain threaded through Handle.nextHash. It is
// not internally synchronized — callers must hold the owning shard's lock.
//
// We provide our own table instead of a map[string]*Handle for the same
// reason the source this models does: the key is already carried inline on
// the Handle, so a map keyed by a second copy of the bytes (the string
// conversion) would duplicate storage and hashing work the table already
// does via the cached Handle.hash field.
type handleTable struct {
	length uint32
	elems  uint32
	list   []*Handle
	log    shardLog
}

func newHandleTable(log shardLog) *handleTable {
	t := &handleTable{log: log}
	t.resize()
	return t
}

func (t *handleTable) lookup(key []byte, hash uint32) *Handle {
	return *t.findPointer(key, hash)
}

// insert links h into the table, displacing and returning any prior entry
// with the same key (the shard finishes erasing it). Resizes when the load
// factor would exceed 1.
func (t *handleTable) insert(h *Handle) *Handle {
	ptr := t.findPointer(h.key, h.hash)
	old := *ptr
	if old == nil {
		h.nextHash = nil
	} else {
		h.nextHash = old.nextHash
	}
	*ptr = h
	if old == nil {
		t.elems++
		if t.elems > t.length {
			t.resize()
		}
	}
	return old
}

// remove unlinks and returns the entry matching key/hash, or nil if absent.
func (t *handleTable) remove(key []byte, hash uint32) *Handle {
	ptr := t.findPointer(key, hash)
	result := *ptr
	if result != nil {
		*ptr = result.nextHash
		t.elems--
	}
	return result
}

// findPointer returns the address of the slot that holds the matching
// entry, or the address of the chain's trailing nil slot if there is no
// match. Mirrors the source's **LRUHandle idiom directly: Go supports
// pointer-to-pointer the same way, and it lets insert/remove splice the
// chain in place without separately tracking the previous link.
func (t *handleTable) findPointer(key []byte, hash uint32) **Handle {
	ptr := &t.list[hash&(t.length-1)]
	for *ptr != nil && ((*ptr).hash != hash || !bytes.Equal((*ptr).key, key)) {
		ptr = &(*ptr).nextHash
	}
	return ptr
}

// resize grows the bucket array to the smallest power of two that keeps
// the load factor at or below 1 (minimum length 4) and rehashes every
// entry into it.
func (t *handleTable) resize() {
	oldLength := t.length
	newLength := util.NextPow2(uint64(t.elems))
	if newLength < 4 {
		newLength = 4
	}
	newList := make([]*Handle, newLength)

	var count uint32
	for i := uint32(0); i < t.length; i++ {
		h := t.list[i]
		for h != nil {
			next := h.nextHash
			idx := uint64(h.hash) & (newLength - 1)
			h.nextHash = newList[idx]
			newList[idx] = h
			h = next
			count++
		}
	}
	if uint64(t.elems) != uint64(count) {
		panic("cache: handleTable resize lost or duplicated entries")
	}
	t.list = newList
	t.length = uint32(newLength)
	if oldLength != 0 {
		t.log.resized(oldLength, t.length, t.elems)
	}
}
