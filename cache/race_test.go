package cache

import (
	"fmt"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestConcurrentInsertLookupRelease hammers one cache from many goroutines
// at once: run with -race to catch any unsynchronized access to shard
// state or handle links.
func TestConcurrentInsertLookupRelease(t *testing.T) {
	c := New(1000, nil)
	defer c.Close()

	const workers = 64
	const opsPerWorker = 2000

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < opsPerWorker; i++ {
				key := []byte(fmt.Sprintf("k-%d-%d", w, i%50))
				switch i % 3 {
				case 0:
					h := c.Insert(key, i, 1, nil)
					c.Release(h)
				case 1:
					if h := c.Lookup(key); h != nil {
						_ = c.Value(h)
						c.Release(h)
					}
				case 2:
					c.Erase(key)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// TestConcurrentPinAcrossGoroutines checks that a Handle held by one
// goroutine stays valid and keeps its entry alive while other goroutines
// put the rest of the cache under concurrent eviction pressure.
func TestConcurrentPinAcrossGoroutines(t *testing.T) {
	c := New(32, nil)
	defer c.Close()

	pinned := c.Insert([]byte("pinned"), "kept", 1, nil)

	var g errgroup.Group
	for w := 0; w < 2*runtime.GOMAXPROCS(0); w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 5000; i++ {
				key := []byte(fmt.Sprintf("churn-%d-%d", w, i))
				h := c.Insert(key, i, 1, nil)
				c.Release(h)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := c.Value(pinned); got != "kept" {
		t.Fatalf("pinned entry corrupted: want %q, got %v", "kept", got)
	}
	c.Release(pinned)
}
