package bufferpool

import (
	"sync"

	"github.com/tuannm99/novabuf/pkg/lru"
	"github.com/tuannm99/novabuf/pkg/replacer"
)

// lruAdapter drives the legacy Pin/Unpin/Victim replacer. It tracks which
// frames were accessed so SetEvictable and Remove keep the same no-op and
// pinned-frame rules as the other policies.
type lruAdapter struct {
	mu      sync.Mutex
	l       *lru.Replacer
	tracked []bool
}

func newLRUAdapter(capacity int) Replacer {
	l := lru.New(capacity)
	return &lruAdapter{l: l, tracked: make([]bool, l.Capacity())}
}

func (a *lruAdapter) RecordAccess(frameID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := replacer.CheckFrame("record_access", frameID, len(a.tracked)); err != nil {
		return err
	}
	a.tracked[frameID] = true
	return nil
}

func (a *lruAdapter) SetEvictable(frameID int, e bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := replacer.CheckFrame("set_evictable", frameID, len(a.tracked)); err != nil {
		return err
	}
	if !a.tracked[frameID] {
		return nil
	}
	if e {
		return a.l.Unpin(frameID)
	}
	return a.l.Pin(frameID)
}

func (a *lruAdapter) Evict() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, ok := a.l.Victim()
	if ok {
		a.tracked[id] = false
	}
	return id, ok
}

func (a *lruAdapter) Remove(frameID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := replacer.CheckFrame("remove", frameID, len(a.tracked)); err != nil {
		return err
	}
	if !a.tracked[frameID] {
		return nil
	}
	if !a.l.Contains(frameID) {
		return replacer.NotEvictable("remove", frameID)
	}
	if err := a.l.Pin(frameID); err != nil {
		return err
	}
	a.tracked[frameID] = false
	return nil
}

func (a *lruAdapter) Size() int {
	return a.l.Size()
}
