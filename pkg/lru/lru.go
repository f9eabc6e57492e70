// Package lru is the single-tier LRU replacer: frames become candidates
// when unpinned and the least recently unpinned candidate is the victim.
package lru

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/tuannm99/novabuf/pkg/replacer"
)

type Replacer struct {
	mu       sync.Mutex
	capacity int
	lru      *simplelru.LRU[int, struct{}]
}

func New(capacity int) *Replacer {
	if capacity <= 0 {
		capacity = 1
	}
	// Only fails for a non-positive size.
	l, _ := simplelru.NewLRU[int, struct{}](capacity, nil)
	return &Replacer{capacity: capacity, lru: l}
}

func (r *Replacer) Capacity() int { return r.capacity }

// Victim pops the least recently unpinned frame.
func (r *Replacer) Victim() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, _, ok := r.lru.RemoveOldest()
	if !ok {
		return -1, false
	}
	return id, true
}

// Pin removes frameID from the candidates.
func (r *Replacer) Pin(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := replacer.CheckFrame("pin", frameID, r.capacity); err != nil {
		return err
	}
	r.lru.Remove(frameID)
	return nil
}

// Unpin adds frameID to the candidates. An already unpinned frame keeps its position.
func (r *Replacer) Unpin(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := replacer.CheckFrame("unpin", frameID, r.capacity); err != nil {
		return err
	}
	if !r.lru.Contains(frameID) {
		r.lru.Add(frameID, struct{}{})
	}
	return nil
}

// Contains reports whether frameID is currently a candidate.
func (r *Replacer) Contains(frameID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Contains(frameID)
}

func (r *Replacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}
