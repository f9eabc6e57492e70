// Package lruk implements the LRU-K frame replacement policy.
//
// Frames with fewer than k recorded accesses live in the history list and
// have an infinite backward k-distance, so they are always evicted before
// any frame in the cache list. Within each list the least recently
// inserted (history) or accessed (cache) evictable frame goes first.
package lruk

import (
	"container/list"
	"sync"

	"github.com/tuannm99/novabuf/pkg/replacer"
)

// frame is the tracked state of one frame id. count == 0 means untracked.
type frame struct {
	count     int
	evictable bool
	elem      *list.Element // node in history (count < k) or cache (count >= k)
}

// Replacer tracks eviction priority for frame ids [0..capacity).
type Replacer struct {
	mu sync.Mutex

	k      int
	frames []frame

	// front is most recent; eviction scans from the back.
	history *list.List
	cache   *list.List

	size int // number of evictable frames
}

func New(capacity, k int) *Replacer {
	if capacity <= 0 {
		capacity = 1
	}
	if k <= 0 {
		k = 1
	}
	return &Replacer{
		k:       k,
		frames:  make([]frame, capacity),
		history: list.New(),
		cache:   list.New(),
	}
}

func (r *Replacer) Capacity() int { return len(r.frames) }

func (r *Replacer) K() int { return r.k }

// RecordAccess counts one access to frameID and updates its list position.
func (r *Replacer) RecordAccess(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := replacer.CheckFrame("record_access", frameID, len(r.frames)); err != nil {
		return err
	}

	f := &r.frames[frameID]
	f.count++

	switch {
	case f.count == r.k:
		// Promotion. With k == 1 the frame never entered history.
		if f.elem != nil {
			r.history.Remove(f.elem)
		}
		f.elem = r.cache.PushFront(frameID)
	case f.count > r.k:
		r.cache.MoveToFront(f.elem)
	default:
		// History keeps first-access order; repeated sub-k hits do not move it.
		if f.elem == nil {
			f.elem = r.history.PushFront(frameID)
		}
	}
	return nil
}

// SetEvictable toggles whether frameID may be chosen by Evict.
// Frames that were never accessed are ignored.
func (r *Replacer) SetEvictable(frameID int, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := replacer.CheckFrame("set_evictable", frameID, len(r.frames)); err != nil {
		return err
	}

	f := &r.frames[frameID]
	if f.count == 0 || f.evictable == evictable {
		return nil
	}

	f.evictable = evictable
	if evictable {
		r.size++
	} else {
		r.size--
	}
	return nil
}

// Evict picks a victim, drops its tracked state and returns it.
// It returns (-1, false) when no frame is evictable.
func (r *Replacer) Evict() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == 0 {
		return -1, false
	}

	if id, ok := r.evictFrom(r.history); ok {
		return id, true
	}
	return r.evictFrom(r.cache)
}

func (r *Replacer) evictFrom(l *list.List) (int, bool) {
	for e := l.Back(); e != nil; e = e.Prev() {
		id := e.Value.(int)
		if !r.frames[id].evictable {
			continue
		}
		l.Remove(e)
		r.reset(id)
		return id, true
	}
	return -1, false
}

// Remove drops the tracked state of an evictable frame outside of Evict.
// Removing an untracked frame is a no-op; removing a pinned one fails.
func (r *Replacer) Remove(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := replacer.CheckFrame("remove", frameID, len(r.frames)); err != nil {
		return err
	}

	f := &r.frames[frameID]
	if f.count == 0 {
		return nil
	}
	if !f.evictable {
		return replacer.NotEvictable("remove", frameID)
	}

	if f.count < r.k {
		r.history.Remove(f.elem)
	} else {
		r.cache.Remove(f.elem)
	}
	r.reset(frameID)
	return nil
}

// reset clears frame state. Callers unlink the list node first.
func (r *Replacer) reset(frameID int) {
	if r.frames[frameID].evictable {
		r.size--
	}
	r.frames[frameID] = frame{}
}

// Size returns the number of evictable frames.
func (r *Replacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// AccessCount returns the recorded accesses of frameID, 0 if untracked or out of range.
func (r *Replacer) AccessCount(frameID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frameID < 0 || frameID >= len(r.frames) {
		return 0
	}
	return r.frames[frameID].count
}
