package clockx

import (
	"sync"

	"github.com/tuannm99/novabuf/pkg/replacer"
)

// Clock implements CLOCK (second-chance) replacement for a fixed number of frames.
// It tracks ref bits and evictable state for frame ids [0..capacity).
type Clock struct {
	mu sync.Mutex

	ref       []bool
	evictable []bool
	present   []bool
	hand      int
	size      int // number of evictable frames
}

func New(capacity int) *Clock {
	if capacity <= 0 {
		capacity = 1
	}
	return &Clock{
		ref:       make([]bool, capacity),
		evictable: make([]bool, capacity),
		present:   make([]bool, capacity),
	}
}

func (c *Clock) Capacity() int { return len(c.ref) }

// Touch marks frame as recently accessed, tracking it if needed.
func (c *Clock) Touch(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := replacer.CheckFrame("touch", id, len(c.ref)); err != nil {
		return err
	}
	c.present[id] = true
	c.ref[id] = true
	return nil
}

// SetEvictable marks whether frame can be evicted (pin == 0).
// Untracked frames are ignored.
func (c *Clock) SetEvictable(id int, evictable bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := replacer.CheckFrame("set_evictable", id, len(c.ref)); err != nil {
		return err
	}
	if !c.present[id] || c.evictable[id] == evictable {
		return nil
	}

	c.evictable[id] = evictable
	if evictable {
		c.size++
	} else {
		c.size--
	}
	return nil
}

// Evict returns victim frame id and ok flag, and stops tracking the victim.
func (c *Clock) Evict() (id int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.ref)
	if c.size == 0 {
		return -1, false
	}

	// Two sweeps: the first may only clear ref bits.
	for i := 0; i < 2*n; i++ {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		if !c.present[idx] || !c.evictable[idx] {
			continue
		}
		if c.ref[idx] {
			c.ref[idx] = false
			continue
		}
		c.clear(idx)
		return idx, true
	}
	return -1, false
}

// Remove stops tracking an evictable frame. Untracked frames are a no-op,
// pinned ones fail with replacer.ErrFrameNotEvictable.
func (c *Clock) Remove(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := replacer.CheckFrame("remove", id, len(c.ref)); err != nil {
		return err
	}
	if !c.present[id] {
		return nil
	}
	if !c.evictable[id] {
		return replacer.NotEvictable("remove", id)
	}
	c.clear(id)
	return nil
}

func (c *Clock) clear(id int) {
	if c.evictable[id] {
		c.size--
	}
	c.present[id] = false
	c.evictable[id] = false
	c.ref[id] = false
}

func (c *Clock) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
