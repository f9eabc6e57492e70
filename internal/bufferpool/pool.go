package bufferpool

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tuannm99/novabuf/internal/storage"
)

var (
	DefaultCapacity = 128
	DefaultK        = 2

	ErrNoFreeFrame   = errors.New("bufferpool: no free frame available (all pinned)")
	ErrPagePinned    = errors.New("bufferpool: page is pinned")
	ErrPageNotPinned = errors.New("bufferpool: page is not pinned")
)

type Options struct {
	Capacity int
	Policy   Policy
	K        int
}

type Frame struct {
	PageID uint32
	Page   *storage.Page
	Dirty  bool
	Pin    int32
}

type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Flushes   uint64
}

// Pool caches pages of one PageStore in a fixed set of frames and asks its
// Replacer which unpinned frame to reuse when no frame is free.
type Pool struct {
	store  storage.PageStore
	policy Policy

	mu        sync.Mutex
	frames    []*Frame       // len == capacity, nil == free slot
	free      []int          // free frame indices, popped from the end
	pageTable map[uint32]int // PageID -> frame index

	replacementPolicy Replacer

	hits, misses, evictions, flushes atomic.Uint64
}

func NewPool(store storage.PageStore, opts Options) (*Pool, error) {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Policy == "" {
		opts.Policy = PolicyLRUK
	}
	if opts.K <= 0 {
		opts.K = DefaultK
	}

	repl, err := NewReplacer(opts.Policy, opts.Capacity, opts.K)
	if err != nil {
		return nil, err
	}

	free := make([]int, opts.Capacity)
	for i := range free {
		// lowest index is handed out first
		free[i] = opts.Capacity - 1 - i
	}

	return &Pool{
		store:             store,
		policy:            opts.Policy,
		frames:            make([]*Frame, opts.Capacity),
		free:              free,
		pageTable:         make(map[uint32]int),
		replacementPolicy: repl,
	}, nil
}

func (p *Pool) Capacity() int { return len(p.frames) }

func (p *Pool) Policy() Policy { return p.policy }

// GetPage pins and returns pageID, loading it into a frame on a miss.
func (p *Pool) GetPage(pageID uint32) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 1) HIT
	if idx, ok := p.pageTable[pageID]; ok {
		f := p.frames[idx]
		if err := p.replacementPolicy.RecordAccess(idx); err != nil {
			return nil, err
		}
		if f.Pin == 0 {
			if err := p.replacementPolicy.SetEvictable(idx, false); err != nil {
				return nil, err
			}
		}
		f.Pin++
		p.hits.Add(1)
		return f.Page, nil
	}

	p.misses.Add(1)

	// 2) Free slot, else 3) evict
	idx, err := p.takeFrame()
	if err != nil {
		return nil, err
	}

	page, err := p.store.LoadPage(pageID)
	if err != nil {
		p.free = append(p.free, idx)
		return nil, fmt.Errorf("bufferpool: load page %d: %w", pageID, err)
	}

	if err := p.replacementPolicy.RecordAccess(idx); err != nil {
		p.free = append(p.free, idx)
		return nil, err
	}
	if err := p.replacementPolicy.SetEvictable(idx, false); err != nil {
		p.free = append(p.free, idx)
		return nil, err
	}

	p.frames[idx] = &Frame{PageID: pageID, Page: page, Pin: 1}
	p.pageTable[pageID] = idx
	return page, nil
}

// takeFrame returns an empty frame index, evicting a victim if needed.
// The returned frame is in no table and untracked by the replacer.
func (p *Pool) takeFrame() (int, error) {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return idx, nil
	}

	victimIdx, ok := p.replacementPolicy.Evict()
	if !ok {
		return -1, ErrNoFreeFrame
	}

	victim := p.frames[victimIdx]
	if victim == nil || victim.Pin != 0 {
		// Replacer must never hand out free or pinned frames.
		slog.Error("bufferpool: replacer returned unusable victim", "frame", victimIdx)
		return -1, ErrNoFreeFrame
	}

	if victim.Dirty {
		if err := p.store.SavePage(victim.Page); err != nil {
			// Keep the victim resident and evictable.
			p.restoreEvictable(victimIdx)
			return -1, fmt.Errorf("bufferpool: flush victim page %d: %w", victim.PageID, err)
		}
		victim.Dirty = false
		p.flushes.Add(1)
	}

	slog.Debug("bufferpool: evicted frame",
		"frame", victimIdx,
		"page", victim.PageID,
		"policy", p.policy,
	)

	delete(p.pageTable, victim.PageID)
	p.frames[victimIdx] = nil
	p.evictions.Add(1)
	return victimIdx, nil
}

func (p *Pool) restoreEvictable(idx int) {
	if err := p.replacementPolicy.RecordAccess(idx); err != nil {
		slog.Warn("bufferpool: restore victim", "frame", idx, "err", err)
		return
	}
	if err := p.replacementPolicy.SetEvictable(idx, true); err != nil {
		slog.Warn("bufferpool: restore victim", "frame", idx, "err", err)
	}
}

// Unpin drops one pin on page and optionally marks it dirty.
// The frame becomes evictable when its pin count reaches zero.
func (p *Pool) Unpin(page *storage.Page, dirty bool) error {
	if page == nil {
		return nil
	}
	pageID := page.PageID()

	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pageID]
	if !ok {
		return nil
	}

	f := p.frames[idx]
	if f.Pin <= 0 {
		return ErrPageNotPinned
	}

	if f.Pin == 1 {
		if err := p.replacementPolicy.SetEvictable(idx, true); err != nil {
			return err
		}
	}
	f.Pin--
	if dirty {
		f.Dirty = true
	}
	return nil
}

// FlushPage writes pageID back if it is resident and dirty.
func (p *Pool) FlushPage(pageID uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pageID]
	if !ok {
		return nil
	}
	return p.flushFrame(p.frames[idx])
}

func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range p.frames {
		if f == nil {
			continue
		}
		if err := p.flushFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) flushFrame(f *Frame) error {
	if !f.Dirty {
		return nil
	}
	if err := p.store.SavePage(f.Page); err != nil {
		return fmt.Errorf("bufferpool: flush page %d: %w", f.PageID, err)
	}
	f.Dirty = false
	p.flushes.Add(1)
	return nil
}

// DeletePage drops pageID from the pool, flushing it first if dirty.
// Pinned pages return ErrPagePinned.
func (p *Pool) DeletePage(pageID uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pageID]
	if !ok {
		return nil
	}

	f := p.frames[idx]
	if f.Pin != 0 {
		return ErrPagePinned
	}

	if err := p.flushFrame(f); err != nil {
		return err
	}
	if err := p.replacementPolicy.Remove(idx); err != nil {
		return err
	}

	p.frames[idx] = nil
	delete(p.pageTable, pageID)
	p.free = append(p.free, idx)
	return nil
}

// PinCount returns the pin count of a resident page.
func (p *Pool) PinCount(pageID uint32) (int32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pageID]
	if !ok {
		return 0, false
	}
	return p.frames[idx].Pin, true
}

// Evictable returns how many resident frames the replacer may reclaim.
func (p *Pool) Evictable() int {
	return p.replacementPolicy.Size()
}

func (p *Pool) Stats() Stats {
	return Stats{
		Hits:      p.hits.Load(),
		Misses:    p.misses.Load(),
		Evictions: p.evictions.Load(),
		Flushes:   p.flushes.Load(),
	}
}
