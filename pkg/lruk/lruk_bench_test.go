package lruk_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/hashicorp/golang-lru/arc/v2"

	"github.com/tuannm99/novabuf/pkg/lruk"
)

// Fixed RNG seed so hit ratios are comparable between runs.
const rngSeed = 1

type (
	// pageCache answers whether a page access was a hit.
	pageCache interface {
		Access(pageID int) bool
	}
	cacheCtor  = func(capacity int, b *testing.B) pageCache
	patternGen = func(capacity int) []int
)

// framePool is the smallest buffer pool that drives an LRU-K replacer:
// a page table, a free list and one pin/unpin per access.
type framePool struct {
	repl  *lruk.Replacer
	table map[int]int // page -> frame
	owner []int       // frame -> page
	free  []int
	b     *testing.B
}

func newFramePool(capacity, k int, b *testing.B) *framePool {
	free := make([]int, capacity)
	owner := make([]int, capacity)
	for i := range free {
		free[i] = capacity - 1 - i
		owner[i] = -1
	}
	return &framePool{
		repl:  lruk.New(capacity, k),
		table: make(map[int]int, capacity),
		owner: owner,
		free:  free,
		b:     b,
	}
}

func (p *framePool) Access(pageID int) bool {
	if idx, ok := p.table[pageID]; ok {
		p.touch(idx)
		return true
	}

	var idx int
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		victim, ok := p.repl.Evict()
		if !ok {
			p.b.Fatal("no evictable frame")
		}
		delete(p.table, p.owner[victim])
		idx = victim
	}
	p.table[pageID] = idx
	p.owner[idx] = pageID
	p.touch(idx)
	return false
}

func (p *framePool) touch(idx int) {
	if err := p.repl.RecordAccess(idx); err != nil {
		p.b.Fatal(err)
	}
	if err := p.repl.SetEvictable(idx, true); err != nil {
		p.b.Fatal(err)
	}
}

type arcCache struct {
	*arc.ARCCache[int, struct{}]
}

func (c arcCache) Access(pageID int) bool {
	if _, ok := c.Get(pageID); ok {
		return true
	}
	c.Add(pageID, struct{}{})
	return false
}

func cacheConstructors() map[string]cacheCtor {
	return map[string]cacheCtor{
		"LRU-2": func(capacity int, b *testing.B) pageCache {
			return newFramePool(capacity, 2, b)
		},
		"LRU-3": func(capacity int, b *testing.B) pageCache {
			return newFramePool(capacity, 3, b)
		},
		"ARC": func(capacity int, b *testing.B) pageCache {
			c, err := arc.NewARC[int, struct{}](capacity)
			if err != nil {
				b.Fatal(err)
			}
			return arcCache{ARCCache: c}
		},
	}
}

func accessPatterns() map[string]patternGen {
	return map[string]patternGen{
		// hot working set interleaved with a long sequential scan
		"Scan over hot set": func(capacity int) []int {
			const seqLen = 1 << 15
			rng := rand.New(rand.NewSource(rngSeed))
			hot := capacity / 2
			seq := make([]int, seqLen)
			scan := hot
			for i := range seq {
				if rng.Intn(2) == 0 {
					seq[i] = rng.Intn(hot)
					continue
				}
				seq[i] = scan
				scan++
			}
			return seq
		},
		"Uniform random": func(capacity int) []int {
			const seqLen = 1 << 15
			rng := rand.New(rand.NewSource(rngSeed))
			seq := make([]int, seqLen)
			for i := range seq {
				seq[i] = rng.Intn(capacity * 4)
			}
			return seq
		},
		"Zipf": func(int) []int {
			const (
				universe = 1 << 14
				seqLen   = 1 << 15
			)
			rng := rand.New(rand.NewSource(rngSeed))
			z := rand.NewZipf(rng, 1.2, 1.0, universe-1)
			seq := make([]int, seqLen)
			for i := range seq {
				seq[i] = int(z.Uint64())
			}
			return seq
		},
	}
}

func BenchmarkHitRatio(b *testing.B) {
	capacities := []int{128, 1024}
	for patternName, gen := range accessPatterns() {
		for _, capacity := range capacities {
			seq := gen(capacity)
			for name, ctor := range cacheConstructors() {
				b.Run(fmt.Sprintf("%s/%s/cap=%d", patternName, name, capacity), func(b *testing.B) {
					var hits, total int
					for i := 0; i < b.N; i++ {
						c := ctor(capacity, b)
						for _, page := range seq {
							if c.Access(page) {
								hits++
							}
							total++
						}
					}
					b.ReportMetric(100*float64(hits)/float64(total), "hit%")
				})
			}
		}
	}
}

func BenchmarkReplacerOps(b *testing.B) {
	const capacity = 1024
	r := lruk.New(capacity, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := i % capacity
		_ = r.RecordAccess(id)
		_ = r.SetEvictable(id, true)
		if r.Size() == capacity {
			r.Evict()
		}
	}
}
