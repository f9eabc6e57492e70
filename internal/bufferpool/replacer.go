package bufferpool

import (
	"fmt"
	"strings"

	"github.com/tuannm99/novabuf/pkg/lruk"
)

// Replacer decides which frame the pool reclaims when it is full.
// Frame ids are the pool's frame indices [0..capacity).
type Replacer interface {
	RecordAccess(frameID int) error
	SetEvictable(frameID int, evictable bool) error
	Evict() (frameID int, ok bool)
	Remove(frameID int) error
	Size() int
}

type Policy string

const (
	PolicyLRUK  Policy = "lru-k"
	PolicyClock Policy = "clock"
	PolicyLRU   Policy = "lru"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyLRUK, "lruk":
		return PolicyLRUK, nil
	case PolicyClock, PolicyLRU:
		return p, nil
	default:
		return "", fmt.Errorf("bufferpool: unknown replacement policy %q", s)
	}
}

var _ Replacer = (*lruk.Replacer)(nil)

// NewReplacer builds the replacer for policy. k is only used by lru-k.
func NewReplacer(policy Policy, capacity, k int) (Replacer, error) {
	switch policy {
	case PolicyLRUK, "":
		if k <= 0 {
			k = DefaultK
		}
		return lruk.New(capacity, k), nil
	case PolicyClock:
		return newClockAdapter(capacity), nil
	case PolicyLRU:
		return newLRUAdapter(capacity), nil
	default:
		return nil, fmt.Errorf("bufferpool: unknown replacement policy %q", policy)
	}
}
