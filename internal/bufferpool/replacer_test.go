package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabuf/pkg/replacer"
)

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{
		"":      PolicyLRUK,
		"lru-k": PolicyLRUK,
		"LRUK":  PolicyLRUK,
		"clock": PolicyClock,
		" lru ": PolicyLRU,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("mru")
	require.Error(t, err)
}

func TestReplacers_SharedContract(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(string(policy), func(t *testing.T) {
			r, err := NewReplacer(policy, 4, 2)
			require.NoError(t, err)

			// out of range
			require.ErrorIs(t, r.RecordAccess(4), replacer.ErrInvalidFrame)
			require.ErrorIs(t, r.SetEvictable(-1, true), replacer.ErrInvalidFrame)
			require.ErrorIs(t, r.Remove(4), replacer.ErrInvalidFrame)

			// untracked frames: no-ops
			require.NoError(t, r.SetEvictable(0, true))
			require.NoError(t, r.Remove(0))
			require.Equal(t, 0, r.Size())

			require.NoError(t, r.RecordAccess(0))
			require.NoError(t, r.RecordAccess(1))
			require.Equal(t, 0, r.Size())

			_, ok := r.Evict()
			require.False(t, ok)

			// pinned frame cannot be removed
			require.ErrorIs(t, r.Remove(0), replacer.ErrFrameNotEvictable)

			require.NoError(t, r.SetEvictable(0, true))
			require.NoError(t, r.SetEvictable(1, true))
			require.Equal(t, 2, r.Size())

			require.NoError(t, r.Remove(0))
			require.NoError(t, r.Remove(0))
			require.Equal(t, 1, r.Size())

			v, ok := r.Evict()
			require.True(t, ok)
			require.Equal(t, 1, v)
			require.Equal(t, 0, r.Size())

			_, ok = r.Evict()
			require.False(t, ok)
		})
	}
}

func TestNewReplacer_UnknownPolicy(t *testing.T) {
	_, err := NewReplacer("mru", 4, 2)
	require.Error(t, err)
}
