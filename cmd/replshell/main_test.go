package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/pkg/replacer"
)

func TestExec_Session(t *testing.T) {
	r, err := bufferpool.NewReplacer(bufferpool.PolicyLRUK, 4, 2)
	require.NoError(t, err)

	var out bytes.Buffer
	for _, line := range []string{
		"access 1",
		"access 2",
		"access 1",
		"unpin 1",
		"unpin 2",
		"size",
		"evict",
		"evict",
		"evict",
	} {
		require.NoError(t, execLine(r, line, &out), line)
	}
	require.Equal(t, "ok\nok\nok\nok\nok\n2\nevicted 2\nevicted 1\nno victim\n", out.String())
}

func TestExec_Errors(t *testing.T) {
	r, err := bufferpool.NewReplacer(bufferpool.PolicyLRUK, 4, 2)
	require.NoError(t, err)

	var out bytes.Buffer
	require.ErrorIs(t, execLine(r, "access 9", &out), replacer.ErrInvalidFrame)

	require.NoError(t, execLine(r, "access 0", &out))
	require.ErrorIs(t, execLine(r, "remove 0", &out), replacer.ErrFrameNotEvictable)

	require.Error(t, execLine(r, "access", &out))
	require.Error(t, execLine(r, "access x", &out))
	require.Error(t, execLine(r, "flush", &out))

	require.ErrorIs(t, execLine(r, "quit", &out), io.EOF)
	require.NoError(t, execLine(r, "", &out))
}
