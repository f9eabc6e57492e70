package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabuf/internal/bufferpool"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "novabuf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "novabuf", cfg.AppName)
	require.Equal(t, bufferpool.DefaultCapacity, cfg.BufferPool.Capacity)
	require.Equal(t, bufferpool.DefaultK, cfg.BufferPool.K)
	require.Equal(t, "lru-k", cfg.BufferPool.Policy)
	require.Equal(t, "info", cfg.Log.Level)

	opts := cfg.PoolOptions()
	require.Equal(t, bufferpool.PolicyLRUK, opts.Policy)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app_name: bench
buffer_pool:
  capacity: 16
  policy: clock
  k: 3
storage:
  workdir: /tmp/nb
  page_size: 4096
log:
  level: debug
`)
	t.Setenv("NOVABUF_BUFFER_POOL_K", "4")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "bench", cfg.AppName)
	require.Equal(t, 16, cfg.BufferPool.Capacity)
	require.Equal(t, "clock", cfg.BufferPool.Policy)
	require.Equal(t, 4, cfg.BufferPool.K)
	require.Equal(t, "/tmp/nb", cfg.Storage.Workdir)
	require.Equal(t, "pages.db", cfg.Storage.File)
	require.Equal(t, 4096, cfg.Storage.PageSize)

	lvl, err := ParseLogLevel(cfg.Log.Level)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"capacity":  "buffer_pool:\n  capacity: 0\n",
		"k":         "buffer_pool:\n  k: -1\n",
		"policy":    "buffer_pool:\n  policy: mru\n",
		"page size": "storage:\n  page_size: 1000\n",
		"log level": "log:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
