package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannm99/novabuf/internal"
	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
	"github.com/tuannm99/novabuf/internal/trace"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		tracePath  = flag.String("trace", "", "access trace to replay (default: stdin)")
		policy     = flag.String("policy", "", "replacement policy: lru-k, clock, lru (overrides config)")
		k          = flag.Int("k", 0, "LRU-K parameter (overrides config)")
		capacity   = flag.Int("capacity", 0, "number of frames (overrides config)")
		dataDir    = flag.String("data-dir", "", "directory for the page file (overrides config)")
		mem        = flag.Bool("mem", false, "keep pages in memory instead of on disk")
	)
	flag.Parse()

	if err := run(*configPath, *tracePath, *policy, *k, *capacity, *dataDir, *mem); err != nil {
		fmt.Fprintf(os.Stderr, "bufsim: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, tracePath, policy string, k, capacity int, dataDir string, mem bool) error {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if policy != "" {
		cfg.BufferPool.Policy = policy
	}
	if k > 0 {
		cfg.BufferPool.K = k
	}
	if capacity > 0 {
		cfg.BufferPool.Capacity = capacity
	}
	if dataDir != "" {
		cfg.Storage.Workdir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, _ := internal.ParseLogLevel(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))

	in := os.Stdin
	if tracePath != "" {
		f, err := os.Open(tracePath)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	ops, err := trace.Parse(in)
	if err != nil {
		return err
	}

	var store storage.PageStore
	if mem {
		store = storage.NewMemStore(cfg.Storage.PageSize)
	} else {
		fs, err := storage.OpenFileStore(cfg.Storage.Workdir, cfg.Storage.File, cfg.Storage.PageSize)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()
		store = fs
	}

	pool, err := bufferpool.NewPool(store, cfg.PoolOptions())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("bufsim: replay start",
		"ops", len(ops),
		"policy", pool.Policy(),
		"capacity", pool.Capacity(),
		"k", cfg.BufferPool.K,
	)

	res, runErr := trace.Run(ctx, pool, ops)
	if err := pool.FlushAll(); err != nil && runErr == nil {
		runErr = err
	}

	st := pool.Stats()
	hitRatio := 0.0
	if total := st.Hits + st.Misses; total > 0 {
		hitRatio = 100 * float64(st.Hits) / float64(total)
	}
	fmt.Printf("policy=%s capacity=%d k=%d\n", pool.Policy(), pool.Capacity(), cfg.BufferPool.K)
	fmt.Printf("ops=%d gets=%d hits=%d misses=%d hit%%=%.2f\n", res.Ops, res.Gets, st.Hits, st.Misses, hitRatio)
	fmt.Printf("evictions=%d flushes=%d no_frame=%d rejected_deletes=%d\n",
		st.Evictions, st.Flushes, res.NoFrame, res.Rejected)

	return runErr
}
