package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/novabuf/internal/bufferpool"
)

const prompt = "replacer> "

const helpText = `commands:
  access N          record an access to frame N
  pin N             mark frame N non-evictable
  unpin N           mark frame N evictable
  evict             pick and drop a victim
  remove N          drop frame N (must be evictable)
  size              number of evictable frames
  \help             show help
  \q | quit | exit  quit`

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".novabuf_history"
	}
	return filepath.Join(home, ".novabuf_history")
}

// execLine runs one command line against r and writes its output to w.
// It returns io.EOF for quit.
func execLine(r bufferpool.Replacer, line string, w io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	frameArg := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf("usage: %s N", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("bad frame id %q", fields[1])
		}
		return n, nil
	}

	switch fields[0] {
	case "\\q", "quit", "exit":
		return io.EOF
	case "\\help", "help":
		fmt.Fprintln(w, helpText)
	case "size":
		fmt.Fprintln(w, r.Size())
	case "evict":
		id, ok := r.Evict()
		if !ok {
			fmt.Fprintln(w, "no victim")
			return nil
		}
		fmt.Fprintf(w, "evicted %d\n", id)
	case "access", "pin", "unpin", "remove":
		id, err := frameArg()
		if err != nil {
			return err
		}
		switch fields[0] {
		case "access":
			err = r.RecordAccess(id)
		case "pin":
			err = r.SetEvictable(id, false)
		case "unpin":
			err = r.SetEvictable(id, true)
		case "remove":
			err = r.Remove(id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ok")
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
	return nil
}

func main() {
	var (
		policy   = flag.String("policy", string(bufferpool.PolicyLRUK), "replacement policy: lru-k, clock, lru")
		capacity = flag.Int("capacity", 8, "number of frames")
		k        = flag.Int("k", bufferpool.DefaultK, "LRU-K parameter")
		histPath = flag.String("history", defaultHistoryPath(), "history file path")
	)
	flag.Parse()

	p, err := bufferpool.ParsePolicy(*policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	r, err := bufferpool.NewReplacer(p, *capacity, *k)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("%s replacer, %d frames (k=%d)\n", p, *capacity, *k)
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		if err := execLine(r, strings.TrimSpace(line), rl.Stdout()); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}
