// Package trace parses and replays page access traces against a buffer pool.
//
// One operation per line, blank lines and '#' comments ignored:
//
//	get <page>            pin the page
//	unpin <page> [dirty]  drop one pin
//	flush <page>          write the page back if dirty
//	delete <page>         drop the page from the pool
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Kind uint8

const (
	Get Kind = iota + 1
	Unpin
	Flush
	Delete
)

func (k Kind) String() string {
	switch k {
	case Get:
		return "get"
	case Unpin:
		return "unpin"
	case Flush:
		return "flush"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

var ErrSyntax = errors.New("trace: syntax error")

type Op struct {
	Kind   Kind
	PageID uint32
	Dirty  bool
	Line   int
}

func (o Op) String() string {
	if o.Kind == Unpin && o.Dirty {
		return fmt.Sprintf("unpin %d dirty", o.PageID)
	}
	return fmt.Sprintf("%s %d", o.Kind, o.PageID)
}

func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := sc.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return ops, nil
}

func parseOp(fields []string) (Op, error) {
	var op Op
	switch strings.ToLower(fields[0]) {
	case "get":
		op.Kind = Get
	case "unpin":
		op.Kind = Unpin
	case "flush":
		op.Kind = Flush
	case "delete":
		op.Kind = Delete
	default:
		return op, fmt.Errorf("%w: unknown op %q", ErrSyntax, fields[0])
	}

	maxFields := 2
	if op.Kind == Unpin {
		maxFields = 3
	}
	if len(fields) < 2 || len(fields) > maxFields {
		return op, fmt.Errorf("%w: bad argument count for %s", ErrSyntax, op.Kind)
	}

	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return op, fmt.Errorf("%w: bad page id %q", ErrSyntax, fields[1])
	}
	op.PageID = uint32(id)

	if len(fields) == 3 {
		if fields[2] != "dirty" {
			return op, fmt.Errorf("%w: expected 'dirty', got %q", ErrSyntax, fields[2])
		}
		op.Dirty = true
	}
	return op, nil
}
