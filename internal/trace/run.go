package trace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

// Pool is the part of the buffer pool a trace drives.
type Pool interface {
	GetPage(pageID uint32) (*storage.Page, error)
	Unpin(page *storage.Page, dirty bool) error
	FlushPage(pageID uint32) error
	DeletePage(pageID uint32) error
}

var _ Pool = (*bufferpool.Pool)(nil)

type Result struct {
	Ops      int
	Gets     int
	NoFrame  int // gets refused because every frame was pinned
	Rejected int // deletes of pinned pages
}

// Run replays ops in order. Unpin of a page the trace never got is an
// error; a get with no free frame or a delete of a pinned page is counted.
// ctx is checked between ops.
func Run(ctx context.Context, pool Pool, ops []Op) (Result, error) {
	var res Result
	pinned := make(map[uint32][]*storage.Page)

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Ops++

		switch op.Kind {
		case Get:
			res.Gets++
			page, err := pool.GetPage(op.PageID)
			if errors.Is(err, bufferpool.ErrNoFreeFrame) {
				res.NoFrame++
				slog.Debug("trace: no free frame", "line", op.Line, "page", op.PageID)
				continue
			}
			if err != nil {
				return res, opError(op, err)
			}
			pinned[op.PageID] = append(pinned[op.PageID], page)

		case Unpin:
			pages := pinned[op.PageID]
			if len(pages) == 0 {
				return res, opError(op, bufferpool.ErrPageNotPinned)
			}
			page := pages[len(pages)-1]
			pinned[op.PageID] = pages[:len(pages)-1]
			if op.Dirty {
				page.Data()[0]++
			}
			if err := pool.Unpin(page, op.Dirty); err != nil {
				return res, opError(op, err)
			}

		case Flush:
			if err := pool.FlushPage(op.PageID); err != nil {
				return res, opError(op, err)
			}

		case Delete:
			err := pool.DeletePage(op.PageID)
			if errors.Is(err, bufferpool.ErrPagePinned) {
				res.Rejected++
				continue
			}
			if err != nil {
				return res, opError(op, err)
			}
		}
	}
	return res, nil
}

func opError(op Op, err error) error {
	return fmt.Errorf("trace: line %d (%s): %w", op.Line, op, err)
}
