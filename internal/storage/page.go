package storage

import (
	"encoding/binary"
	"errors"
)

const (
	OneKB = 1 << 10

	DefaultPageSize = OneKB * 8
	MinPageSize     = 512

	// first bytes of every page hold its id
	offPageID = 0
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrWrongSize = errors.New("storage: buffer size != page size")
	ErrClosed    = errors.New("storage: store is closed")
)

// Page is one page worth of bytes held by a buffer pool frame.
// The pool does not interpret the content beyond the id header.
type Page struct {
	Buf []byte
}

func NewPage(buf []byte, pageID uint32) (*Page, error) {
	if len(buf) < MinPageSize {
		return nil, ErrWrongSize
	}
	p := &Page{Buf: buf}
	p.setPageID(pageID)
	return p, nil
}

func (p *Page) PageID() uint32 {
	return binary.LittleEndian.Uint32(p.Buf[offPageID:])
}

func (p *Page) setPageID(v uint32) {
	binary.LittleEndian.PutUint32(p.Buf[offPageID:], v)
}

// IsUninitialized reports whether the page was never written (all zero).
func (p *Page) IsUninitialized() bool {
	for _, b := range p.Buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// Data returns the payload after the header.
func (p *Page) Data() []byte {
	return p.Buf[offPageID+4:]
}

// PageStore loads and saves pages by id.
type PageStore interface {
	LoadPage(pageID uint32) (*Page, error)
	SavePage(p *Page) error
	PageSize() int
}
