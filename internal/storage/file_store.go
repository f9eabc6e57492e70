package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var _ PageStore = (*FileStore)(nil)

// FileStore keeps every page of one relation in a single file,
// page n at offset n*pageSize.
type FileStore struct {
	mu       sync.Mutex
	f        *os.File
	pageSize int
}

func OpenFileStore(dir, name string, pageSize int) (*FileStore, error) {
	if pageSize < MinPageSize || pageSize%MinPageSize != 0 {
		return nil, fmt.Errorf("storage: invalid page size %d", pageSize)
	}
	if err := os.MkdirAll(dir, FileMode0755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	// RDWR | CREATE (no truncate)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return &FileStore{f: f, pageSize: pageSize}, nil
}

func (s *FileStore) PageSize() int { return s.pageSize }

// LoadPage reads one page. Bytes past EOF read as zero, so a page that was
// never written comes back initialized with just its id.
func (s *FileStore) LoadPage(pageID uint32) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil, ErrClosed
	}

	buf := make([]byte, s.pageSize)
	n, err := s.f.ReadAt(buf, int64(pageID)*int64(s.pageSize))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("storage: read page %d: %w", pageID, err)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}

	p := &Page{Buf: buf}
	if p.IsUninitialized() {
		p.setPageID(pageID)
	}
	return p, nil
}

func (s *FileStore) SavePage(p *Page) error {
	if len(p.Buf) != s.pageSize {
		return ErrWrongSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return ErrClosed
	}

	n, err := s.f.WriteAt(p.Buf, int64(p.PageID())*int64(s.pageSize))
	if err != nil {
		return fmt.Errorf("storage: write page %d: %w", p.PageID(), err)
	}
	if n != s.pageSize {
		return io.ErrShortWrite
	}
	return nil
}

// NumPages returns how many whole pages the file holds.
func (s *FileStore) NumPages() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return 0, ErrClosed
	}
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return uint32(info.Size() / int64(s.pageSize)), nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
