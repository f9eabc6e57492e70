package storage

import "sync"

var _ PageStore = (*MemStore)(nil)

// MemStore keeps pages in memory. Saved pages are copied.
type MemStore struct {
	mu       sync.Mutex
	pages    map[uint32][]byte
	pageSize int

	Loads  int
	Saves  int
	FailOn func(op string, pageID uint32) error // test hook
}

func NewMemStore(pageSize int) *MemStore {
	if pageSize < MinPageSize {
		pageSize = DefaultPageSize
	}
	return &MemStore{pages: make(map[uint32][]byte), pageSize: pageSize}
}

func (s *MemStore) PageSize() int { return s.pageSize }

func (s *MemStore) LoadPage(pageID uint32) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailOn != nil {
		if err := s.FailOn("load", pageID); err != nil {
			return nil, err
		}
	}
	s.Loads++

	buf := make([]byte, s.pageSize)
	if stored, ok := s.pages[pageID]; ok {
		copy(buf, stored)
		return &Page{Buf: buf}, nil
	}
	return NewPage(buf, pageID)
}

func (s *MemStore) SavePage(p *Page) error {
	if len(p.Buf) != s.pageSize {
		return ErrWrongSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailOn != nil {
		if err := s.FailOn("save", p.PageID()); err != nil {
			return err
		}
	}
	s.Saves++

	stored := make([]byte, len(p.Buf))
	copy(stored, p.Buf)
	s.pages[p.PageID()] = stored
	return nil
}

// Stored returns a copy of a saved page, or nil.
func (s *MemStore) Stored(pageID uint32) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.pages[pageID]
	if !ok {
		return nil
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out
}
