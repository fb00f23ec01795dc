// Package state holds the per-browser view snapshot: the last successfully
// fetched catalog, cart, orders and addresses. It replaces the original
// storefront's ambient scratch variables with one owned object per session,
// and its sequence guard ensures only the most recent navigation's fetch
// ever lands — a stale render's write is discarded, not merged.
package state

import (
	"sync"

	"shopfront/internal/domain"
)

type Snapshot struct {
	Products        []domain.Product
	Categories      []domain.Category
	CartItems       []domain.CartItem
	Orders          []domain.Order
	Addresses       []domain.Address
	SelectedProduct *domain.Product
	SelectedOrder   *domain.Order
}

type entry struct {
	seq  uint64
	snap Snapshot
}

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Begin issues the sequence number for a new page load. Any load holding an
// older number loses its write.
func (s *Store) Begin(sid string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(sid)
	e.seq++
	return e.seq
}

// Commit applies fn to the snapshot only while seq is still current. The
// return value reports whether the write landed.
func (s *Store) Commit(sid string, seq uint64, fn func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(sid)
	if seq != e.seq {
		return false
	}
	fn(&e.snap)
	return true
}

// Peek returns a copy of the current snapshot. Slices are shared read-only;
// callers must not mutate them.
func (s *Store) Peek(sid string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(sid).snap
}

// Drop forgets a browser's snapshot, e.g. on logout.
func (s *Store) Drop(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
}

func (s *Store) ensure(sid string) *entry {
	e, ok := s.entries[sid]
	if !ok {
		e = &entry{}
		s.entries[sid] = e
	}
	return e
}
