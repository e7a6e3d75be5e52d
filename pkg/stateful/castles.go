package stateful

import (
	"slices"
	"sync"
	"time"
)

// CastleStore owns the castle collection.
type CastleStore struct {
	mu   sync.RWMutex
	data snapshot[Castle]
	opts options
}

// NewCastleStore creates a store seeded with DefaultCastles.
func NewCastleStore(opts ...Option) *CastleStore {
	return &CastleStore{
		data: newSnapshot(DefaultCastles(), Castle.Clone),
		opts: buildOptions(opts),
	}
}

// List returns a copy of the current collection in insertion order.
func (s *CastleStore) List() []Castle {
	start := time.Now()
	s.mu.RLock()
	out := s.data.list()
	s.mu.RUnlock()

	s.opts.observer.OnList(EntityCastle, len(out), time.Since(start))
	return out
}

// Get returns the castle with the given ID.
func (s *CastleStore) Get(id string) (Castle, bool) {
	start := time.Now()
	s.mu.RLock()
	var (
		out   Castle
		found bool
	)
	if i := s.indexOf(id); i >= 0 {
		out, found = s.data.current[i].Clone(), true
	}
	s.mu.RUnlock()

	s.opts.observer.OnRead(EntityCastle, id, found, time.Since(start))
	return out, found
}

// Create appends a new castle with a fresh ID and returns it.
// Name and region are not required to be unique.
func (s *CastleStore) Create(in CastleInput) Castle {
	start := time.Now()
	c := Castle{
		ID:          s.opts.newID(),
		Name:        in.Name,
		Region:      in.Region,
		Description: DefaultCastleDescription,
	}
	if in.YearBuilt != nil {
		c.YearBuilt = *in.YearBuilt
	}
	if in.Description != nil {
		c.Description = *in.Description
	}

	s.mu.Lock()
	s.data.current = append(s.data.current, c)
	s.mu.Unlock()

	s.opts.observer.OnCreate(EntityCastle, c.ID, time.Since(start))
	return c.Clone()
}

// Delete removes the first castle with the given ID and reports whether one
// was removed. Rulers referencing the castle are left untouched.
func (s *CastleStore) Delete(id string) bool {
	start := time.Now()
	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.data.current = slices.Delete(s.data.current, i, i+1)
	}
	s.mu.Unlock()

	s.opts.observer.OnDelete(EntityCastle, id, i >= 0, time.Since(start))
	return i >= 0
}

// Set installs records as the fixture and as the current collection.
func (s *CastleStore) Set(records []Castle) {
	start := time.Now()
	s.mu.Lock()
	s.data.set(records)
	n := len(s.data.current)
	s.mu.Unlock()

	s.opts.observer.OnSet(EntityCastle, n, time.Since(start))
}

// Reset restores the current collection to the last installed fixture.
func (s *CastleStore) Reset() {
	start := time.Now()
	s.mu.Lock()
	s.data.reset()
	n := len(s.data.current)
	s.mu.Unlock()

	s.opts.observer.OnReset(EntityCastle, n, time.Since(start))
}

// Len returns the number of castles in the current collection.
func (s *CastleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.current)
}

// indexOf must be called with s.mu held.
func (s *CastleStore) indexOf(id string) int {
	return slices.IndexFunc(s.data.current, func(c Castle) bool { return c.ID == id })
}
