package stateful

import (
	"slices"
	"sync"
	"time"
)

// RulerStore owns the ruler collection. Castle IDs held by rulers are weak
// references: the store never checks them against a CastleStore.
type RulerStore struct {
	mu   sync.RWMutex
	data snapshot[Ruler]
	opts options
}

// NewRulerStore creates a store seeded with DefaultRulers.
func NewRulerStore(opts ...Option) *RulerStore {
	return &RulerStore{
		data: newSnapshot(DefaultRulers(), Ruler.Clone),
		opts: buildOptions(opts),
	}
}

// List returns a copy of the current collection in insertion order.
func (s *RulerStore) List() []Ruler {
	return s.filter(func(Ruler) bool { return true })
}

// Get returns the ruler with the given ID.
func (s *RulerStore) Get(id string) (Ruler, bool) {
	start := time.Now()
	s.mu.RLock()
	var (
		out   Ruler
		found bool
	)
	if i := s.indexOf(id); i >= 0 {
		out, found = s.data.current[i].Clone(), true
	}
	s.mu.RUnlock()

	s.opts.observer.OnRead(EntityRuler, id, found, time.Since(start))
	return out, found
}

// Create appends a new ruler with a fresh ID and returns it. Repeated castle
// IDs in the input are collapsed.
func (s *RulerStore) Create(in RulerInput) Ruler {
	start := time.Now()
	r := Ruler{
		ID:           s.opts.newID(),
		Name:         in.Name,
		Title:        in.Title,
		House:        in.House,
		CastleIDs:    uniqueStrings(in.CastleIDs),
		Achievements: cloneStrings(in.Achievements),
	}
	if in.ReignStart != nil {
		r.ReignStart = *in.ReignStart
	}
	if in.ReignEnd != nil {
		end := *in.ReignEnd
		r.ReignEnd = &end
	}
	if in.Description != nil {
		r.Description = *in.Description
	}

	s.mu.Lock()
	s.data.current = append(s.data.current, r)
	s.mu.Unlock()

	s.opts.observer.OnCreate(EntityRuler, r.ID, time.Since(start))
	return r.Clone()
}

// Update merges the non-nil fields of patch into the ruler with the given ID.
// CastleIDs are never changed here.
func (s *RulerStore) Update(id string, patch RulerPatch) (Ruler, bool) {
	return s.mutate(id, func(r *Ruler) {
		if patch.Name != nil {
			r.Name = *patch.Name
		}
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.ReignStart != nil {
			r.ReignStart = *patch.ReignStart
		}
		if patch.ReignEnd != nil {
			end := *patch.ReignEnd
			r.ReignEnd = &end
		}
		if patch.House != nil {
			r.House = *patch.House
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		if patch.Achievements != nil {
			r.Achievements = cloneStrings(*patch.Achievements)
		}
	})
}

// Delete removes the first ruler with the given ID and reports whether one
// was removed.
func (s *RulerStore) Delete(id string) bool {
	start := time.Now()
	s.mu.Lock()
	i := s.indexOf(id)
	if i >= 0 {
		s.data.current = slices.Delete(s.data.current, i, i+1)
	}
	s.mu.Unlock()

	s.opts.observer.OnDelete(EntityRuler, id, i >= 0, time.Since(start))
	return i >= 0
}

// ByCastle returns rulers associated with castleID, in store order.
func (s *RulerStore) ByCastle(castleID string) []Ruler {
	return s.filter(func(r Ruler) bool { return r.HasCastle(castleID) })
}

// ByHouse returns rulers whose house contains house, ignoring case.
func (s *RulerStore) ByHouse(house string) []Ruler {
	return s.filter(func(r Ruler) bool { return ContainsFold(r.House, house) })
}

// ByPeriod returns rulers whose reign overlaps [startYear, endYear], bounds
// inclusive. An open reign extends to the current year of the store clock.
func (s *RulerStore) ByPeriod(startYear, endYear int) []Ruler {
	now := s.opts.clock().Year()
	return s.filter(func(r Ruler) bool { return r.ReignsDuring(startYear, endYear, now) })
}

// AddCastle associates castleID with the ruler. Adding an existing
// association is a no-op.
func (s *RulerStore) AddCastle(rulerID, castleID string) (Ruler, bool) {
	return s.mutate(rulerID, func(r *Ruler) {
		if !r.HasCastle(castleID) {
			r.CastleIDs = append(r.CastleIDs, castleID)
		}
	})
}

// RemoveCastle drops the association between the ruler and castleID.
// Removing an absent association is a no-op.
func (s *RulerStore) RemoveCastle(rulerID, castleID string) (Ruler, bool) {
	return s.mutate(rulerID, func(r *Ruler) {
		r.CastleIDs = slices.DeleteFunc(r.CastleIDs, func(id string) bool { return id == castleID })
	})
}

// Set installs records as the fixture and as the current collection.
func (s *RulerStore) Set(records []Ruler) {
	start := time.Now()
	s.mu.Lock()
	s.data.set(records)
	n := len(s.data.current)
	s.mu.Unlock()

	s.opts.observer.OnSet(EntityRuler, n, time.Since(start))
}

// Reset restores the current collection to the last installed fixture.
func (s *RulerStore) Reset() {
	start := time.Now()
	s.mu.Lock()
	s.data.reset()
	n := len(s.data.current)
	s.mu.Unlock()

	s.opts.observer.OnReset(EntityRuler, n, time.Since(start))
}

// Len returns the number of rulers in the current collection.
func (s *RulerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.current)
}

func (s *RulerStore) filter(keep func(Ruler) bool) []Ruler {
	start := time.Now()
	s.mu.RLock()
	out := make([]Ruler, 0)
	for _, r := range s.data.current {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	s.mu.RUnlock()

	s.opts.observer.OnList(EntityRuler, len(out), time.Since(start))
	return out
}

// mutate applies fn to the stored ruler in place and returns a copy of the result.
func (s *RulerStore) mutate(id string, fn func(*Ruler)) (Ruler, bool) {
	start := time.Now()
	s.mu.Lock()
	var (
		out   Ruler
		found bool
	)
	if i := s.indexOf(id); i >= 0 {
		fn(&s.data.current[i])
		out, found = s.data.current[i].Clone(), true
	}
	s.mu.Unlock()

	s.opts.observer.OnUpdate(EntityRuler, id, found, time.Since(start))
	return out, found
}

// indexOf must be called with s.mu held.
func (s *RulerStore) indexOf(id string) int {
	return slices.IndexFunc(s.data.current, func(r Ruler) bool { return r.ID == id })
}
