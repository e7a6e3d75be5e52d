package stateful

import (
	"time"

	"github.com/getmockd/castlepact/internal/id"
)

// Fixture is the reset protocol shared by CastleStore and RulerStore.
type Fixture[T any] interface {
	// Set replaces both the current and the source collection with records.
	Set(records []T)
	// Reset replaces the current collection with a copy of the source.
	Reset()
	// Len returns the size of the current collection.
	Len() int
}

var (
	_ Fixture[Castle] = (*CastleStore)(nil)
	_ Fixture[Ruler]  = (*RulerStore)(nil)
)

// snapshot holds the current and source collections of one store.
// It is not safe for concurrent use; the owning store serialises access.
type snapshot[T any] struct {
	current []T
	source  []T
	clone   func(T) T
}

func newSnapshot[T any](records []T, clone func(T) T) snapshot[T] {
	s := snapshot[T]{clone: clone}
	s.set(records)
	return s
}

// set installs records as both source and current. The two collections get
// independent copies so later mutations of current never leak into source.
func (s *snapshot[T]) set(records []T) {
	s.source = s.copyOf(records)
	s.current = s.copyOf(records)
}

func (s *snapshot[T]) reset() {
	s.current = s.copyOf(s.source)
}

func (s *snapshot[T]) list() []T {
	return s.copyOf(s.current)
}

func (s *snapshot[T]) copyOf(records []T) []T {
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = s.clone(r)
	}
	return out
}

// Option configures a store.
type Option func(*options)

type options struct {
	observer Observer
	clock    func() time.Time
	newID    id.Generator
}

func defaultOptions() options {
	return options{
		observer: &NoopObserver{},
		clock:    time.Now,
		newID:    id.ULID,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithObserver installs hooks called after every store operation.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock sets the clock used to resolve open reigns. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator sets the generator for created record IDs. Defaults to id.ULID.
func WithIDGenerator(gen id.Generator) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}
