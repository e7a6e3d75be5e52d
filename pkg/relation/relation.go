package relation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/getmockd/castlepact/pkg/logging"
	"github.com/getmockd/castlepact/pkg/stateful"
)

// CastleSource provides castle records. *stateful.CastleStore implements it.
type CastleSource interface {
	List() []stateful.Castle
	Get(id string) (stateful.Castle, bool)
}

// RulerLookup finds the rulers associated with one castle.
type RulerLookup interface {
	RulersByCastle(ctx context.Context, castleID string) ([]stateful.Ruler, error)
}

// CastleWithRulers is a castle record with its rulers joined in.
type CastleWithRulers struct {
	stateful.Castle
	Rulers []stateful.Ruler `json:"rulers"`
}

// RelationWarning reports a ruler lookup that failed during a join.
// It is logged and absorbed, never returned to callers of Service.
type RelationWarning struct {
	CastleID string
	Err      error
}

func (w *RelationWarning) Error() string {
	return fmt.Sprintf("rulers for castle %q unavailable: %v", w.CastleID, w.Err)
}

func (w *RelationWarning) Unwrap() error {
	return w.Err
}

// Service answers relational and filtered castle queries.
type Service struct {
	castles CastleSource
	rulers  RulerLookup
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for relation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service over the given castle source and ruler lookup.
func NewService(castles CastleSource, rulers RulerLookup, opts ...Option) *Service {
	s := &Service{
		castles: castles,
		rulers:  rulers,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CastleWithRulers returns the castle with its rulers. A missing castle is a
// *stateful.NotFoundError; a failed ruler lookup yields an empty ruler list.
func (s *Service) CastleWithRulers(ctx context.Context, castleID string) (CastleWithRulers, error) {
	castle, ok := s.castles.Get(castleID)
	if !ok {
		return CastleWithRulers{}, &stateful.NotFoundError{Entity: stateful.EntityCastle, ID: castleID}
	}
	return CastleWithRulers{Castle: castle, Rulers: s.rulersFor(ctx, castleID)}, nil
}

// AllCastlesWithRulers joins every castle with its rulers. It never fails and
// never omits a castle: failed lookups produce empty ruler lists.
func (s *Service) AllCastlesWithRulers(ctx context.Context) []CastleWithRulers {
	castles := s.castles.List()
	out := make([]CastleWithRulers, len(castles))
	for i, c := range castles {
		out[i] = CastleWithRulers{Castle: c, Rulers: s.rulersFor(ctx, c.ID)}
	}
	return out
}

// CastlesByRegion returns castles whose region contains region, ignoring case.
func (s *Service) CastlesByRegion(region string) []stateful.Castle {
	out := make([]stateful.Castle, 0)
	for _, c := range s.castles.List() {
		if stateful.ContainsFold(c.Region, region) {
			out = append(out, c)
		}
	}
	return out
}

// OldestCastles returns up to limit castles ordered by yearBuilt ascending.
// Castles built in the same year keep their store order.
func (s *Service) OldestCastles(limit int) []stateful.Castle {
	if limit <= 0 {
		return []stateful.Castle{}
	}
	castles := s.castles.List()
	slices.SortStableFunc(castles, func(a, b stateful.Castle) int {
		return a.YearBuilt - b.YearBuilt
	})
	if len(castles) > limit {
		castles = castles[:limit]
	}
	return castles
}

// rulersFor runs the ruler lookup for one castle, absorbing any failure.
func (s *Service) rulersFor(ctx context.Context, castleID string) (rulers []stateful.Ruler) {
	defer func() {
		if r := recover(); r != nil {
			s.warn(ctx, &RelationWarning{CastleID: castleID, Err: fmt.Errorf("panic: %v", r)})
			rulers = []stateful.Ruler{}
		}
	}()

	found, err := s.rulers.RulersByCastle(ctx, castleID)
	if err != nil {
		s.warn(ctx, &RelationWarning{CastleID: castleID, Err: err})
		return []stateful.Ruler{}
	}
	if found == nil {
		return []stateful.Ruler{}
	}
	return found
}

func (s *Service) warn(ctx context.Context, w *RelationWarning) {
	s.logger.WarnContext(ctx, "relation: ruler lookup failed",
		"castle_id", w.CastleID, "error", w.Err)
}

// LocalRulers looks rulers up in an in-process store.
type LocalRulers struct {
	Store *stateful.RulerStore
}

// RulersByCastle implements RulerLookup.
func (l LocalRulers) RulersByCastle(_ context.Context, castleID string) ([]stateful.Ruler, error) {
	return l.Store.ByCastle(castleID), nil
}
