package fixture

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// DefaultSelect picks the whole interaction body.
const DefaultSelect = "$"

// Records is the flattened content of a fixture document, ready for the stores.
type Records struct {
	Castles []stateful.Castle
	Rulers  []stateful.Ruler
}

// Records merges the literal castle and ruler lists with the records extracted
// from interactions. A record whose id was already seen replaces the earlier
// one in place.
func (d *Document) Records() (Records, error) {
	castles := newMerger[stateful.Castle](func(c stateful.Castle) string { return c.ID })
	rulers := newMerger[stateful.Ruler](func(r stateful.Ruler) string { return r.ID })

	for _, c := range d.Castles {
		castles.add(normalizeCastle(c))
	}
	for _, r := range d.Rulers {
		rulers.add(normalizeRuler(r))
	}

	for i, in := range d.Interactions {
		found, err := extract(in)
		if err != nil {
			return Records{}, fmt.Errorf("interaction %d (%s): %w", i, describe(in), err)
		}
		for _, rec := range found {
			switch in.Entity {
			case stateful.EntityCastle:
				var c stateful.Castle
				if err := remarshal(rec, &c); err != nil {
					return Records{}, fmt.Errorf("interaction %d (%s): %w: %v", i, describe(in), ErrInvalidRecord, err)
				}
				castles.add(normalizeCastle(c))
			case stateful.EntityRuler:
				var r stateful.Ruler
				if err := remarshal(rec, &r); err != nil {
					return Records{}, fmt.Errorf("interaction %d (%s): %w: %v", i, describe(in), ErrInvalidRecord, err)
				}
				rulers.add(normalizeRuler(r))
			}
		}
	}

	return Records{Castles: castles.items, Rulers: rulers.items}, nil
}

// extract evaluates the interaction's select expression against its body and
// validates every record it yields.
func extract(in Interaction) ([]any, error) {
	sel := in.Select
	if sel == "" {
		sel = DefaultSelect
	}
	x, err := jp.ParseString(sel)
	if err != nil {
		return nil, fmt.Errorf("invalid select %q: %w", sel, err)
	}

	body, err := toJSONValue(in.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	s, err := loadSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}
	schema, ok := s.records[in.Entity]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity %q", ErrInvalidRecord, in.Entity)
	}

	var out []any
	for _, match := range x.Get(body) {
		switch v := match.(type) {
		case []any:
			out = append(out, v...)
		case map[string]any:
			out = append(out, v)
		default:
			return nil, fmt.Errorf("%w: select %q matched %T, want object or array", ErrInvalidRecord, sel, match)
		}
	}

	for _, rec := range out {
		if err := schema.Validate(rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	return out, nil
}

func describe(in Interaction) string {
	if in.Description != "" {
		return in.Description
	}
	return in.Entity
}

// normalizeCastle gives a castle without a description the placeholder a
// created castle would get.
func normalizeCastle(c stateful.Castle) stateful.Castle {
	if c.Description == "" {
		c.Description = stateful.DefaultCastleDescription
	}
	return c
}

// normalizeRuler drops repeated castle ids and replaces nil lists with empty
// ones.
func normalizeRuler(r stateful.Ruler) stateful.Ruler {
	ids := make([]string, 0, len(r.CastleIDs))
	seen := make(map[string]bool, len(r.CastleIDs))
	for _, id := range r.CastleIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	r.CastleIDs = ids
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
	return r
}

type merger[T any] struct {
	key   func(T) string
	index map[string]int
	items []T
}

func newMerger[T any](key func(T) string) *merger[T] {
	return &merger[T]{key: key, index: make(map[string]int), items: make([]T, 0)}
}

func (m *merger[T]) add(v T) {
	k := m.key(v)
	if i, ok := m.index[k]; ok {
		m.items[i] = v
		return
	}
	m.index[k] = len(m.items)
	m.items = append(m.items, v)
}
