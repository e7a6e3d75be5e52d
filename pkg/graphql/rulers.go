package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/getmockd/castlepact/pkg/stateful"
	"github.com/getmockd/castlepact/pkg/validation"
)

// RulerSchema is the SDL of the ruler catalog.
const RulerSchema = `
"A monarch and the castles associated with their reign."
type Ruler {
  id: ID!
  name: String!
  title: String!
  reignStart: Int!
  "Absent while the ruler still reigns."
  reignEnd: Int
  house: String!
  castleIds: [ID!]!
  description: String!
  achievements: [String!]!
}

input CreateRulerInput {
  name: String!
  title: String!
  reignStart: Int!
  reignEnd: Int
  house: String!
  castleIds: [ID!]
  description: String
  achievements: [String!]
}

input UpdateRulerInput {
  name: String
  title: String
  reignStart: Int
  reignEnd: Int
  house: String
  description: String
  achievements: [String!]
}

type Query {
  listRulers: [Ruler!]!
  getRuler(id: ID!): Ruler
  getRulersByCastle(castleId: ID!): [Ruler!]!
  "Case-insensitive substring match on house."
  getRulersByHouse(house: String!): [Ruler!]!
  "Rulers whose reign overlaps [startYear, endYear], both inclusive."
  getRulersByPeriod(startYear: Int!, endYear: Int!): [Ruler!]!
}

type Mutation {
  createRuler(input: CreateRulerInput!): Ruler!
  updateRuler(id: ID!, input: UpdateRulerInput!): Ruler
  deleteRuler(id: ID!): Boolean!
  addCastleToRuler(rulerId: ID!, castleId: ID!): Ruler
  removeCastleFromRuler(rulerId: ID!, castleId: ID!): Ruler
}
`

// NewRulerExecutor parses RulerSchema and wires every root field to store.
func NewRulerExecutor(store *stateful.RulerStore, config *GraphQLConfig) (*Executor, error) {
	schema, err := ParseSchema(RulerSchema)
	if err != nil {
		return nil, err
	}

	e := NewExecutor(schema, config)
	r := &rulerResolvers{store: store}
	for path, fn := range map[string]ResolverFunc{
		"Query.listRulers":               r.listRulers,
		"Query.getRuler":                 r.getRuler,
		"Query.getRulersByCastle":        r.getRulersByCastle,
		"Query.getRulersByHouse":         r.getRulersByHouse,
		"Query.getRulersByPeriod":        r.getRulersByPeriod,
		"Mutation.createRuler":           r.createRuler,
		"Mutation.updateRuler":           r.updateRuler,
		"Mutation.deleteRuler":           r.deleteRuler,
		"Mutation.addCastleToRuler":      r.addCastleToRuler,
		"Mutation.removeCastleFromRuler": r.removeCastleFromRuler,
	} {
		if err := e.Resolve(path, fn); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// NewRulerEndpoint builds the executor and HTTP handler for the ruler catalog.
func NewRulerEndpoint(store *stateful.RulerStore, config *GraphQLConfig, opts ...HandlerOption) (*Handler, error) {
	e, err := NewRulerExecutor(store, config)
	if err != nil {
		return nil, err
	}
	return NewHandler(e, config, opts...), nil
}

type rulerResolvers struct {
	store *stateful.RulerStore
}

func (r *rulerResolvers) listRulers(_ context.Context, _ map[string]any) (any, error) {
	return r.store.List(), nil
}

func (r *rulerResolvers) getRuler(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "id")
	ruler, ok := r.store.Get(id)
	if !ok {
		return nil, rulerNotFound(id)
	}
	return ruler, nil
}

func (r *rulerResolvers) getRulersByCastle(_ context.Context, args map[string]any) (any, error) {
	return r.store.ByCastle(stringArg(args, "castleId")), nil
}

func (r *rulerResolvers) getRulersByHouse(_ context.Context, args map[string]any) (any, error) {
	return r.store.ByHouse(stringArg(args, "house")), nil
}

func (r *rulerResolvers) getRulersByPeriod(_ context.Context, args map[string]any) (any, error) {
	start, err := intArg(args, "startYear")
	if err != nil {
		return nil, err
	}
	end, err := intArg(args, "endYear")
	if err != nil {
		return nil, err
	}
	return r.store.ByPeriod(start, end), nil
}

func (r *rulerResolvers) createRuler(_ context.Context, args map[string]any) (any, error) {
	var in stateful.RulerInput
	if err := decodeArg(args, "input", &in); err != nil {
		return nil, err
	}
	if err := validation.ValidateRulerInput(in); err != nil {
		return nil, err
	}
	return r.store.Create(in), nil
}

func (r *rulerResolvers) updateRuler(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "id")
	var patch stateful.RulerPatch
	if err := decodeArg(args, "input", &patch); err != nil {
		return nil, err
	}
	if err := validation.ValidateRulerPatch(patch); err != nil {
		return nil, err
	}
	ruler, ok := r.store.Update(id, patch)
	if !ok {
		return nil, rulerNotFound(id)
	}
	return ruler, nil
}

func (r *rulerResolvers) deleteRuler(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "id")
	if !r.store.Delete(id) {
		return nil, rulerNotFound(id)
	}
	return true, nil
}

func (r *rulerResolvers) addCastleToRuler(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "rulerId")
	ruler, ok := r.store.AddCastle(id, stringArg(args, "castleId"))
	if !ok {
		return nil, rulerNotFound(id)
	}
	return ruler, nil
}

func (r *rulerResolvers) removeCastleFromRuler(_ context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "rulerId")
	ruler, ok := r.store.RemoveCastle(id, stringArg(args, "castleId"))
	if !ok {
		return nil, rulerNotFound(id)
	}
	return ruler, nil
}

func rulerNotFound(id string) error {
	return &stateful.NotFoundError{Entity: stateful.EntityRuler, ID: id}
}

func stringArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// intArg reads an Int argument. Literals arrive as int64; variables keep the
// numeric type the JSON decoder gave them.
func intArg(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, &stateful.ValidationError{Field: name, Message: "must be an integer"}
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &stateful.ValidationError{Field: name, Message: "must be an integer"}
		}
		return int(n), nil
	default:
		return 0, &stateful.ValidationError{Field: name, Message: "is required"}
	}
}

// decodeArg converts an input object argument into dst through its JSON form.
func decodeArg(args map[string]any, name string, dst any) error {
	data, err := json.Marshal(args[name])
	if err != nil {
		return &stateful.ValidationError{Field: name, Message: err.Error()}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &stateful.ValidationError{Field: name, Message: err.Error()}
	}
	return nil
}
