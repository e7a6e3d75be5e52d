// Package stateful holds the authoritative in-memory state for the castle and
// ruler catalogs.
//
// Two peer stores share the same lifecycle:
//
//   - CastleStore: castle records (id, name, region, yearBuilt, description)
//   - RulerStore: ruler records, each carrying an ordered set of castle IDs
//
// Both stores keep a "current" collection, which ordinary traffic mutates, and
// a "source" collection holding the last installed fixture. Set replaces both;
// Reset copies the source back over the current collection. Without a Set call
// both start from the built-in default dataset.
//
// Store primitives never fail for a missing record: lookups and mutations
// report absence with a boolean. Callers that need a record turn absence into a
// *NotFoundError at their own boundary.
//
// Every read returns a copy, so callers cannot reach store-owned slices.
//
// Usage:
//
//	castles := stateful.NewCastleStore()
//	rulers := stateful.NewRulerStore(stateful.WithObserver(obs))
//
//	c := castles.Create(stateful.CastleInput{Name: "Chillon", Region: "Vaud", YearBuilt: ptr(1150)})
//	r, ok := rulers.AddCastle("r1", c.ID)
//
//	rulers.Set(fixtureRulers) // installs a fixture
//	rulers.Reset()            // back to fixtureRulers
package stateful
