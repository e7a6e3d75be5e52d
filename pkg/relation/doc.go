// Package relation joins castles with the rulers that reference them.
//
// The castle and ruler collections are owned by independent stores, possibly
// in different services. Service composes them through two small interfaces:
// CastleSource for castles and RulerLookup for the rulers of one castle.
//
// Joined reads favour the castle over the join: when the ruler lookup for a
// castle fails, the failure is logged as a *RelationWarning and the castle is
// returned with an empty ruler list.
package relation
