// Package id generates record identifiers for the castle and ruler stores.
//
// Two formats are available:
//
//   - UUID: random UUID v4, backed by github.com/google/uuid
//   - ULID: 26-character identifiers with a millisecond timestamp prefix and a
//     random suffix, so IDs created later sort after IDs created earlier
//
// Identifiers only need to be unique within one process lifetime.
package id
