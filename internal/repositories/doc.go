// Package repositories provides the persistence layer for the local
// collection cache.
//
// Each repository implements models.Repository[T] for a specific entity type
// over the SQLite cache database, handling CRUD operations, upserts keyed on
// the remote identifiers, and sequence generation.
//
// Rows are keyed by internally generated UUIDs; the YouTube identifiers
// (playlist_id, item_id) carry unique indexes so repeated collection passes
// update rather than duplicate.
package repositories
