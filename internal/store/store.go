// Package store provides the document store the record services persist
// through. A store is plain keyed storage with a predicate scan — it knows
// nothing about the entities it holds beyond their id and JSON shape.
//
// Two implementations exist: Memory (tests, development) and Postgres
// (JSONB documents, one table per collection). Both are safe for concurrent
// use; every write is atomic on a single document and concurrent writes to
// the same id resolve last-write-wins.
package store

import "context"

// Store is keyed document storage for values of type T.
type Store[T any] interface {
	// Put inserts or replaces the document under id.
	Put(ctx context.Context, id string, doc T) error

	// Get returns the document under id. The bool reports existence;
	// a missing id is not an error.
	Get(ctx context.Context, id string) (T, bool, error)

	// Delete removes the document under id. Deleting a missing id is a
	// no-op, not an error.
	Delete(ctx context.Context, id string) error

	// Scan returns every document matching pred, in no particular order.
	// A nil pred matches everything. Documents written mid-scan may or
	// may not appear in the result.
	Scan(ctx context.Context, pred func(T) bool) ([]T, error)
}
