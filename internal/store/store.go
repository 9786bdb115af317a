// Package store defines the persistence backend interface behind the cache
// client.
package store

import (
	"context"
	"errors"

	"github.com/discochess/stockroom/internal/tablemap"
)

// ErrNotOpen is returned when an operation is issued before Open has
// completed or after Close.
var ErrNotOpen = errors.New("store: not open")

// Store defines the interface for persistence backends.
// Implementations handle file formats and engine details internally.
type Store interface {
	// Open prepares the backend for use: file-backed stores load their
	// snapshot from disk, the embedded store opens its engine. It is
	// called once the host signals readiness, not at construction.
	Open(ctx context.Context) error

	// Clear removes every entry of the table. Other tables are not
	// affected. Clearing an absent table is a no-op.
	Clear(ctx context.Context, table string) error

	// Get returns the value stored under (table, key). A missing key is
	// reported as ok == false, never as an error.
	Get(ctx context.Context, table, key string) (value any, ok bool, err error)

	// Set inserts or overwrites the value stored under (table, key).
	// The table springs into existence on first write.
	Set(ctx context.Context, table, key string, value any) error

	// Delete removes (table, key) if present; deleting an absent key is
	// a no-op.
	Delete(ctx context.Context, table, key string) error

	// Entries returns a snapshot of the table's current entries in the
	// backend's documented order: insertion order for in-memory mirrors,
	// engine byte order for the embedded store. An absent table yields
	// an empty snapshot.
	Entries(ctx context.Context, table string) ([]tablemap.Entry, error)

	// Tables returns the names of all tables currently holding entries.
	Tables(ctx context.Context) ([]string, error)

	// Close releases resources held by the store, flushing pending
	// writes first. Closing an already-closed store is a no-op.
	Close() error
}
