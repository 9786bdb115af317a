// Package memstore provides an in-memory store implementation with no
// persistence, for testing and ephemeral use.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/stockroom/internal/store"
	"github.com/discochess/stockroom/internal/tablemap"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store. Entries iterate in insertion order.
type Store struct {
	mu sync.RWMutex
	m  *tablemap.Map
}

// New creates a new in-memory store. It is usable immediately; Open is a
// no-op because there is nothing to load.
func New() *Store {
	return &Store{m: tablemap.New()}
}

// Open is a no-op for the memory store.
func (s *Store) Open(ctx context.Context) error {
	return nil
}

// Clear removes every entry of the table.
func (s *Store) Clear(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Clear(table)
	return nil
}

// Get returns the value stored under (table, key).
func (s *Store) Get(ctx context.Context, table, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tbl, ok := s.m.Table(table)
	if !ok {
		return nil, false, nil
	}
	v, ok := tbl.Get(key)
	return v, ok, nil
}

// Set inserts or overwrites the value stored under (table, key).
func (s *Store) Set(ctx context.Context, table, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Ensure(table).Set(key, value)
	return nil
}

// Delete removes (table, key) if present.
func (s *Store) Delete(ctx context.Context, table, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tbl, ok := s.m.Table(table); ok {
		tbl.Delete(key)
	}
	return nil
}

// Entries returns a snapshot of the table's entries in insertion order.
func (s *Store) Entries(ctx context.Context, table string) ([]tablemap.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tbl, ok := s.m.Table(table)
	if !ok {
		return nil, nil
	}
	return tbl.Entries(), nil
}

// Tables returns the table names in insertion order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Names(), nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
