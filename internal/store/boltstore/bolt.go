// Package boltstore implements a store backed by a bbolt embedded
// key-value engine, with one bucket per table. Buckets are independent
// namespaces, so identical keys in different tables never collide.
package boltstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/discochess/stockroom/internal/store"
	"github.com/discochess/stockroom/internal/tablemap"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a bbolt-backed store. There is no in-memory mirror and no
// debounce: the engine itself is the durable state, and every operation
// is a direct engine call.
//
// Unlike the file-backed stores, genuine engine failures are propagated
// to the caller instead of being logged and swallowed.
type Store struct {
	path   string
	logger *zap.Logger

	mu sync.RWMutex
	db *bolt.DB
}

// New records the database path. The engine is not opened until Open,
// which the host calls once it signals readiness.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Open creates the parent directory and opens the engine. Opening an
// already-open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bolt.Open(s.path, 0o600, nil)
	if err != nil {
		return fmt.Errorf("opening bolt db: %w", err)
	}
	s.db = db

	s.logger.Debug("bolt store opened", zap.String("path", s.path))
	return nil
}

// Clear drops the table's bucket. Clearing an absent table is a no-op.
func (s *Store) Clear(ctx context.Context, table string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(table))
	})
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clearing table %s: %w", table, err)
	}
	return nil
}

// Get returns the value stored under (table, key). A missing bucket or
// key is reported as ok == false; any other engine or decode error is
// propagated.
func (s *Store) Get(ctx context.Context, table, key string) (any, bool, error) {
	db, err := s.handle()
	if err != nil {
		return nil, false, err
	}

	var raw []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// Copy out: bbolt values are only valid inside the tx.
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading %s.%s: %w", table, key, err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decoding %s.%s: %w", table, key, err)
	}
	return value, true, nil
}

// Set stores the JSON encoding of value under (table, key), creating the
// table's bucket on first write.
func (s *Store) Set(ctx context.Context, table, key string, value any) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s.%s: %w", table, key, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return b.Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("writing %s.%s: %w", table, key, err)
	}
	return nil
}

// Delete removes (table, key) if present.
func (s *Store) Delete(ctx context.Context, table, key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting %s.%s: %w", table, key, err)
	}
	return nil
}

// Entries returns a snapshot of the table's entries in the engine's
// native byte order.
func (s *Store) Entries(ctx context.Context, table string) ([]tablemap.Entry, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var entries []tablemap.Entry
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				return fmt.Errorf("decoding %s.%s: %w", table, k, err)
			}
			entries = append(entries, tablemap.Entry{Key: string(k), Value: value})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Tables returns the bucket names in the engine's native byte order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var names []string
	err = db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return names, nil
}

// Close closes the engine if it is currently open. Closing an unopened
// or already-closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("closing bolt db: %w", err)
	}
	return nil
}

// handle returns the open engine, or ErrNotOpen if Open has not run yet.
func (s *Store) handle() (*bolt.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrNotOpen
	}
	return s.db, nil
}
