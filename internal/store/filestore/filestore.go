// Package filestore implements a file-backed store: all data lives in an
// in-memory mirror, and mutations are persisted by debounced full-file
// rewrites through a pluggable snapshot codec.
package filestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/discochess/stockroom/internal/codec"
	"github.com/discochess/stockroom/internal/debounce"
	"github.com/discochess/stockroom/internal/stats"
	"github.com/discochess/stockroom/internal/store"
	"github.com/discochess/stockroom/internal/tablemap"
)

// DefaultFlushDelay is the debounce window between a mutation and the
// flush that persists it. Mutations arriving within the window collapse
// into a single flush.
const DefaultFlushDelay = time.Second

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a file-backed store with an in-memory mirror. Reads are served
// from memory; every mutation reschedules a debounced flush that rewrites
// the whole persistence file.
//
// Persistence failures never fail a cache operation: read and write
// trouble is logged as a warning and the store keeps serving from memory,
// possibly diverged from disk until the next successful flush.
type Store struct {
	path   string
	codec  codec.Codec
	logger *zap.Logger
	stats  stats.Collector

	mu   sync.RWMutex // guards m and open
	m    *tablemap.Map
	open bool

	flusher *debounce.Debouncer
}

// New creates a file store persisting to path through c. A delay <= 0
// selects DefaultFlushDelay. A nil logger or collector selects a no-op
// implementation. The file is not touched until Open.
func New(path string, c codec.Codec, delay time.Duration, logger *zap.Logger, collector stats.Collector) *Store {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	s := &Store{
		path:   path,
		codec:  c,
		logger: logger,
		stats:  collector,
		m:      tablemap.New(),
	}
	s.flusher = debounce.New(delay, s.flush)
	return s
}

// Open ensures the parent directory exists and loads the snapshot file.
// A missing file is not an error; the store starts empty. Any other read
// or decode failure is logged as a warning and the store starts empty
// too, so a damaged snapshot never keeps the cache from coming up.
func (s *Store) Open(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("creating cache directory failed",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}

	loaded := tablemap.New()
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// First run; nothing to load.
	case err != nil:
		s.logger.Warn("reading snapshot failed, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
	default:
		m, err := s.codec.Decode(data)
		if err != nil {
			s.logger.Warn("decoding snapshot failed, starting empty",
				zap.String("path", s.path),
				zap.Error(err),
			)
		} else {
			loaded = m
		}
	}

	s.mu.Lock()
	s.m = loaded
	s.open = true
	s.mu.Unlock()

	s.logger.Debug("file store opened", zap.String("path", s.path))
	return nil
}

// Clear removes every entry of the table and schedules a flush.
func (s *Store) Clear(ctx context.Context, table string) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return store.ErrNotOpen
	}
	s.m.Clear(table)
	s.mu.Unlock()

	s.flusher.Schedule()
	return nil
}

// Get returns the value stored under (table, key) from the in-memory
// mirror. It never fails for persistence reasons.
func (s *Store) Get(ctx context.Context, table, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, false, store.ErrNotOpen
	}
	tbl, ok := s.m.Table(table)
	if !ok {
		return nil, false, nil
	}
	v, ok := tbl.Get(key)
	return v, ok, nil
}

// Set inserts or overwrites (table, key) and schedules a flush.
func (s *Store) Set(ctx context.Context, table, key string, value any) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return store.ErrNotOpen
	}
	s.m.Ensure(table).Set(key, value)
	s.mu.Unlock()

	s.flusher.Schedule()
	return nil
}

// Delete removes (table, key) if present and schedules a flush.
func (s *Store) Delete(ctx context.Context, table, key string) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return store.ErrNotOpen
	}
	if tbl, ok := s.m.Table(table); ok {
		tbl.Delete(key)
	}
	s.mu.Unlock()

	s.flusher.Schedule()
	return nil
}

// Entries returns a snapshot of the table's entries in insertion order.
func (s *Store) Entries(ctx context.Context, table string) ([]tablemap.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, store.ErrNotOpen
	}
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
	if !s.open {
		return nil, store.ErrNotOpen
	}
	return s.m.Names(), nil
}

// Close flushes any pending mutations synchronously and marks the store
// closed. The last batch of mutations is never lost on shutdown, even if
// the debounce delay has not elapsed. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil
	}
	s.open = false
	s.mu.Unlock()

	s.flusher.Flush()
	return nil
}

// flush serializes the whole in-memory mirror and atomically rewrites the
// persistence file. Failures are logged as warnings and swallowed with no
// retry; the next mutation schedules another attempt.
func (s *Store) flush() {
	start := time.Now()

	s.mu.RLock()
	snapshot := s.m.Clone()
	s.mu.RUnlock()

	data, err := s.codec.Encode(snapshot)
	if err != nil {
		s.stats.IncCounter(stats.MetricFlushErrors, 1)
		s.logger.Warn("encoding snapshot failed",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		s.stats.IncCounter(stats.MetricFlushErrors, 1)
		s.logger.Warn("writing snapshot failed",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	s.stats.IncCounter(stats.MetricFlushes, 1)
	s.stats.ObserveHistogram(stats.MetricFlushDuration, time.Since(start).Seconds())
}
