// Package stockroom provides a table-scoped key-value cache with
// interchangeable persistence backends: an in-memory store mirrored to an
// INI-style snapshot file, an in-memory store mirrored to a line-oriented
// record log, and an embedded bbolt database with one namespace per
// table. Callers see one uniform contract regardless of backend.
//
// Example usage:
//
//	opt, err := stockroom.WithRecordLogFile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := stockroom.New(opt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.Set(ctx, "sessions", "alice", map[string]any{"admin": true})
//	v, ok, _ := client.Get(ctx, "sessions", "alice")
package stockroom

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/stockroom/internal/stats"
	"github.com/discochess/stockroom/internal/store"
	"github.com/discochess/stockroom/internal/tablemap"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("stockroom: client closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("stockroom: no store provided")
)

// Client provides table-scoped cache access over a persistence backend.
// A Client is safe for concurrent use by multiple goroutines.
//
// Values may be anything representable in JSON. Values read back from a
// backend follow encoding/json conventions: numbers decode as float64,
// objects as map[string]any.
type Client struct {
	store  store.Store
	stats  stats.Collector
	logger *zap.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options. The backend is not
// opened until Start.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.store == nil && cfg.makeStore != nil {
		cfg.store = cfg.makeStore(&cfg)
	}

	c := &Client{
		store:  cfg.store,
		stats:  cfg.stats,
		logger: cfg.logger,
	}

	if c.store == nil {
		return nil, ErrNoStore
	}

	return c, nil
}

// Start opens the backend: file-backed stores load their snapshot, the
// embedded store opens its engine. Hosts call Start once they are ready;
// operations issued before Start fail with the backend's not-open error.
func (c *Client) Start(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.store.Open(ctx); err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	c.logger.Debug("client started")
	return nil
}

// Clear removes every entry of the table. Other tables are unaffected;
// clearing an absent table is a no-op.
func (c *Client) Clear(ctx context.Context, table string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.stats.IncCounter(stats.MetricClears, 1)
	return c.store.Clear(ctx, table)
}

// Get returns the value stored under (table, key). A missing key is
// reported as ok == false, never as an error. File-backed backends never
// return an error here; the embedded backend propagates genuine engine
// failures.
func (c *Client) Get(ctx context.Context, table, key string) (any, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	c.stats.IncCounter(stats.MetricGets, 1)

	v, ok, err := c.store.Get(ctx, table, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		c.stats.IncCounter(stats.MetricHits, 1)
	} else {
		c.stats.IncCounter(stats.MetricMisses, 1)
	}
	return v, ok, nil
}

// Set inserts or overwrites the value stored under (table, key). The
// table springs into existence on first write.
func (c *Client) Set(ctx context.Context, table, key string, value any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.stats.IncCounter(stats.MetricSets, 1)
	return c.store.Set(ctx, table, key, value)
}

// SetWithTTL inserts or overwrites like Set. The maxAge parameter is
// accepted for interface compatibility but has no effect: expiration is
// not implemented in any backend.
func (c *Client) SetWithTTL(ctx context.Context, table, key string, value any, maxAge time.Duration) error {
	_ = maxAge
	return c.Set(ctx, table, key, value)
}

// Delete removes (table, key); deleting an absent key is a no-op.
func (c *Client) Delete(ctx context.Context, table, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.stats.IncCounter(stats.MetricDeletes, 1)
	return c.store.Delete(ctx, table, key)
}

// Keys returns a lazy sequence over the table's keys. The snapshot is
// taken when Keys is called; each call yields an independent traversal.
// Ordering follows the backend: insertion order for in-memory mirrors,
// engine byte order for the embedded store.
func (c *Client) Keys(ctx context.Context, table string) (iter.Seq[string], error) {
	entries, err := c.snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for _, e := range entries {
			if !yield(e.Key) {
				return
			}
		}
	}, nil
}

// Values returns a lazy sequence over the table's values, with the same
// snapshot and ordering semantics as Keys.
func (c *Client) Values(ctx context.Context, table string) (iter.Seq[any], error) {
	entries, err := c.snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return func(yield func(any) bool) {
		for _, e := range entries {
			if !yield(e.Value) {
				return
			}
		}
	}, nil
}

// Entries returns a lazy sequence over the table's key-value pairs, with
// the same snapshot and ordering semantics as Keys.
func (c *Client) Entries(ctx context.Context, table string) (iter.Seq2[string, any], error) {
	entries, err := c.snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return func(yield func(string, any) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}, nil
}

// Tables returns the names of all tables currently holding entries, in
// the backend's ordering.
func (c *Client) Tables(ctx context.Context) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.store.Tables(ctx)
}

// Close releases the backend: file-backed stores flush any pending
// mutations synchronously first. A second Close returns ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// Store returns the storage backend used by this client.
func (c *Client) Store() store.Store {
	return c.store
}

// snapshot captures the table's current entries for the iteration
// methods.
func (c *Client) snapshot(ctx context.Context, table string) ([]tablemap.Entry, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.store.Entries(ctx, table)
}
