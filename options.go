package stockroom

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/stockroom/internal/codec/inicodec"
	"github.com/discochess/stockroom/internal/codec/jsonlcodec"
	"github.com/discochess/stockroom/internal/stats"
	"github.com/discochess/stockroom/internal/store"
	"github.com/discochess/stockroom/internal/store/boltstore"
	"github.com/discochess/stockroom/internal/store/filestore"
	"github.com/discochess/stockroom/internal/store/memstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store      store.Store
	makeStore  func(*options) store.Store
	flushDelay time.Duration
	stats      stats.Collector
	logger     *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend to use, overriding any backend
// option.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithFlushDelay overrides the debounce window of file-backed backends.
// If not set, filestore.DefaultFlushDelay is used. It has no effect on
// the bbolt and memory backends.
func WithFlushDelay(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.flushDelay = d
	})
}

// WithINIFile configures an in-memory cache mirrored to an INI-style
// snapshot file at path. An empty path selects the default location
// under the user cache directory.
func WithINIFile(path string) (Option, error) {
	c := inicodec.New()
	path, err := resolveCachePath(path, c.Extension())
	if err != nil {
		return nil, err
	}
	return optionFunc(func(o *options) {
		o.makeStore = func(o *options) store.Store {
			return filestore.New(path, c, o.flushDelay, o.logger, o.stats)
		}
	}), nil
}

// WithRecordLogFile configures an in-memory cache mirrored to a
// line-oriented record log at path. An empty path selects the default
// location under the user cache directory.
func WithRecordLogFile(path string) (Option, error) {
	path, err := resolveCachePath(path, "jsonl")
	if err != nil {
		return nil, err
	}
	return optionFunc(func(o *options) {
		o.makeStore = func(o *options) store.Store {
			return filestore.New(path, jsonlcodec.New(o.logger), o.flushDelay, o.logger, o.stats)
		}
	}), nil
}

// WithBoltDB configures an embedded bbolt database at path, with one
// namespace per table. An empty path selects the default location under
// the user cache directory.
func WithBoltDB(path string) (Option, error) {
	path, err := resolveCachePath(path, "db")
	if err != nil {
		return nil, err
	}
	return optionFunc(func(o *options) {
		o.makeStore = func(o *options) store.Store {
			return boltstore.New(path, o.logger)
		}
	}), nil
}

// WithMemory configures a purely in-memory cache with no persistence.
func WithMemory() Option {
	return optionFunc(func(o *options) {
		o.makeStore = func(o *options) store.Store {
			return memstore.New()
		}
	})
}

// resolveCachePath returns path unchanged when set, or the default cache
// file location for the given extension.
func resolveCachePath(path, ext string) (string, error) {
	if path != "" {
		return path, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "stockroom", "cache."+ext), nil
}
