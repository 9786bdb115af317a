// Package filestockroomfx provides an fx module for a file-backed
// stockroom client.
package filestockroomfx

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/stockroom"
	"github.com/discochess/stockroom/internal/stats"
	"github.com/discochess/stockroom/internal/stats/logger"
)

// Config holds configuration for the file-backed stockroom client.
type Config struct {
	// Path is the cache file location. Empty selects the default under
	// the user cache directory.
	Path string

	// Format selects the snapshot format: "ini" or "jsonl".
	// Default is "ini".
	Format string

	// FlushDelay overrides the debounce window between a mutation and
	// its flush. Zero keeps the default of one second.
	FlushDelay time.Duration
}

// Module provides a file-backed stockroom client.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("filestockroom",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("stockroom.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *stockroom.Client
}

func newClient(p Params) (Result, error) {
	var (
		backend stockroom.Option
		err     error
	)
	switch p.Config.Format {
	case "", "ini":
		backend, err = stockroom.WithINIFile(p.Config.Path)
	case "jsonl":
		backend, err = stockroom.WithRecordLogFile(p.Config.Path)
	default:
		return Result{}, fmt.Errorf("unknown snapshot format: %s", p.Config.Format)
	}
	if err != nil {
		return Result{}, err
	}

	client, err := stockroom.New(
		backend,
		stockroom.WithFlushDelay(p.Config.FlushDelay),
		stockroom.WithStats(p.Collector),
		stockroom.WithLogger(p.Logger.Named("stockroom")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
