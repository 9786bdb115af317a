// Package boltstockroomfx provides an fx module for a bbolt-backed
// stockroom client. The engine is opened on the fx OnStart hook, after
// the host signals readiness.
package boltstockroomfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/stockroom"
	"github.com/discochess/stockroom/internal/stats"
	"github.com/discochess/stockroom/internal/stats/logger"
)

// Config holds configuration for the bbolt-backed stockroom client.
type Config struct {
	// Path is the database file location. Empty selects the default
	// under the user cache directory.
	Path string
}

// Module provides a bbolt-backed stockroom client.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("boltstockroom",
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
	backend, err := stockroom.WithBoltDB(p.Config.Path)
	if err != nil {
		return Result{}, err
	}

	client, err := stockroom.New(
		backend,
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
