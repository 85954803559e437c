// Package store selects and opens the configured core.EntityStore.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"recipe-costing/internal/config"
	"recipe-costing/internal/core"
	"recipe-costing/internal/db"
	"recipe-costing/internal/store/memory"
	"recipe-costing/internal/store/postgres"
	"recipe-costing/internal/store/sqlite"
)

// Handle is an opened store. ApplySchema is nil for drivers without a
// schema to manage.
type Handle struct {
	Store       core.EntityStore
	Driver      string
	ApplySchema func(ctx context.Context) error
	close       func() error
}

// Close releases the underlying connection, if any.
func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// Open opens the store named by cfg.StoreDriver. For postgres it applies the
// schema first when cfg.ApplySchema is set.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Handle, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		apply := func(ctx context.Context) error { return db.ApplySchema(ctx, pool) }
		if cfg.ApplySchema {
			if err := apply(ctx); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("schema applied")
		}
		logger.Info("store opened", "driver", cfg.StoreDriver)
		return &Handle{
			Store:       postgres.New(pool, cfg.TxTimeout),
			Driver:      cfg.StoreDriver,
			ApplySchema: apply,
			close:       func() error { pool.Close(); return nil },
		}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, memory.WithTxTimeout(cfg.TxTimeout))
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", "driver", cfg.StoreDriver, "path", s.Path())
		return &Handle{Store: s, Driver: cfg.StoreDriver, close: s.Close}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return &Handle{Store: memory.New(memory.WithTxTimeout(cfg.TxTimeout)), Driver: cfg.StoreDriver}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
