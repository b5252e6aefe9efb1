package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mealtrack/internal/adapter/memory"
	"mealtrack/internal/adapter/postgres"
	"mealtrack/internal/adapter/sqlite"
	"mealtrack/internal/config"
	"mealtrack/internal/domain"
)

// openStore opens the key-value store selected by cfg.Store.Driver.
func openStore(ctx context.Context, cfg *config.Config) (domain.KVStore, func() error, error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() error { return nil }, nil

	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("store opened", zap.String("driver", "sqlite"), zap.String("path", cfg.Store.SQLitePath))
		return s, s.Close, nil

	case "postgres":
		s, err := postgres.Open(ctx, cfg.Store.PostgresURL, postgres.Options{
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info("store opened", zap.String("driver", "postgres"))
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
