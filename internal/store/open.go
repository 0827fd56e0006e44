package store

import (
	"context"
	"fmt"

	"github.com/pysugar/account-tabs/internal/config"
	"github.com/pysugar/account-tabs/internal/db"
	"go.uber.org/zap"
)

var _ Store = (*db.DocumentStore)(nil)

// Open builds the store selected by cfg.Backend. The returned close function
// releases the backend's connections and is never nil.
func Open(ctx context.Context, cfg config.Store, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.BackendFile, "":
		logger.Info("using file store", zap.String("path", cfg.DataPath))
		return NewFileStore(cfg.DataPath, logger), noop, nil

	case config.BackendSQLite:
		database, err := db.InitDB(cfg.DataPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		sqlDB, err := database.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("using sqlite store", zap.String("path", cfg.DataPath), zap.String("key", cfg.Key))
		return db.NewDocumentStore(database, cfg.Key, logger), sqlDB.Close, nil

	case config.BackendRedis:
		rs, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Key,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return rs, rs.Close, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store, changes are not persisted")
		return NewMemoryStore(nil), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
