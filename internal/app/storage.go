package app

import (
	"fmt"
	"io"

	"github.com/yungbote/mathtutor-backend/internal/clients/redis"
	"github.com/yungbote/mathtutor-backend/internal/data/db"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

// wireStorage opens the configured key-value backend. The returned closer
// releases it; it is never nil.
func wireStorage(log *logger.Logger, cfg Config) (kv.Store, io.Closer, error) {
	log.Info("Wiring storage...", "backend", cfg.StorageBackend)
	switch cfg.StorageBackend {
	case StorageMemory:
		return kv.NewMemoryStore(), nopCloser{}, nil
	case StorageRedis:
		st, err := redis.NewStore(log, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init redis store: %w", err)
		}
		return st, st, nil
	case StoragePostgres, StorageSQLite:
		svc, err := db.Open(log, db.Config{
			Driver:      cfg.StorageBackend,
			SQLitePath:  cfg.SQLitePath,
			PostgresDSN: cfg.PostgresDSN,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.StorageBackend, err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			_ = svc.Close()
			return nil, nil, fmt.Errorf("%s automigrate: %w", cfg.StorageBackend, err)
		}
		return kv.NewGormStore(svc.DB(), log), svc, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
