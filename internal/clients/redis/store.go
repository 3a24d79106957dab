package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "mathtutor:".
	Prefix string
}

// Store is a kv.Store backed by plain redis string keys.
type Store struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

var _ kv.Store = (*Store)(nil)

func NewStore(log *logger.Logger, cfg Config) (*Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewStoreWithClient(log, rdb, cfg.Prefix), nil
}

// NewStoreWithClient wraps an existing client (tests, shared pools).
func NewStoreWithClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *Store {
	return &Store{
		log:    log.With("service", "RedisStore"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.rdb == nil {
		return "", false, fmt.Errorf("redis store not initialized")
	}
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis store not initialized")
	}
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis store not initialized")
	}
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
