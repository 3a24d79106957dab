package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormStore stores entries in the storage_entry table of any gorm
// database (sqlite or postgres).
func NewGormStore(db *gorm.DB, log *logger.Logger) Store {
	return &gormStore{db: db, log: log.With("repo", "StorageEntryRepo")}
}

func (s *gormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctxutil.Default(ctx))
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("missing key")
	}
	var row types.StorageEntry
	err := s.conn(ctx).
		Where("key = ?", key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("missing key")
	}
	row := &types.StorageEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

func (s *gormStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("missing key")
	}
	return s.conn(ctx).
		Where("key = ?", key).
		Delete(&types.StorageEntry{}).Error
}
