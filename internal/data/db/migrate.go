package db

import (
	"fmt"

	types "github.com/yungbote/mathtutor-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Key-value storage boundary (history list, language, font).
		&types.StorageEntry{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
