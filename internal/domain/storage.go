package domain

import "time"

// StorageEntry backs the key-value storage boundary on SQL databases.
type StorageEntry struct {
	Key       string    `gorm:"column:key;primaryKey;size:255" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null;default:''" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StorageEntry) TableName() string { return "storage_entry" }
