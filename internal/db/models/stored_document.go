package models

import "time"

// StoredDocument is the SQL row holding a serialized Document under a key,
// the same shape a browser local-storage entry has.
type StoredDocument struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (StoredDocument) TableName() string {
	return "documents"
}
