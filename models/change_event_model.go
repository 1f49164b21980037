package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// ChangeEvent is the outbox row written in the same transaction as the change it describes.
// A missing row is stored as JSON null, never SQL NULL.
type ChangeEvent struct {
	Seq         int64          `gorm:"primaryKey;autoIncrement" json:"seq"`
	Table       string         `gorm:"column:table_name;size:64;not null;index" json:"table"`
	Type        string         `gorm:"size:10;not null" json:"type"`
	Schema      string         `gorm:"size:64;not null;default:'public'" json:"schema"`
	Record      datatypes.JSON `gorm:"type:jsonb;not null;default:'null'" json:"record"`
	OldRecord   datatypes.JSON `gorm:"type:jsonb;not null;default:'null'" json:"old_record"`
	PublishedAt *time.Time     `gorm:"index" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
}
