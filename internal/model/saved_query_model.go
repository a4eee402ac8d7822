package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SavedQuerySet is one row per user holding the ordered saved-query list as
// JSONB. All mutations are read-modify-write of this single row; the dialog
// service serializes them per user.
type SavedQuerySet struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Queries   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (SavedQuerySet) TableName() string {
	return "saved_query_sets"
}
