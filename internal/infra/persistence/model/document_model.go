package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentModel is the GORM-specific struct for the 'owner_documents' table.
// One row holds one JSON or string document of one owner.
type DocumentModel struct {
	OwnerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"column:doc_key;type:varchar(64);primaryKey"`
	Value     []byte    `gorm:"type:bytea"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DocumentModel) TableName() string {
	return "owner_documents"
}
