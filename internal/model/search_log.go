package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchLog records an executed room search for analytics. Rows are written
// asynchronously in batches; losing one on shutdown is acceptable. The ID is
// assigned up front so it can be echoed in the search response before the row
// is persisted.
type SearchLog struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Query     string     `json:"query" gorm:"size:255;index"`
	Filters   string     `json:"filters" gorm:"type:text"` // JSON-encoded filter map
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:char(36);index"`
	Results   int        `json:"results"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *SearchLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
