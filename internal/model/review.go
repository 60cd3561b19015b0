package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a guest rating for a room.
type Review struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	RoomID    uuid.UUID      `json:"room_id" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index"`
	Rating    int            `json:"rating" gorm:"not null"` // 1..5
	Comment   string         `json:"comment" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
