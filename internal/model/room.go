package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomStatus describes the operational state of a room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// Room represents a bookable room in the homestay.
type Room struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	RoomNumber    string          `json:"room_number" gorm:"uniqueIndex;size:50;not null"`
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	RoomType      string          `json:"room_type" gorm:"size:50;index"`
	Description   string          `json:"description" gorm:"type:text"`
	PricePerNight decimal.Decimal `json:"price_per_night" gorm:"type:decimal(12,2);not null"`
	Capacity      int             `json:"capacity" gorm:"not null;default:2"`
	Floor         string          `json:"floor" gorm:"size:10"`
	Amenities     string          `json:"amenities" gorm:"type:text"` // comma separated
	Status        RoomStatus      `json:"status" gorm:"size:20;default:'available';index"`
	Active        bool            `json:"active" gorm:"default:true;index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:RoomID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
