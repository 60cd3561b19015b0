package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus describes the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus describes the payment state of a booking.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking represents a room reservation.
type Booking struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	RoomID        uuid.UUID       `json:"room_id" gorm:"type:char(36);not null;index"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	GuestName     string          `json:"guest_name" gorm:"size:255;not null"`
	GuestEmail    string          `json:"guest_email" gorm:"size:255;not null"`
	GuestPhone    string          `json:"guest_phone" gorm:"size:20;not null"`
	CheckIn       time.Time       `json:"check_in" gorm:"not null;index"`
	CheckOut      time.Time       `json:"check_out" gorm:"not null;index"`
	Guests        int             `json:"guests" gorm:"not null;default:1"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status        BookingStatus   `json:"status" gorm:"size:20;default:'pending';index"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"size:20;default:'unpaid';index"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
