package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Booking, int64, error)
	List(ctx context.Context, status model.BookingStatus, page, limit int) ([]model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	HasOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Preload("Room").
		Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Booking{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Room").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) List(ctx context.Context, status model.BookingStatus, page, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Room").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// HasOverlapping reports whether an uncancelled booking overlaps the date range.
func (r *bookingRepository) HasOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("room_id = ?", roomID).
		Where("status NOT IN ?", []model.BookingStatus{model.BookingStatusCancelled}).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
