package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"homestay/internal/cache"
	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// BookingInput carries the fields of a booking submission.
type BookingInput struct {
	RoomID     uuid.UUID
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	Notes      string
}

// BookingService handles booking operations.
type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, input BookingInput) (*model.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Booking, int64, error)
	List(ctx context.Context, status model.BookingStatus, page, limit int) ([]model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*model.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	roomRepo    repository.RoomRepository
	cache       *cache.Client
	validator   *GuestValidator
	// Mutex map for per-user submission locking. A second Create for the
	// same user while one is in flight is rejected, not queued.
	userMutexes sync.Map
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	cache *cache.Client,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		cache:       cache,
		validator:   NewGuestValidator(),
	}
}

// getMutex returns the submission mutex for a user ID.
func (s *bookingService) getMutex(userID uuid.UUID) *sync.Mutex {
	value, _ := s.userMutexes.LoadOrStore(userID.String(), &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Create validates the submission, checks room availability, and persists the
// booking with a computed total. No idempotency key exists in the API
// contract, so the per-user in-flight lock is the only duplicate defense.
func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, input BookingInput) (*model.Booking, error) {
	if err := s.validator.ValidateGuest(input.GuestName, input.GuestEmail, input.GuestPhone); err != nil {
		return nil, err
	}

	checkIn := input.CheckIn.Truncate(24 * time.Hour)
	checkOut := input.CheckOut.Truncate(24 * time.Hour)
	if !checkOut.After(checkIn) {
		return nil, errors.ErrInvalidDates
	}

	mutex := s.getMutex(userID)
	if !mutex.TryLock() {
		return nil, errors.ErrBookingInFlight
	}
	defer mutex.Unlock()

	room, err := s.roomRepo.FindByID(ctx, input.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}

	if !room.Active || room.Status == model.RoomStatusMaintenance {
		return nil, errors.ErrRoomUnavailable
	}
	if input.Guests < 1 || input.Guests > room.Capacity {
		return nil, errors.NewValidationError("guests", fmt.Sprintf("guests must be between 1 and %d", room.Capacity))
	}

	overlapping, err := s.bookingRepo.HasOverlapping(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if overlapping {
		return nil, errors.ErrRoomUnavailable
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	total := room.PricePerNight.Mul(decimal.NewFromInt(nights))

	booking := &model.Booking{
		ID:            uuid.New(),
		RoomID:        room.ID,
		UserID:        userID,
		GuestName:     input.GuestName,
		GuestEmail:    input.GuestEmail,
		GuestPhone:    s.validator.NormalizePhone(input.GuestPhone),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        input.Guests,
		TotalAmount:   total,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		Notes:         input.Notes,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// Invalidate the cached room; its availability changed.
	_ = s.cache.Delete(ctx, fmt.Sprintf("room:%s", room.ID.String()))

	booking.Room = *room
	return booking, nil
}

// Get retrieves a booking by ID.
func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListByUser lists a user's bookings, newest first.
func (s *bookingService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Booking, int64, error) {
	return s.bookingRepo.ListByUser(ctx, userID, page, limit)
}

// List lists all bookings, optionally filtered by status. Staff use only.
func (s *bookingService) List(ctx context.Context, status model.BookingStatus, page, limit int) ([]model.Booking, int64, error) {
	return s.bookingRepo.List(ctx, status, page, limit)
}

// UpdateStatus transitions a booking to a new status. Staff use only.
func (s *bookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	booking.Status = status
	return booking, nil
}

// Cancel cancels a booking on behalf of its owner.
func (s *bookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, errors.ErrForbidden
	}
	if booking.Status == model.BookingStatusCompleted {
		return nil, errors.NewValidationError("status", "completed bookings cannot be cancelled")
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, model.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = model.BookingStatusCancelled
	return booking, nil
}
