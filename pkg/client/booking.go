package client

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	bookingEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	bookingPhoneRe = regexp.MustCompile(`^\d{10,11}$`)
)

// BookingSubmitter manages one booking form: it holds the draft, validates it
// locally before any request is made, and guarantees that two submissions
// cannot be in flight at once. A failed submission keeps the draft so the
// caller can correct and resubmit.
type BookingSubmitter struct {
	client *Client
	logger *slog.Logger

	mu    sync.Mutex
	draft BookingDraft

	inFlight atomic.Bool
}

// NewBookingSubmitter creates a submitter over the client.
func NewBookingSubmitter(c *Client) *BookingSubmitter {
	return &BookingSubmitter{
		client: c,
		logger: c.logger,
	}
}

// SetDraft replaces the current draft.
func (b *BookingSubmitter) SetDraft(draft BookingDraft) {
	b.mu.Lock()
	b.draft = draft
	b.mu.Unlock()
}

// Draft returns a copy of the current draft.
func (b *BookingSubmitter) Draft() BookingDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

// InFlight reports whether a submission is currently outstanding.
func (b *BookingSubmitter) InFlight() bool {
	return b.inFlight.Load()
}

// Submit validates the draft and sends it. Validation failures return a
// *ValidationError without touching the network. A second Submit while one is
// outstanding returns ErrSubmissionInFlight without sending a request; the
// API has no idempotency key, so this flag is the only duplicate defense.
// On success the draft is cleared; on failure it is preserved.
func (b *BookingSubmitter) Submit(ctx context.Context) (*BookingConfirmation, error) {
	draft := b.Draft()
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	if !b.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer b.inFlight.Store(false)

	confirmation, err := b.client.CreateBooking(ctx, draft)
	if err != nil {
		b.logger.Warn("booking submission failed", "room_id", draft.RoomID, "error", err)
		return nil, err
	}

	b.mu.Lock()
	b.draft = BookingDraft{}
	b.mu.Unlock()
	return confirmation, nil
}

// validateDraft applies the same contact and date rules the server enforces,
// so obviously bad input never produces a request.
func validateDraft(d BookingDraft) error {
	if strings.TrimSpace(d.RoomID) == "" {
		return &ValidationError{Field: "room_id", Message: "room is required"}
	}
	if strings.TrimSpace(d.GuestName) == "" {
		return &ValidationError{Field: "guest_name", Message: "guest name is required"}
	}
	if !bookingEmailRe.MatchString(d.GuestEmail) {
		return &ValidationError{Field: "guest_email", Message: "invalid email address"}
	}
	if !bookingPhoneRe.MatchString(normalizePhone(d.GuestPhone)) {
		return &ValidationError{Field: "guest_phone", Message: "phone must be 10 or 11 digits"}
	}

	checkIn, err := time.Parse("2006-01-02", d.CheckIn)
	if err != nil {
		return &ValidationError{Field: "check_in", Message: "invalid check-in date"}
	}
	checkOut, err := time.Parse("2006-01-02", d.CheckOut)
	if err != nil {
		return &ValidationError{Field: "check_out", Message: "invalid check-out date"}
	}
	if !checkOut.After(checkIn) {
		return &ValidationError{Field: "check_out", Message: "check-out must be after check-in"}
	}

	if d.Guests < 1 {
		return &ValidationError{Field: "guests", Message: "at least one guest is required"}
	}
	return nil
}

func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return -1
		}
		return r
	}, phone)
}
