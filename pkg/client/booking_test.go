package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDraft() BookingDraft {
	return BookingDraft{
		RoomID:     "5f4a1e1a-0001-4c6e-9a43-000000000002",
		GuestName:  "Nguyen Van A",
		GuestEmail: "guest@example.com",
		GuestPhone: "0901234567",
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-12",
		Guests:     2,
	}
}

func TestBookingSubmitter_ValidationNeverHitsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		mutate func(*BookingDraft)
		field  string
	}{
		{"missing room", func(d *BookingDraft) { d.RoomID = "" }, "room_id"},
		{"blank name", func(d *BookingDraft) { d.GuestName = "  " }, "guest_name"},
		{"bad email", func(d *BookingDraft) { d.GuestEmail = "not-an-email" }, "guest_email"},
		{"short phone", func(d *BookingDraft) { d.GuestPhone = "12345" }, "guest_phone"},
		{"bad check-in", func(d *BookingDraft) { d.CheckIn = "tomorrow" }, "check_in"},
		{"check-out not after check-in", func(d *BookingDraft) { d.CheckOut = d.CheckIn }, "check_out"},
		{"zero guests", func(d *BookingDraft) { d.Guests = 0 }, "guests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBookingSubmitter(New(WithBaseURL(srv.URL)))
			draft := validDraft()
			tt.mutate(&draft)
			b.SetDraft(draft)

			_, err := b.Submit(context.Background())

			var valErr *ValidationError
			assert.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Equal(t, int32(0), calls.Load())
			// The draft stays for correction.
			assert.Equal(t, draft, b.Draft())
		})
	}
}

func TestBookingSubmitter_SecondSubmitRejectedWhileInFlight(t *testing.T) {
	var calls atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(arrived)
		<-release
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(BookingConfirmation{
			Booking: &Booking{ID: "b1", Status: "pending"},
			Payment: PaymentInfo{Status: "unpaid", Amount: "1100000"},
		})
	}))
	defer srv.Close()

	b := NewBookingSubmitter(New(WithBaseURL(srv.URL)))
	b.SetDraft(validDraft())

	firstDone := make(chan error, 1)
	go func() {
		_, err := b.Submit(context.Background())
		firstDone <- err
	}()

	// The first submission is on the wire; a second trigger must be rejected
	// locally without another request.
	<-arrived
	assert.True(t, b.InFlight())
	_, err := b.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, b.InFlight())
}

func TestBookingSubmitter_SuccessClearsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(BookingConfirmation{
			Booking: &Booking{ID: "b1", Status: "pending"},
			Payment: PaymentInfo{Status: "unpaid", Amount: "1100000"},
		})
	}))
	defer srv.Close()

	b := NewBookingSubmitter(New(WithBaseURL(srv.URL)))
	b.SetDraft(validDraft())

	confirmation, err := b.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "b1", confirmation.Booking.ID)
	assert.Equal(t, "unpaid", confirmation.Payment.Status)
	assert.Equal(t, BookingDraft{}, b.Draft())
}

func TestBookingSubmitter_FailurePreservesDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":{"error":"room not available for the requested dates","code":"ROOM_UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	b := NewBookingSubmitter(New(WithBaseURL(srv.URL)))
	draft := validDraft()
	b.SetDraft(draft)

	_, err := b.Submit(context.Background())

	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "ROOM_UNAVAILABLE", conflictErr.Code)
	assert.Equal(t, draft, b.Draft())
	assert.False(t, b.InFlight())
}
