package client

import "time"

// User is the account profile returned by the API.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IDNumber string `json:"id_number"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Room is a bookable room. Monetary amounts are decimal strings.
type Room struct {
	ID            string `json:"id"`
	RoomNumber    string `json:"room_number"`
	Name          string `json:"name"`
	RoomType      string `json:"room_type"`
	Description   string `json:"description"`
	PricePerNight string `json:"price_per_night"`
	Capacity      int    `json:"capacity"`
	Floor         string `json:"floor"`
	Amenities     string `json:"amenities"`
	Status        string `json:"status"`
	Active        bool   `json:"active"`
}

// Booking is a room reservation.
type Booking struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"room_id"`
	UserID        string    `json:"user_id"`
	GuestName     string    `json:"guest_name"`
	GuestEmail    string    `json:"guest_email"`
	GuestPhone    string    `json:"guest_phone"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalAmount   string    `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Notes         string    `json:"notes"`
	Room          *Room     `json:"room,omitempty"`
}

// Review is a guest review of a room.
type Review struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is an add-on service offered by the homestay.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Active      bool   `json:"active"`
}

// Pagination describes a page of a listed collection.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

// AuthResponse carries the token pair and profile returned by register, login
// and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// LookupAccountResponse carries the looked-up profile and a one-shot password
// reset token.
type LookupAccountResponse struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ResetToken string `json:"reset_token"`
}

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

// SearchParams are the query parameters of a room search. Zero values are
// omitted from the request.
type SearchParams struct {
	Query     string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	MinPrice  string
	MaxPrice  string
	Capacity  int
	RoomType  string
}

// SearchInfo carries server-side metadata about a search.
type SearchInfo struct {
	LogID string `json:"log_id"`
}

// SearchResult is a page of search hits plus the filters the server applied.
type SearchResult struct {
	Rooms      []Room            `json:"rooms"`
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters"`
	SearchInfo SearchInfo        `json:"search"`
}

// BookingDraft is a booking submission before it is sent. Dates use the
// YYYY-MM-DD wire format.
type BookingDraft struct {
	RoomID     string `json:"room_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
	Notes      string `json:"notes,omitempty"`
}

// BookingConfirmation is the server's response to a created booking.
type BookingConfirmation struct {
	Booking *Booking    `json:"booking"`
	Payment PaymentInfo `json:"payment"`
}

// PaymentInfo summarizes the payment state of a booking.
type PaymentInfo struct {
	Status string `json:"status"`
	Amount string `json:"amount"`
}

// ContactInput is the payload of the public contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// RoomList is a page of rooms.
type RoomList struct {
	Items      []Room     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// BookingList is a page of bookings.
type BookingList struct {
	Items      []Booking  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ReviewList is a page of reviews for a room.
type ReviewList struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}
