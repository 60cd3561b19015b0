package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"homestay/internal/errors"
	"homestay/internal/middleware"
	"homestay/internal/model"
	"homestay/internal/service"
)

// BookingHandler handles booking endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest represents a booking submission.
type CreateBookingRequest struct {
	RoomID     string `json:"room_id" validate:"required,uuid"`
	GuestName  string `json:"guest_name" validate:"required"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required"`  // YYYY-MM-DD
	CheckOut   string `json:"check_out" validate:"required"` // YYYY-MM-DD
	Guests     int    `json:"guests" validate:"required,min=1"`
	Notes      string `json:"notes"`
}

// UpdateBookingStatusRequest represents a staff status transition.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingResponse is the confirmation payload for a created booking.
type BookingResponse struct {
	Booking *model.Booking `json:"booking"`
	Payment PaymentInfo    `json:"payment"`
}

// PaymentInfo summarizes the payment state of a booking.
type PaymentInfo struct {
	Status string `json:"status"`
	Amount string `json:"amount"`
}

// Create godoc
// @Summary Create a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return invalidUUID("room_id")
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid check_in date",
			Code:  "INVALID_DATE",
			Field: "check_in",
		})
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid check_out date",
			Code:  "INVALID_DATE",
			Field: "check_out",
		})
	}

	booking, err := h.bookingService.Create(c.Request().Context(), user.ID, service.BookingInput{
		RoomID:     roomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		Notes:      req.Notes,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, BookingResponse{
		Booking: booking,
		Payment: PaymentInfo{
			Status: string(booking.PaymentStatus),
			Amount: booking.TotalAmount.String(),
		},
	})
}

// Get godoc
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	booking, err := h.bookingService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// Customers may only read their own bookings; staff and admin see all.
	if booking.UserID != user.ID && user.Role == model.RoleCustomer {
		httpErr := errors.MapErrorToHTTP(errors.ErrForbidden)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, booking)
}

// ListMine godoc
// @Summary List the current user's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	page, limit := pageParams(c, 10)
	bookings, total, err := h.bookingService.ListByUser(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: bookings,
		Pagination: service.Pagination{
			Page:       page,
			TotalPages: totalPages(total, limit),
			Total:      total,
		},
	})
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	booking, err := h.bookingService.Cancel(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, booking)
}

// ListAll godoc
// @Summary List all bookings
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /staff/bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	page, limit := pageParams(c, 20)
	status := model.BookingStatus(c.QueryParam("status"))

	bookings, total, err := h.bookingService.List(c.Request().Context(), status, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: bookings,
		Pagination: service.Pagination{
			Page:       page,
			TotalPages: totalPages(total, limit),
			Total:      total,
		},
	})
}

// UpdateStatus godoc
// @Summary Update booking status
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateBookingStatusRequest true "New status"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /staff/bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	var req UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.UpdateStatus(c.Request().Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, booking)
}
