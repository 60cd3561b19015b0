package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/service"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	roomService service.RoomService
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// RoomRequest represents an admin room create/update request.
type RoomRequest struct {
	RoomNumber    string `json:"room_number" validate:"required"`
	Name          string `json:"name" validate:"required"`
	RoomType      string `json:"room_type" validate:"required"`
	Description   string `json:"description"`
	PricePerNight string `json:"price_per_night" validate:"required"`
	Capacity      int    `json:"capacity" validate:"required,min=1"`
	Floor         string `json:"floor"`
	Amenities     string `json:"amenities"`
	Status        string `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
}

// ListResponse is the standard list envelope.
type ListResponse struct {
	Items      interface{}        `json:"items"`
	Pagination service.Pagination `json:"pagination"`
}

// List godoc
// @Summary List active rooms
// @Tags rooms
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	page, limit := pageParams(c, 10)

	rooms, total, err := h.roomService.List(c.Request().Context(), page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: rooms,
		Pagination: service.Pagination{
			Page:       page,
			TotalPages: totalPages(total, limit),
			Total:      total,
		},
	})
}

// Get godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} model.Room
// @Failure 404 {object} errors.ErrorResponse
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	room, err := h.roomService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, room)
}

// Create godoc
// @Summary Create a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoomRequest true "Room data"
// @Success 201 {object} model.Room
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	room, httpErr := bindRoom(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.roomService.Create(c.Request().Context(), room); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, room)
}

// Update godoc
// @Summary Update a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body RoomRequest true "Room data"
// @Success 200 {object} model.Room
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/rooms/{id} [put]
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	existing, err := h.roomService.Get(c.Request().Context(), id)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	room, httpErr := bindRoom(c)
	if httpErr != nil {
		return httpErr
	}
	room.ID = existing.ID
	room.CreatedAt = existing.CreatedAt
	room.Active = existing.Active

	if err := h.roomService.Update(c.Request().Context(), room); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, room)
}

// Delete godoc
// @Summary Delete a room
// @Tags rooms
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/rooms/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	if err := h.roomService.Delete(c.Request().Context(), id); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func bindRoom(c echo.Context) (*model.Room, *echo.HTTPError) {
	var req RoomRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	price, err := decimal.NewFromString(req.PricePerNight)
	if err != nil || price.IsNegative() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price_per_night",
			Code:  "INVALID_PRICE",
		})
	}

	status := model.RoomStatus(req.Status)
	if req.Status == "" {
		status = model.RoomStatusAvailable
	}

	return &model.Room{
		RoomNumber:    req.RoomNumber,
		Name:          req.Name,
		RoomType:      req.RoomType,
		Description:   req.Description,
		PricePerNight: price,
		Capacity:      req.Capacity,
		Floor:         req.Floor,
		Amenities:     req.Amenities,
		Status:        status,
		Active:        true,
	}, nil
}

// pageParams extracts page/limit query params with defaults.
func pageParams(c echo.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func invalidUUID(field string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid " + field,
		Code:  "INVALID_UUID",
	})
}
