package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"homestay/internal/errors"
	"homestay/internal/middleware"
	"homestay/internal/service"
)

// ReviewHandler handles room review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest represents a review submission.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewListResponse is the paginated review envelope.
type ReviewListResponse struct {
	Reviews    interface{}        `json:"reviews"`
	Pagination service.Pagination `json:"pagination"`
}

// ListByRoom godoc
// @Summary List reviews for a room
// @Tags reviews
// @Produce json
// @Param id path string true "Room ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ReviewListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /rooms/{id}/reviews [get]
func (h *ReviewHandler) ListByRoom(c echo.Context) error {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	page, limit := pageParams(c, 10)
	reviews, pagination, err := h.reviewService.ListByRoom(c.Request().Context(), roomID, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ReviewListResponse{
		Reviews:    reviews,
		Pagination: pagination,
	})
}

// Create godoc
// @Summary Review a room
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body CreateReviewRequest true "Review data"
// @Success 201 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rooms/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.Create(c.Request().Context(), user.ID, roomID, req.Rating, req.Comment)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, review)
}
