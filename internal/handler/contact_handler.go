package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/service"
)

// ContactHandler handles contact form endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// Submit godoc
// @Summary Submit a contact message
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact data"
// @Success 201 {object} model.Contact
// @Failure 400 {object} errors.ErrorResponse
// @Router /contacts [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact := &model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.contactService.Submit(c.Request().Context(), contact); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, contact)
}

// List godoc
// @Summary List contact messages
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param resolved query bool false "Filter by resolved state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	page, limit := pageParams(c, 20)

	var resolved *bool
	switch c.QueryParam("resolved") {
	case "true":
		v := true
		resolved = &v
	case "false":
		v := false
		resolved = &v
	}

	contacts, total, err := h.contactService.List(c.Request().Context(), resolved, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: contacts,
		Pagination: service.Pagination{
			Page:       page,
			TotalPages: totalPages(total, limit),
			Total:      total,
		},
	})
}

// Resolve godoc
// @Summary Mark a contact message resolved
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/contacts/{id}/resolve [post]
func (h *ContactHandler) Resolve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	if err := h.contactService.Resolve(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
