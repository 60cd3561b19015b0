package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/service"
)

// ServiceHandler handles the homestay add-on service endpoints.
type ServiceHandler struct {
	catalog service.CatalogService
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(catalog service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ServiceRequest represents an add-on service create or update.
type ServiceRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Active      *bool  `json:"active"`
}

// ServicesResponse wraps the public service listing.
type ServicesResponse struct {
	Services []model.HomestayService `json:"services"`
}

// ListActive godoc
// @Summary List active add-on services
// @Tags services
// @Produce json
// @Success 200 {object} ServicesResponse
// @Router /services [get]
func (h *ServiceHandler) ListActive(c echo.Context) error {
	services, err := h.catalog.ListActive(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ServicesResponse{Services: services})
}

// Create godoc
// @Summary Create an add-on service
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ServiceRequest true "Service data"
// @Success 201 {object} model.HomestayService
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	svc, httpErr := h.bindService(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.catalog.Create(c.Request().Context(), svc); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update godoc
// @Summary Update an add-on service
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body ServiceRequest true "Service data"
// @Success 200 {object} model.HomestayService
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	svc, httpErr := h.bindService(c)
	if httpErr != nil {
		return httpErr
	}
	svc.ID = id

	if err := h.catalog.Update(c.Request().Context(), svc); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete godoc
// @Summary Delete an add-on service
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidUUID("id")
	}

	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *ServiceHandler) bindService(c echo.Context) (*model.HomestayService, *echo.HTTPError) {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "VALIDATION_ERROR",
			Field: "price",
		})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &model.HomestayService{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Active:      active,
	}, nil
}
