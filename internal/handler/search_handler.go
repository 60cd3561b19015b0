package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"homestay/internal/errors"
	"homestay/internal/middleware"
	"homestay/internal/repository"
	"homestay/internal/service"
)

// SearchHandler handles room search endpoints.
type SearchHandler struct {
	searchService      service.SearchService
	suggestionsEnabled bool
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchService service.SearchService, suggestionsEnabled bool) *SearchHandler {
	return &SearchHandler{
		searchService:      searchService,
		suggestionsEnabled: suggestionsEnabled,
	}
}

// SuggestionsResponse carries name completions for a query prefix.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// HistoryResponse carries the caller's recent search queries.
type HistoryResponse struct {
	History []string `json:"history"`
}

// SearchRooms godoc
// @Summary Search rooms
// @Tags search
// @Produce json
// @Param q query string false "Text query"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort_by query string false "Sort column (price, capacity, name, created_at)"
// @Param sort_order query string false "asc or desc"
// @Param min_price query string false "Minimum nightly price"
// @Param max_price query string false "Maximum nightly price"
// @Param capacity query int false "Minimum capacity"
// @Param room_type query string false "Room type"
// @Success 200 {object} service.SearchResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /search/rooms [get]
func (h *SearchHandler) SearchRooms(c echo.Context) error {
	page, limit := pageParams(c, 10)

	params := repository.RoomSearchParams{
		Query:     c.QueryParam("q"),
		Page:      page,
		Limit:     limit,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		RoomType:  c.QueryParam("room_type"),
	}

	filters := map[string]string{}
	if v := c.QueryParam("min_price"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			params.MinPrice = &price
			filters["min_price"] = v
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			params.MaxPrice = &price
			filters["max_price"] = v
		}
	}
	if v := c.QueryParam("capacity"); v != "" {
		if capacity, err := strconv.Atoi(v); err == nil && capacity > 0 {
			params.Capacity = &capacity
			filters["capacity"] = v
		}
	}
	if params.RoomType != "" {
		filters["room_type"] = params.RoomType
	}

	// History and logging attribute to the user when a session is present,
	// but search itself is public.
	var userID *uuid.UUID
	if user, ok := middleware.CurrentUser(c); ok {
		userID = &user.ID
	}

	result, err := h.searchService.SearchRooms(c.Request().Context(), userID, params, filters)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Suggestions godoc
// @Summary Room name suggestions
// @Tags search
// @Produce json
// @Param q query string true "Query prefix"
// @Param limit query int false "Max suggestions"
// @Success 200 {object} SuggestionsResponse
// @Router /search/suggestions [get]
func (h *SearchHandler) Suggestions(c echo.Context) error {
	if !h.suggestionsEnabled {
		return c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: []string{}})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	suggestions := h.searchService.Suggestions(c.Request().Context(), c.QueryParam("q"), limit)
	return c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// History godoc
// @Summary Recent search queries for the current user
// @Tags search
// @Produce json
// @Security BearerAuth
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /search/history [get]
func (h *SearchHandler) History(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	history, err := h.searchService.History(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, HistoryResponse{History: history})
}
