// Package client is the Go SDK for the homestay booking API. It wraps the
// REST endpoints with typed methods and implements the client-side session,
// search, and booking-submission state machines on top of them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	retryBaseBackoff  = 250 * time.Millisecond
)

// Client is the homestay API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger

	tokenMu sync.RWMutex
	token   string
}

// New creates a new API client.
// It reads configuration from HOMESTAY_* environment variables by default.
// Options can be used to override the defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    os.Getenv("HOMESTAY_API_URL"),
		timeout:    parseDurationEnv("HOMESTAY_TIMEOUT", defaultTimeout),
		maxRetries: defaultMaxRetries,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenMu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the current bearer token, or "" when unauthenticated.
func (c *Client) Token() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

// Auth endpoints.

// Register creates a customer account and logs it in.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the token pair. The server treats unknown tokens as already
// logged out, so repeated calls succeed.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	body := map[string]string{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil)
}

// Me returns the profile behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LookupAccount finds an account by national ID number and returns profile
// fields plus a one-shot password reset token.
func (c *Client) LookupAccount(ctx context.Context, idNumber string) (*LookupAccountResponse, error) {
	body := map[string]string{"id_number": idNumber}
	var resp LookupAccountResponse
	if err := c.do(ctx, http.MethodPost, "/auth/lookup-account", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", nil, body, nil)
}

// Room endpoints.

// ListRooms returns a page of active rooms.
func (c *Client) ListRooms(ctx context.Context, page, limit int) (*RoomList, error) {
	var list RoomList
	if err := c.do(ctx, http.MethodGet, "/rooms", pageQuery(page, limit), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRoom returns one room by ID.
func (c *Client) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(id), nil, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Review endpoints.

// ListReviews returns a page of reviews for a room.
func (c *Client) ListReviews(ctx context.Context, roomID string, page, limit int) (*ReviewList, error) {
	var list ReviewList
	path := "/rooms/" + url.PathEscape(roomID) + "/reviews"
	if err := c.do(ctx, http.MethodGet, path, pageQuery(page, limit), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateReview posts a review for a room. Requires authentication.
func (c *Client) CreateReview(ctx context.Context, roomID string, rating int, comment string) (*Review, error) {
	body := map[string]any{"rating": rating, "comment": comment}
	var review Review
	path := "/rooms/" + url.PathEscape(roomID) + "/reviews"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Search endpoints.

// SearchRooms runs a room search with the given parameters.
func (c *Client) SearchRooms(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := url.Values{}
	setIfNonEmpty(query, "q", params.Query)
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	setIfNonEmpty(query, "sort_by", params.SortBy)
	setIfNonEmpty(query, "sort_order", params.SortOrder)
	setIfNonEmpty(query, "min_price", params.MinPrice)
	setIfNonEmpty(query, "max_price", params.MaxPrice)
	if params.Capacity > 0 {
		query.Set("capacity", strconv.Itoa(params.Capacity))
	}
	setIfNonEmpty(query, "room_type", params.RoomType)

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/search/rooms", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Suggestions returns room name completions for a query prefix.
func (c *Client) Suggestions(ctx context.Context, q string, limit int) ([]string, error) {
	query := url.Values{"q": {q}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodGet, "/search/suggestions", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// SearchHistory returns the server-side search history of the current user.
func (c *Client) SearchHistory(ctx context.Context) ([]string, error) {
	var resp struct {
		History []string `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/search/history", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Booking endpoints.

// CreateBooking submits a booking. Never retried: a timeout after submission
// could otherwise create a duplicate reservation.
func (c *Client) CreateBooking(ctx context.Context, draft BookingDraft) (*BookingConfirmation, error) {
	var resp BookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBooking returns one booking by ID.
func (c *Client) GetBooking(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListMyBookings returns a page of the current user's bookings.
func (c *Client) ListMyBookings(ctx context.Context, page, limit int) (*BookingList, error) {
	var list BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings", pageQuery(page, limit), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelBooking cancels one of the current user's bookings.
func (c *Client) CancelBooking(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	path := "/bookings/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Misc endpoints.

// ListServices returns the active add-on services.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var resp struct {
		Services []Service `json:"services"`
	}
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

// SubmitContact sends a contact form message.
func (c *Client) SubmitContact(ctx context.Context, input ContactInput) error {
	return c.do(ctx, http.MethodPost, "/contacts", nil, input, nil)
}

// do performs one logical API call. GET requests are retried up to maxRetries
// times with doubling backoff on transport failures and 5xx responses; all
// other methods are sent exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts = c.maxRetries + 1
	}

	backoff := retryBaseBackoff
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"method", method,
				"path", path,
				"attempt", attempt,
			)
			select {
			case <-ctx.Done():
				return &NetworkError{Cause: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = c.doOnce(ctx, method, path, query, body, result)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// retryable reports whether the failure is transient: a transport error or a
// server-side 5xx. Client errors (4xx) are final.
func retryable(err error) bool {
	switch err.(type) {
	case *NetworkError, *ServerError:
		return true
	}
	return false
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, result any) error {
	u := strings.TrimRight(c.baseURL, "/") + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &NetworkError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &NetworkError{Cause: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return decodeError(httpResp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// apiError is the wire shape of an error response. The server wraps its
// structured payload in echo's "message" envelope; plain-string messages also
// occur for bind and validation failures.
type apiError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func decodeError(status int, body []byte) error {
	var payload apiError

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Message) > 0 {
		if err := json.Unmarshal(envelope.Message, &payload); err != nil {
			var s string
			if json.Unmarshal(envelope.Message, &s) == nil {
				payload.Error = s
			}
		}
	}
	if payload.Error == "" && payload.Message != "" {
		payload.Error = payload.Message
	}
	if payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
	}
	if payload.Error == "" {
		payload.Error = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest:
		return &ValidationError{Field: payload.Field, Message: payload.Error}
	case status == http.StatusUnauthorized:
		return &AuthError{Code: payload.Code, Message: payload.Error}
	case status == http.StatusForbidden:
		return &ForbiddenError{Code: payload.Code, Message: payload.Error}
	case status == http.StatusNotFound:
		return &NotFoundError{Code: payload.Code, Message: payload.Error}
	case status == http.StatusConflict:
		return &ConflictError{Code: payload.Code, Message: payload.Error}
	case status >= 500:
		return &ServerError{StatusCode: status, Message: payload.Error}
	default:
		return &ServerError{StatusCode: status, Message: payload.Error}
	}
}

func pageQuery(page, limit int) url.Values {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

func setIfNonEmpty(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func parseDurationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultVal
}
