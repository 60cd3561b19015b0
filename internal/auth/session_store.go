package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homestay/internal/cache"
	"homestay/internal/model"
)

const (
	sessionKeyPrefix      = "session:"
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
	resetTokenKeyPrefix   = "reset_token:"
	searchHistoryPrefix   = "search_history:"
)

const (
	// ResetTokenExpiry is how long a password reset token stays usable.
	ResetTokenExpiry = 30 * time.Minute
	// SearchHistoryMax bounds the per-user search history.
	SearchHistoryMax = 10
)

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	SaveSession(ctx context.Context, tokenID string, user *model.User, ttl time.Duration) error
	GetSession(ctx context.Context, tokenID string) (*model.User, error)
	DeleteSession(ctx context.Context, tokenID string) error

	StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uuid.UUID, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error

	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)

	StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)

	PushSearchHistory(ctx context.Context, userID uuid.UUID, query string) error
	GetSearchHistory(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// SessionStore handles storage and retrieval of session state in Redis.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// sessionBlob is the persisted session record. Token ID and user are always
// written together in a single Set so a reader never observes one without the
// other.
type sessionBlob struct {
	TokenID string      `json:"token_id"`
	User    *model.User `json:"user"`
}

// SaveSession stores the session blob keyed by access token ID.
func (s *SessionStore) SaveSession(ctx context.Context, tokenID string, user *model.User, ttl time.Duration) error {
	payload, err := json.Marshal(sessionBlob{TokenID: tokenID, User: user})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+tokenID, payload, ttl)
}

// GetSession retrieves the session user for an access token ID. Missing or
// malformed sessions return an error; callers fall back to the database.
func (s *SessionStore) GetSession(ctx context.Context, tokenID string) (*model.User, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+tokenID)
	if err != nil || data == nil {
		return nil, fmt.Errorf("session not found")
	}
	var blob sessionBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if blob.TokenID == "" || blob.User == nil {
		return nil, fmt.Errorf("incomplete session")
	}
	return blob.User, nil
}

// DeleteSession removes a session blob.
func (s *SessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+tokenID)
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *SessionStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id": userID.String(),
		"email":   email,
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *SessionStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return uuid.Nil, "", fmt.Errorf("refresh token not found")
	}

	var tokenData map[string]string
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return uuid.Nil, "", fmt.Errorf("unmarshal token data: %w", err)
	}

	userID, err := uuid.Parse(tokenData["user_id"])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid user_id in token data")
	}

	email, ok := tokenData["email"]
	if !ok {
		return uuid.Nil, "", fmt.Errorf("invalid email in token data")
	}

	return userID, email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *SessionStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *SessionStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *SessionStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not blacklisted if error (fail safe)
	}
	return data != nil, nil
}

// StoreResetToken stores a one-shot password reset token.
func (s *SessionStore) StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.cache.Set(ctx, resetTokenKeyPrefix+token, []byte(userID.String()), ttl)
}

// ConsumeResetToken resolves a reset token to a user ID and deletes it, so a
// token can never be replayed.
func (s *SessionStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	key := resetTokenKeyPrefix + token
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return uuid.Nil, fmt.Errorf("reset token not found")
	}
	_ = s.cache.Delete(ctx, key)

	userID, err := uuid.Parse(string(data))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid reset token payload")
	}
	return userID, nil
}

// PushSearchHistory prepends a query to the user's search history. The list is
// de-duplicated (an existing entry moves to the front) and capped at
// SearchHistoryMax entries.
func (s *SessionStore) PushSearchHistory(ctx context.Context, userID uuid.UUID, query string) error {
	history, _ := s.GetSearchHistory(ctx, userID)
	history = PushHistory(history, query)

	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return s.cache.Set(ctx, searchHistoryPrefix+userID.String(), payload, 0)
}

// GetSearchHistory returns the user's search history, most recent first.
func (s *SessionStore) GetSearchHistory(ctx context.Context, userID uuid.UUID) ([]string, error) {
	data, err := s.cache.Get(ctx, searchHistoryPrefix+userID.String())
	if err != nil || data == nil {
		return nil, nil
	}
	var history []string
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, nil
	}
	return history, nil
}

// PushHistory prepends query to history, moving an existing duplicate to the
// front instead of repeating it, and trims the result to SearchHistoryMax.
func PushHistory(history []string, query string) []string {
	if query == "" {
		return history
	}
	out := make([]string, 0, len(history)+1)
	out = append(out, query)
	for _, h := range history {
		if h != query {
			out = append(out, h)
		}
	}
	if len(out) > SearchHistoryMax {
		out = out[:SearchHistoryMax]
	}
	return out
}
