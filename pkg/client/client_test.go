package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_GetRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"pagination":{"page":1,"total_pages":0,"total":0}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetries(3))
	list, err := c.ListRooms(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.NotNil(t, list)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetries(2))
	_, err := c.ListRooms(context.Background(), 1, 10)

	var serverErr *ServerError
	assert.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_MutationsAreNeverRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetries(3))
	_, err := c.Login(context.Background(), "admin@homestay.com", "password123")

	var serverErr *ServerError
	assert.ErrorAs(t, err, &serverErr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_GetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":{"error":"room not found","code":"ROOM_NOT_FOUND"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetries(3))
	_, err := c.GetRoom(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NetworkErrorOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(WithBaseURL(srv.URL), WithMaxRetries(0))
	_, err := c.Me(context.Background())

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestClient_ErrorDecoding(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(*testing.T, error)
	}{
		{
			name:   "401 with structured envelope",
			status: http.StatusUnauthorized,
			body:   `{"message":{"error":"token revoked","code":"UNAUTHORIZED"}}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				assert.ErrorAs(t, err, &authErr)
				assert.Equal(t, "UNAUTHORIZED", authErr.Code)
				assert.Equal(t, "token revoked", authErr.Message)
				assert.ErrorIs(t, err, ErrUnauthenticated)
			},
		},
		{
			name:   "403 inactive account is distinguishable",
			status: http.StatusForbidden,
			body:   `{"message":{"error":"account is deactivated","code":"ACCOUNT_INACTIVE"}}`,
			check: func(t *testing.T, err error) {
				var forbiddenErr *ForbiddenError
				assert.ErrorAs(t, err, &forbiddenErr)
				assert.True(t, forbiddenErr.AccountInactive())
			},
		},
		{
			name:   "400 carries the field name",
			status: http.StatusBadRequest,
			body:   `{"message":{"error":"invalid check_in date","code":"INVALID_DATE","field":"check_in"}}`,
			check: func(t *testing.T, err error) {
				var valErr *ValidationError
				assert.ErrorAs(t, err, &valErr)
				assert.Equal(t, "check_in", valErr.Field)
			},
		},
		{
			name:   "plain string message",
			status: http.StatusBadRequest,
			body:   `{"message":"invalid request body"}`,
			check: func(t *testing.T, err error) {
				var valErr *ValidationError
				assert.ErrorAs(t, err, &valErr)
				assert.Equal(t, "invalid request body", valErr.Message)
			},
		},
		{
			name:   "409 conflict",
			status: http.StatusConflict,
			body:   `{"message":{"error":"email already registered","code":"EMAIL_EXISTS"}}`,
			check: func(t *testing.T, err error) {
				var conflictErr *ConflictError
				assert.ErrorAs(t, err, &conflictErr)
				assert.Equal(t, "EMAIL_EXISTS", conflictErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeError(tt.status, []byte(tt.body))
			tt.check(t, err)
		})
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","email":"admin@homestay.com"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	c.SetToken("abc123")
	_, err := c.Me(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)

	c.ClearToken()
	_, err = c.Me(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, gotAuth)
}
