package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sessionTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":{"error":"invalid email or password","code":"INVALID_CREDENTIALS"}}`))
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{
			AccessToken:  "valid-token",
			RefreshToken: "refresh-token",
			User:         &User{ID: "u1", Email: body["email"], FullName: "Admin", Role: "admin", IsActive: true},
		})
	})

	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":{"error":"token revoked","code":"UNAUTHORIZED"}}`))
			return
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "admin@homestay.com", FullName: "Admin Renamed", Role: "admin", IsActive: true})
	})

	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "logged out successfully"})
	})

	return httptest.NewServer(mux)
}

func TestSessionManager_RestoreWithoutStoredSession(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	m := NewSessionManager(New(WithBaseURL(srv.URL)), NewMemoryStorage())
	assert.Equal(t, StateInit, m.State())

	state := m.Restore(context.Background())
	assert.Equal(t, StateUnauthenticated, state)
	assert.False(t, m.RetryLater())
	_, ok := m.CurrentUser()
	assert.False(t, ok)
}

func TestSessionManager_RestoreValidSession(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	storage := NewMemoryStorage()
	storage.SetSession("valid-token", &User{ID: "u1", Email: "admin@homestay.com", FullName: "Admin"})

	m := NewSessionManager(New(WithBaseURL(srv.URL)), storage)
	state := m.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	user, ok := m.CurrentUser()
	assert.True(t, ok)
	// The server's copy of the profile wins over the stale stored one.
	assert.Equal(t, "Admin Renamed", user.FullName)

	_, stored, err := storage.GetSession()
	assert.NoError(t, err)
	assert.Equal(t, "Admin Renamed", stored.FullName)
}

func TestSessionManager_RestoreDeadTokenClearsStorage(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	storage := NewMemoryStorage()
	storage.SetSession("revoked-token", &User{ID: "u1", Email: "admin@homestay.com"})

	m := NewSessionManager(New(WithBaseURL(srv.URL)), storage)
	state := m.Restore(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.False(t, m.RetryLater())

	token, user, err := storage.GetSession()
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestSessionManager_RestoreNetworkFailureKeepsStorage(t *testing.T) {
	srv := sessionTestServer(t)
	srv.Close()

	storage := NewMemoryStorage()
	storage.SetSession("valid-token", &User{ID: "u1", Email: "admin@homestay.com"})

	m := NewSessionManager(New(WithBaseURL(srv.URL), WithMaxRetries(0)), storage)
	state := m.Restore(context.Background())

	assert.Equal(t, StateUnauthenticated, state)
	assert.True(t, m.RetryLater())

	// The session survives: a later restore with the network back may succeed.
	token, user, err := storage.GetSession()
	assert.NoError(t, err)
	assert.Equal(t, "valid-token", token)
	assert.NotNil(t, user)
}

func TestSessionManager_LoginPersistsSessionAtomically(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	storage := NewMemoryStorage()
	c := New(WithBaseURL(srv.URL))
	m := NewSessionManager(c, storage)

	result := m.Login(context.Background(), "admin@homestay.com", "password123")
	assert.True(t, result.OK)
	assert.NotNil(t, result.User)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "valid-token", c.Token())

	token, user, err := storage.GetSession()
	assert.NoError(t, err)
	assert.Equal(t, "valid-token", token)
	assert.Equal(t, "admin@homestay.com", user.Email)
}

func TestSessionManager_LoginFailureReportsNotPanics(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	m := NewSessionManager(New(WithBaseURL(srv.URL)), NewMemoryStorage())
	result := m.Login(context.Background(), "admin@homestay.com", "wrong")

	assert.False(t, result.OK)
	var authErr *AuthError
	assert.ErrorAs(t, result.Err, &authErr)
	assert.Equal(t, StateInit, m.State())
}

func TestSessionManager_LogoutIsIdempotent(t *testing.T) {
	srv := sessionTestServer(t)
	defer srv.Close()

	storage := NewMemoryStorage()
	c := New(WithBaseURL(srv.URL))
	m := NewSessionManager(c, storage)

	result := m.Login(context.Background(), "admin@homestay.com", "password123")
	assert.True(t, result.OK)

	m.Logout(context.Background())
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Empty(t, c.Token())
	token, user, _ := storage.GetSession()
	assert.Empty(t, token)
	assert.Nil(t, user)

	// Logging out again is a no-op, not an error.
	m.Logout(context.Background())
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestSessionManager_LogoutWorksOffline(t *testing.T) {
	srv := sessionTestServer(t)

	storage := NewMemoryStorage()
	c := New(WithBaseURL(srv.URL))
	m := NewSessionManager(c, storage)
	assert.True(t, m.Login(context.Background(), "admin@homestay.com", "password123").OK)

	// Network goes away; local logout must still complete.
	srv.Close()
	m.Logout(context.Background())

	assert.Equal(t, StateUnauthenticated, m.State())
	token, _, _ := storage.GetSession()
	assert.Empty(t, token)
}
