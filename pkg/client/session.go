package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the session lifecycle state.
type State string

const (
	// StateInit is the state before the first Restore.
	StateInit State = "init"
	// StateLoading means a restore is in progress. Guarded UIs should hold
	// rendering rather than redirect while in this state.
	StateLoading State = "loading"
	// StateAuthenticated means a validated session is active.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated means there is no usable session.
	StateUnauthenticated State = "unauthenticated"
)

// LoginResult is the outcome of a login or register attempt. Failures are
// reported here, never panicked.
type LoginResult struct {
	OK   bool
	User *User
	Err  error
}

// SessionManager drives the session lifecycle: restoring a persisted session
// at startup, logging in and out, and exposing a consistent view of the
// current user. Safe for concurrent use. When restores overlap, only the most
// recently started one applies its result.
type SessionManager struct {
	client  *Client
	storage Storage
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	user       *User
	token      string
	generation uint64
	retryLater bool
}

// NewSessionManager creates a session manager over the client and storage.
func NewSessionManager(c *Client, storage Storage) *SessionManager {
	return &SessionManager{
		client:  c,
		storage: storage,
		logger:  c.logger,
		state:   StateInit,
	}
}

// State returns the current lifecycle state.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or (nil, false) otherwise.
// The session view is consistent: a non-empty token always comes with a user.
func (m *SessionManager) CurrentUser() (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.user == nil {
		return nil, false
	}
	return m.user, true
}

// RetryLater reports whether the last restore failed for transport reasons.
// The persisted session is still on disk and a later Restore may succeed.
func (m *SessionManager) RetryLater() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retryLater
}

// Restore validates a persisted session against the server. A 401 means the
// token is dead: storage is cleared. A transport failure leaves storage
// untouched and sets the RetryLater flag. Concurrent restores race safely:
// a stale restore never overwrites the result of a newer one.
func (m *SessionManager) Restore(ctx context.Context) State {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.state = StateLoading
	m.retryLater = false
	m.mu.Unlock()

	token, user, err := m.storage.GetSession()
	if err != nil || token == "" || user == nil {
		if err != nil {
			m.logger.Warn("session storage read failed", "error", err)
		}
		return m.apply(gen, StateUnauthenticated, nil, "", false)
	}

	m.client.SetToken(token)
	fresh, err := m.client.Me(ctx)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			// Dead token. Clear it so the next start doesn't retry it.
			if clearErr := m.storage.ClearSession(); clearErr != nil {
				m.logger.Warn("failed to clear session storage", "error", clearErr)
			}
			m.client.ClearToken()
			return m.apply(gen, StateUnauthenticated, nil, "", false)
		}

		var forbiddenErr *ForbiddenError
		if errors.As(err, &forbiddenErr) {
			// Account deactivated while logged out. The token is valid but
			// unusable; drop the session.
			if clearErr := m.storage.ClearSession(); clearErr != nil {
				m.logger.Warn("failed to clear session storage", "error", clearErr)
			}
			m.client.ClearToken()
			return m.apply(gen, StateUnauthenticated, nil, "", false)
		}

		// Transport failure: can't tell whether the session is good.
		// Keep storage so a later restore can try again.
		m.logger.Warn("session restore failed, will retry later", "error", err)
		m.client.ClearToken()
		return m.apply(gen, StateUnauthenticated, nil, "", true)
	}

	// Refresh the persisted profile; the server copy wins.
	if err := m.storage.SetSession(token, fresh); err != nil {
		m.logger.Warn("failed to persist refreshed session", "error", err)
	}
	return m.apply(gen, StateAuthenticated, fresh, token, false)
}

// apply installs a restore result unless a newer restore or login has started.
func (m *SessionManager) apply(gen uint64, state State, user *User, token string, retryLater bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return m.state
	}
	m.state = state
	m.user = user
	m.token = token
	m.retryLater = retryLater
	return state
}

// Login authenticates and persists the session. The token and user land in
// storage in a single write.
func (m *SessionManager) Login(ctx context.Context, email, password string) LoginResult {
	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		return LoginResult{Err: err}
	}
	return m.establish(resp)
}

// Register creates an account and, like Login, establishes the session.
func (m *SessionManager) Register(ctx context.Context, input RegisterInput) LoginResult {
	resp, err := m.client.Register(ctx, input)
	if err != nil {
		return LoginResult{Err: err}
	}
	return m.establish(resp)
}

func (m *SessionManager) establish(resp *AuthResponse) LoginResult {
	if resp.AccessToken == "" || resp.User == nil {
		return LoginResult{Err: &ServerError{StatusCode: 200, Message: "incomplete auth response"}}
	}

	if err := m.storage.SetSession(resp.AccessToken, resp.User); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
	m.client.SetToken(resp.AccessToken)

	m.mu.Lock()
	m.generation++
	m.state = StateAuthenticated
	m.user = resp.User
	m.token = resp.AccessToken
	m.retryLater = false
	m.mu.Unlock()

	return LoginResult{OK: true, User: resp.User}
}

// Logout ends the session. Local state and storage are cleared synchronously
// before the server call, so the caller is logged out even when the network
// is down. Safe to call repeatedly.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	token := m.token
	m.state = StateUnauthenticated
	m.user = nil
	m.token = ""
	m.retryLater = false
	m.mu.Unlock()

	if err := m.storage.ClearSession(); err != nil {
		m.logger.Warn("failed to clear session storage", "error", err)
	}
	m.client.ClearToken()

	if token == "" {
		return
	}
	// Best-effort server-side revocation.
	if err := m.client.Logout(ctx, token, ""); err != nil {
		m.logger.Warn("server logout failed", "error", err)
	}
}

// ResetPassword consumes a one-shot reset token. The two failure kinds stay
// distinguishable: an invalid or replayed token surfaces as *AuthError, a
// rejected password as *ValidationError.
func (m *SessionManager) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.client.ResetPassword(ctx, token, newPassword)
}
