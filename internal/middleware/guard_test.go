package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"homestay/internal/model"
)

func newGuardContext(t *testing.T, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(ContextUserKey, user)
	}
	return c, rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []model.Role
		user       *model.User
		wantStatus int
	}{
		{
			name:       "allowed role passes",
			allowed:    []model.Role{model.RoleStaff, model.RoleAdmin},
			user:       &model.User{Role: model.RoleStaff, IsActive: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "customer denied on staff route",
			allowed:    []model.Role{model.RoleStaff, model.RoleAdmin},
			user:       &model.User{Role: model.RoleCustomer, IsActive: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "empty allowed set denies everyone",
			allowed:    nil,
			user:       &model.User{Role: model.RoleAdmin, IsActive: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role outside the enum denied",
			allowed:    []model.Role{model.RoleAdmin},
			user:       &model.User{Role: model.Role("superuser"), IsActive: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing user is unauthorized, not forbidden",
			allowed:    []model.Role{model.RoleAdmin},
			user:       nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newGuardContext(t, tt.user)
			err := RequireRoles(tt.allowed...)(okHandler)(c)

			if tt.wantStatus == http.StatusOK {
				assert.NoError(t, err)
				return
			}
			var httpErr *echo.HTTPError
			assert.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.Code)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	t.Run("returns the user set by the session guard", func(t *testing.T) {
		want := &model.User{Email: "admin@homestay.com", Role: model.RoleAdmin}
		c, _ := newGuardContext(t, want)
		got, ok := CurrentUser(c)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("absent on anonymous requests", func(t *testing.T) {
		c, _ := newGuardContext(t, nil)
		_, ok := CurrentUser(c)
		assert.False(t, ok)
	})
}
