// Package middleware holds the route guards. Requests pass through two
// decision points before protected handlers run: Session (is there a valid,
// live, active login) and RequireRoles (does that login hold an allowed role).
package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"homestay/internal/auth"
	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// ContextUserKey is the echo context key holding the authenticated *model.User.
const ContextUserKey = "current_user"

// JWT returns the token-verification middleware. It only checks the
// signature and expiry; LoadUser does the liveness and account checks.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
}

// LoadUser resolves the verified token to a live user. Precedence mirrors the
// session invariant: a revoked token is unauthenticated (401), an inactive
// account is a distinct forbidden state (403) so clients don't bounce back to
// the login page in a loop.
func LoadUser(store auth.SessionStoreInterface, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unauthorized("missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.ID == "" {
				return unauthorized("invalid token claims")
			}

			ctx := c.Request().Context()

			if revoked, _ := store.IsAccessTokenBlacklisted(ctx, claims.ID); revoked {
				return unauthorized("token revoked")
			}

			// Session blob first; fall back to the database when Redis is
			// cold. Both paths yield a token+user pair or nothing.
			user, err := store.GetSession(ctx, claims.ID)
			if err != nil {
				user, err = users.FindByID(ctx, claims.UserID)
				if err != nil {
					return unauthorized("unknown user")
				}
			}

			if !user.IsActive {
				httpErr := errors.MapErrorToHTTP(errors.ErrAccountInactive)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// RequireRoles allows the request only when the current user's role is in the
// allowed set. The check is fail-closed: an empty set denies everyone, and a
// role outside the closed enum never matches.
func RequireRoles(allowed ...model.Role) echo.MiddlewareFunc {
	allowedSet := make(map[model.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthorized("authentication required")
			}

			if !user.Role.Valid() {
				return forbidden()
			}
			if _, ok := allowedSet[user.Role]; !ok {
				return forbidden()
			}
			return next(c)
		}
	}
}

// OptionalSession resolves a bearer token to a user when one is present and
// valid, and otherwise continues anonymously. Used on public routes that
// attribute behavior (search history) to logged-in callers.
func OptionalSession(jwtService *auth.JWTService, store auth.SessionStoreInterface, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
				return next(c)
			}

			claims, err := jwtService.ValidateToken(header[len(prefix):])
			if err != nil || claims.ID == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			if revoked, _ := store.IsAccessTokenBlacklisted(ctx, claims.ID); revoked {
				return next(c)
			}

			user, err := store.GetSession(ctx, claims.ID)
			if err != nil {
				user, err = users.FindByID(ctx, claims.UserID)
				if err != nil {
					return next(c)
				}
			}
			if user.IsActive {
				c.Set(ContextUserKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user set by LoadUser.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func forbidden() *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(errors.ErrForbidden)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
