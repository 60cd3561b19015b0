package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"homestay/internal/auth"
	"homestay/internal/config"
	"homestay/internal/handler"
	"homestay/internal/middleware"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// Deps carries everything Register needs to wire the route table.
type Deps struct {
	Config     *config.Config
	JWTService *auth.JWTService
	Sessions   auth.SessionStoreInterface
	Users      repository.UserRepository

	Auth     *handler.AuthHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
	Search   *handler.SearchHandler
	Reviews  *handler.ReviewHandler
	Contacts *handler.ContactHandler
	Services *handler.ServiceHandler
	Accounts *handler.UserHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/refresh", d.Auth.Refresh)
	api.POST("/auth/logout", d.Auth.Logout)
	api.POST("/auth/lookup-account", d.Auth.LookupAccount)
	api.POST("/auth/reset-password", d.Auth.ResetPassword)

	api.GET("/rooms", d.Rooms.List)
	api.GET("/rooms/:id", d.Rooms.Get)
	api.GET("/rooms/:id/reviews", d.Reviews.ListByRoom)
	api.GET("/services", d.Services.ListActive)
	api.POST("/contacts", d.Contacts.Submit)

	// Search is public but attributes history to a caller with a valid token.
	search := api.Group("/search", middleware.OptionalSession(d.JWTService, d.Sessions, d.Users))
	search.GET("/rooms", d.Search.SearchRooms)
	search.GET("/suggestions", d.Search.Suggestions)

	// Authenticated routes
	authed := api.Group("", middleware.JWT(d.Config.JWTSecret), middleware.LoadUser(d.Sessions, d.Users))
	authed.GET("/auth/me", d.Auth.Me)
	authed.POST("/bookings", d.Bookings.Create)
	authed.GET("/bookings", d.Bookings.ListMine)
	authed.GET("/bookings/:id", d.Bookings.Get)
	authed.POST("/bookings/:id/cancel", d.Bookings.Cancel)
	authed.GET("/search/history", d.Search.History)
	authed.POST("/rooms/:id/reviews", d.Reviews.Create)

	// Staff routes (staff and admin)
	staff := authed.Group("/staff", middleware.RequireRoles(model.RoleStaff, model.RoleAdmin))
	staff.GET("/bookings", d.Bookings.ListAll)
	staff.PUT("/bookings/:id/status", d.Bookings.UpdateStatus)

	// Admin routes
	admin := authed.Group("/admin", middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/rooms", d.Rooms.Create)
	admin.PUT("/rooms/:id", d.Rooms.Update)
	admin.DELETE("/rooms/:id", d.Rooms.Delete)
	admin.POST("/services", d.Services.Create)
	admin.PUT("/services/:id", d.Services.Update)
	admin.DELETE("/services/:id", d.Services.Delete)
	admin.GET("/users", d.Accounts.List)
	admin.PUT("/users/:id/active", d.Accounts.SetActive)
	admin.GET("/contacts", d.Contacts.List)
	admin.POST("/contacts/:id/resolve", d.Contacts.Resolve)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
