package main

import (
	"log"
	"net/http"
	"os"

	_ "homestay/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"homestay/internal/auth"
	"homestay/internal/cache"
	"homestay/internal/config"
	"homestay/internal/db"
	"homestay/internal/handler"
	"homestay/internal/model"
	"homestay/internal/repository"
	"homestay/internal/router"
	"homestay/internal/service"
)

// @title Homestay Booking API
// @version 1.0
// @description Homestay booking API with rooms, search, bookings, reviews, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.SearchLog{},
			&model.Review{},
			&model.Booking{},
			&model.Contact{},
			&model.HomestayService{},
			&model.Room{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Booking{},
		&model.Review{},
		&model.HomestayService{},
		&model.Contact{},
		&model.SearchLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roomRepo := repository.NewRoomRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	serviceRepo := repository.NewServiceRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	searchLogRepo := repository.NewSearchLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, sessionStore)
	roomService := service.NewRoomService(roomRepo, cacheClient)
	bookingService := service.NewBookingService(bookingRepo, roomRepo, cacheClient)
	searchService := service.NewSearchService(roomRepo, searchLogRepo, sessionStore)
	defer searchService.Close()
	reviewService := service.NewReviewService(reviewRepo, roomRepo)
	contactService := service.NewContactService(contactRepo)
	catalogService := service.NewCatalogService(serviceRepo)
	userService := service.NewUserService(userRepo)

	// Register routes
	router.Register(e, router.Deps{
		Config:     cfg,
		JWTService: jwtService,
		Sessions:   sessionStore,
		Users:      userRepo,

		Auth:     handler.NewAuthHandler(authService),
		Rooms:    handler.NewRoomHandler(roomService),
		Bookings: handler.NewBookingHandler(bookingService),
		Search:   handler.NewSearchHandler(searchService, cfg.EnableSuggestions),
		Reviews:  handler.NewReviewHandler(reviewService),
		Contacts: handler.NewContactHandler(contactService),
		Services: handler.NewServiceHandler(catalogService),
		Accounts: handler.NewUserHandler(userService),
	})

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
