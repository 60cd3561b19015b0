package main

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homestay/internal/cache"
	"homestay/internal/config"
	"homestay/internal/db"
	"homestay/internal/model"
	"homestay/internal/repository"
	"homestay/internal/service"
)

type seedUser struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Role     model.Role
}

var seedUsers = []seedUser{
	{FullName: "Admin", Email: "admin@homestay.com", Password: "password123", Phone: "0901234567", Role: model.RoleAdmin},
	{FullName: "Front Desk", Email: "staff@homestay.com", Password: "password123", Phone: "0901234568", Role: model.RoleStaff},
}

var seedRooms = []model.Room{
	{
		ID:            uuid.MustParse("5f4a1e1a-0001-4c6e-9a43-000000000001"),
		RoomNumber:    "101",
		Name:          "Phòng đơn tiêu chuẩn",
		RoomType:      "single",
		Description:   "Standard single room with a garden view.",
		PricePerNight: decimal.NewFromInt(350000),
		Capacity:      1,
		Floor:         "1",
		Amenities:     "wifi,air conditioning,hot water",
		Status:        model.RoomStatusAvailable,
		Active:        true,
	},
	{
		ID:            uuid.MustParse("5f4a1e1a-0001-4c6e-9a43-000000000002"),
		RoomNumber:    "102",
		Name:          "Phòng đôi",
		RoomType:      "double",
		Description:   "Double room with a balcony facing the lake.",
		PricePerNight: decimal.NewFromInt(550000),
		Capacity:      2,
		Floor:         "1",
		Amenities:     "wifi,air conditioning,hot water,balcony",
		Status:        model.RoomStatusAvailable,
		Active:        true,
	},
	{
		ID:            uuid.MustParse("5f4a1e1a-0001-4c6e-9a43-000000000003"),
		RoomNumber:    "201",
		Name:          "Phòng gia đình",
		RoomType:      "family",
		Description:   "Family room for up to four guests.",
		PricePerNight: decimal.NewFromInt(850000),
		Capacity:      4,
		Floor:         "2",
		Amenities:     "wifi,air conditioning,hot water,kitchenette",
		Status:        model.RoomStatusAvailable,
		Active:        true,
	},
}

var seedServices = []model.HomestayService{
	{Name: "Breakfast", Description: "Vietnamese breakfast served 7-9am.", Price: decimal.NewFromInt(50000), Active: true},
	{Name: "Airport pickup", Description: "Pickup from Noi Bai airport.", Price: decimal.NewFromInt(350000), Active: true},
	{Name: "Laundry", Description: "Per kilogram, same-day.", Price: decimal.NewFromInt(30000), Active: true},
	{Name: "Motorbike rental", Description: "Per day, helmet included.", Price: decimal.NewFromInt(120000), Active: true},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

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

	userRepo := repository.NewUserRepository(gormDB)
	roomRepo := repository.NewRoomRepository(gormDB)
	serviceRepo := repository.NewServiceRepository(gormDB)
	roomService := service.NewRoomService(roomRepo, cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB))

	for _, su := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, su.Email); err == nil {
			log.Printf("user %s already exists, skipping", su.Email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("lookup user %s: %v", su.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		user := &model.User{
			FullName:     su.FullName,
			Email:        su.Email,
			PasswordHash: string(hash),
			Phone:        su.Phone,
			Role:         su.Role,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("create user %s: %v", su.Email, err)
		}
		log.Printf("created %s user %s", su.Role, su.Email)
	}

	count, err := roomService.SeedRooms(ctx, seedRooms)
	if err != nil {
		log.Fatalf("seed rooms: %v", err)
	}
	log.Printf("seeded %d rooms", count)

	for i := range seedServices {
		svc := seedServices[i]
		if err := serviceRepo.Create(ctx, &svc); err != nil {
			log.Printf("service %q not created (may already exist): %v", svc.Name, err)
			continue
		}
		log.Printf("created service %q", svc.Name)
	}

	log.Println("seed complete")
}
