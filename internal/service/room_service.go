package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/cache"
	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

const roomCacheTTL = 5 * time.Minute

// RoomService handles room operations.
type RoomService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context, page, limit int) ([]model.Room, int64, error)
	Create(ctx context.Context, room *model.Room) error
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	SeedRooms(ctx context.Context, rooms []model.Room) (int, error)
}

type roomService struct {
	repo  repository.RoomRepository
	cache *cache.Client
}

// NewRoomService creates a new room service.
func NewRoomService(repo repository.RoomRepository, cache *cache.Client) RoomService {
	return &roomService{
		repo:  repo,
		cache: cache,
	}
}

func (s *roomService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("room:%s", id.String())
}

// Get retrieves a room by ID with caching.
func (s *roomService) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Room
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(room); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, roomCacheTTL)
	}

	return room, nil
}

// List lists active rooms with pagination.
func (s *roomService) List(ctx context.Context, page, limit int) ([]model.Room, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(ctx, page, limit)
}

// Create persists a new room.
func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	if err := s.repo.Create(ctx, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update persists room changes and invalidates its cache entry.
func (s *roomService) Update(ctx context.Context, room *model.Room) error {
	if err := s.repo.Update(ctx, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(room.ID))
	return nil
}

// Delete removes a room and invalidates its cache entry.
func (s *roomService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// SeedRooms creates or updates rooms from seed data.
func (s *roomService) SeedRooms(ctx context.Context, rooms []model.Room) (int, error) {
	count := 0
	for _, room := range rooms {
		existing, err := s.repo.FindByID(ctx, room.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("seed room %s: %w", room.ID, err)
		}

		if existing != nil {
			existing.Name = room.Name
			existing.PricePerNight = room.PricePerNight
			existing.Capacity = room.Capacity
			existing.Status = room.Status
			existing.Active = room.Active
			if err := s.repo.Update(ctx, existing); err != nil {
				return count, fmt.Errorf("update room %s: %w", room.ID, err)
			}
		} else {
			if err := s.repo.Create(ctx, &room); err != nil {
				return count, fmt.Errorf("create room %s: %w", room.ID, err)
			}
		}

		_ = s.cache.Delete(ctx, s.cacheKey(room.ID))
		count++
	}
	return count, nil
}
