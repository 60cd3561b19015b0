package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// ReviewService handles room reviews.
type ReviewService interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID, page, limit int) ([]model.Review, Pagination, error)
	Create(ctx context.Context, userID, roomID uuid.UUID, rating int, comment string) (*model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	roomRepo   repository.RoomRepository
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, roomRepo repository.RoomRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		roomRepo:   roomRepo,
	}
}

// ListByRoom returns a page of reviews for a room, newest first.
func (s *reviewService) ListByRoom(ctx context.Context, roomID uuid.UUID, page, limit int) ([]model.Review, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	reviews, total, err := s.reviewRepo.ListByRoom(ctx, roomID, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	return reviews, Pagination{
		Page:       page,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Total:      total,
	}, nil
}

// Create adds a review for a room.
func (s *reviewService) Create(ctx context.Context, userID, roomID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.NewValidationError("rating", "rating must be between 1 and 5")
	}

	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		return nil, errors.ErrRoomNotFound
	}

	review := &model.Review{
		ID:      uuid.New(),
		RoomID:  roomID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}
