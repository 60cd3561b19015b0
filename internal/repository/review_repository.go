package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByRoom(ctx context.Context, roomID uuid.UUID, page, limit int) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, page, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("room_id = ?", roomID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("User").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
