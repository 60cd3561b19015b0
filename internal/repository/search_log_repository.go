package repository

import (
	"context"

	"gorm.io/gorm"

	"homestay/internal/model"
)

// SearchLogRepository defines search log persistence operations.
type SearchLogRepository interface {
	Create(ctx context.Context, log *model.SearchLog) error
	CreateBatch(ctx context.Context, logs []model.SearchLog) error
}

type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository creates a new search log repository.
func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

func (r *searchLogRepository) Create(ctx context.Context, log *model.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *searchLogRepository) CreateBatch(ctx context.Context, logs []model.SearchLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}
