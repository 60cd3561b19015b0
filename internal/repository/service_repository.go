package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/model"
)

// ServiceRepository defines persistence for homestay add-on services.
type ServiceRepository interface {
	Create(ctx context.Context, svc *model.HomestayService) error
	Update(ctx context.Context, svc *model.HomestayService) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HomestayService, error)
	ListActive(ctx context.Context) ([]model.HomestayService, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, svc *model.HomestayService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.HomestayService) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.HomestayService{}, "id = ?", id).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.HomestayService, error) {
	var svc model.HomestayService
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]model.HomestayService, error) {
	var services []model.HomestayService
	if err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
