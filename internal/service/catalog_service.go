package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// CatalogService manages the add-on services offered to guests.
type CatalogService interface {
	ListActive(ctx context.Context) ([]model.HomestayService, error)
	Get(ctx context.Context, id uuid.UUID) (*model.HomestayService, error)
	Create(ctx context.Context, svc *model.HomestayService) error
	Update(ctx context.Context, svc *model.HomestayService) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	services repository.ServiceRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(services repository.ServiceRepository) CatalogService {
	return &catalogService{services: services}
}

func (s *catalogService) ListActive(ctx context.Context) ([]model.HomestayService, error) {
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.HomestayService, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Create(ctx context.Context, svc *model.HomestayService) error {
	if err := s.services.Create(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (s *catalogService) Update(ctx context.Context, svc *model.HomestayService) error {
	if _, err := s.Get(ctx, svc.ID); err != nil {
		return err
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}
