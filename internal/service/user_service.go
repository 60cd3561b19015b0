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

// UserService exposes the admin-facing account management operations.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, page, limit int) ([]model.User, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// SetActive flips the account's active flag. Deactivation takes effect on the
// next guarded request because the guard re-checks IsActive, not at token
// issuance time.
func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
