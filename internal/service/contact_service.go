package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"homestay/internal/model"
	"homestay/internal/repository"
)

// ContactService handles contact form messages.
type ContactService interface {
	Submit(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context, resolved *bool, page, limit int) ([]model.Contact, int64, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

// Submit stores a contact form message.
func (s *contactService) Submit(ctx context.Context, contact *model.Contact) error {
	if err := s.repo.Create(ctx, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// List returns contact messages, optionally filtered by resolved state.
func (s *contactService) List(ctx context.Context, resolved *bool, page, limit int) ([]model.Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.repo.List(ctx, resolved, page, limit)
}

// Resolve marks a contact message as handled.
func (s *contactService) Resolve(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetResolved(ctx, id, true); err != nil {
		return fmt.Errorf("resolve contact: %w", err)
	}
	return nil
}
