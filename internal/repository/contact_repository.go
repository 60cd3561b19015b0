package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homestay/internal/model"
)

// ContactRepository defines contact message persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context, resolved *bool, page, limit int) ([]model.Contact, int64, error)
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) List(ctx context.Context, resolved *bool, page, limit int) ([]model.Contact, int64, error) {
	var contacts []model.Contact
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Contact{})
	if resolved != nil {
		q = q.Where("resolved = ?", *resolved)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *contactRepository) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error {
	return r.db.WithContext(ctx).Model(&model.Contact{}).
		Where("id = ?", id).
		Update("resolved", resolved).Error
}
