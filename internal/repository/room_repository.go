package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"homestay/internal/model"
)

// RoomSearchParams carries the full search query state. Zero values mean
// "not filtered"; pointers distinguish "absent" from legitimate zeroes.
type RoomSearchParams struct {
	Query     string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Capacity  *int
	RoomType  string
}

// sortColumns whitelists sortable columns; anything else falls back to
// created_at so raw query params never reach the ORDER BY clause.
var sortColumns = map[string]string{
	"price":      "price_per_night",
	"capacity":   "capacity",
	"name":       "name",
	"created_at": "created_at",
}

// OrderClause resolves the whitelisted ORDER BY clause for the params.
func (p RoomSearchParams) OrderClause() string {
	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if p.SortOrder == "desc" {
		dir = "DESC"
	}
	return col + " " + dir
}

// RoomRepository defines room persistence operations.
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	List(ctx context.Context, page, limit int) ([]model.Room, int64, error)
	Search(ctx context.Context, params RoomSearchParams) ([]model.Room, int64, error)
	Suggestions(ctx context.Context, prefix string, limit int) ([]string, error)
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Room{}, "id = ?", id).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context, page, limit int) ([]model.Room, int64, error) {
	var rooms []model.Room
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Room{}).Where("active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("room_number ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// Search applies text query, filters, whitelisted sort, and pagination.
func (r *roomRepository) Search(ctx context.Context, params RoomSearchParams) ([]model.Room, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Room{}).Where("active = ?", true)

	if params.Query != "" {
		like := "%" + params.Query + "%"
		q = q.Where("name LIKE ? OR room_type LIKE ? OR description LIKE ?", like, like, like)
	}
	if params.MinPrice != nil {
		q = q.Where("price_per_night >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		q = q.Where("price_per_night <= ?", *params.MaxPrice)
	}
	if params.Capacity != nil {
		q = q.Where("capacity >= ?", *params.Capacity)
	}
	if params.RoomType != "" {
		q = q.Where("room_type = ?", params.RoomType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []model.Room
	if err := q.Order(params.OrderClause()).
		Offset((params.Page - 1) * params.Limit).Limit(params.Limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// Suggestions returns distinct room names matching the prefix.
func (r *roomRepository) Suggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("active = ? AND name LIKE ?", true, prefix+"%").
		Order("name ASC").
		Limit(limit).
		Distinct().
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
