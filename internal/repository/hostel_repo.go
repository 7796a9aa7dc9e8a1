package repository

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HostelRepository struct {
	db *gorm.DB
}

func NewHostelRepository(db *gorm.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

func (r *HostelRepository) Create(ctx context.Context, h *models.Hostel) error {
	return conn(ctx, r.db).Create(h).Error
}

func (r *HostelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	return firstOrNil[models.Hostel](conn(ctx, r.db).Where("id = ?", id))
}

func (r *HostelRepository) Update(ctx context.Context, h *models.Hostel) error {
	return conn(ctx, r.db).Save(h).Error
}

// List returns hostels ordered by name, optionally filtered by city.
func (r *HostelRepository) List(ctx context.Context, city string, limit, offset int) ([]models.Hostel, error) {
	q := conn(ctx, r.db).Model(&models.Hostel{})
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var list []models.Hostel
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
