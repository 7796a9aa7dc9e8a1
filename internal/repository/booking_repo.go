package repository

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	return conn(ctx, r.db).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return firstOrNil[models.Booking](conn(ctx, r.db).Where("id = ?", id))
}

func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	return conn(ctx, r.db).Save(b).Error
}
