package repository

import (
	"context"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeStructureRepository struct {
	db *gorm.DB
}

func NewFeeStructureRepository(db *gorm.DB) *FeeStructureRepository {
	return &FeeStructureRepository{db: db}
}

func (r *FeeStructureRepository) Create(ctx context.Context, fs *models.FeeStructure) error {
	return conn(ctx, r.db).Create(fs).Error
}

func (r *FeeStructureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeeStructure, error) {
	return firstOrNil[models.FeeStructure](conn(ctx, r.db).Where("id = ?", id))
}

func (r *FeeStructureRepository) Update(ctx context.Context, fs *models.FeeStructure) error {
	return conn(ctx, r.db).Save(fs).Error
}

// ListByHostel returns a hostel's fee structures, newest effective date first.
func (r *FeeStructureRepository) ListByHostel(ctx context.Context, hostelID uuid.UUID, activeOnly bool) ([]models.FeeStructure, error) {
	q := conn(ctx, r.db).Where("hostel_id = ?", hostelID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var list []models.FeeStructure
	err := q.Order("room_type ASC, fee_type ASC, effective_from DESC").Find(&list).Error
	return list, err
}

// FindEffective returns the active structure whose window covers asOf. When
// windows overlap the latest effective_from wins.
func (r *FeeStructureRepository) FindEffective(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType, feeType domain.FeeType, asOf time.Time) (*models.FeeStructure, error) {
	q := conn(ctx, r.db).
		Where("hostel_id = ? AND room_type = ? AND fee_type = ? AND is_active = ?", hostelID, roomType, feeType, true).
		Where("effective_from <= ?", asOf).
		Where("(effective_to IS NULL OR effective_to >= ?)", asOf).
		Order("effective_from DESC, created_at DESC")
	return firstOrNil[models.FeeStructure](q)
}
