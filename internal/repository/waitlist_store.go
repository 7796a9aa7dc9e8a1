package repository

import (
	"context"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLWaitlistStore keeps waitlist entries in the waitlist_entries table.
type SQLWaitlistStore struct {
	db *gorm.DB
}

func NewSQLWaitlistStore(db *gorm.DB) *SQLWaitlistStore {
	return &SQLWaitlistStore{db: db}
}

func (s *SQLWaitlistStore) CreateEntry(ctx context.Context, e *models.WaitlistEntry) error {
	return conn(ctx, s.db).Create(e).Error
}

func (s *SQLWaitlistStore) UpdateEntry(ctx context.Context, e *models.WaitlistEntry) error {
	return conn(ctx, s.db).Save(e).Error
}

func (s *SQLWaitlistStore) GetEntry(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	return firstOrNil[models.WaitlistEntry](conn(ctx, s.db).Where("id = ?", id))
}

// ListForHostelRoomType returns entries in queue order: priority first, then arrival.
func (s *SQLWaitlistStore) ListForHostelRoomType(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType) ([]models.WaitlistEntry, error) {
	var list []models.WaitlistEntry
	err := conn(ctx, s.db).
		Where("hostel_id = ? AND room_type = ?", hostelID, roomType).
		Order("priority DESC, created_at ASC").
		Find(&list).Error
	return list, err
}
