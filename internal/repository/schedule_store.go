package repository

import (
	"context"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLScheduleStore keeps payment schedules in the payment_schedules table.
type SQLScheduleStore struct {
	db *gorm.DB
}

func NewSQLScheduleStore(db *gorm.DB) *SQLScheduleStore {
	return &SQLScheduleStore{db: db}
}

func (s *SQLScheduleStore) GetSchedule(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	return firstOrNil[models.PaymentSchedule](conn(ctx, s.db).Where("id = ?", id))
}

// SaveSchedule upserts the schedule under id.
func (s *SQLScheduleStore) SaveSchedule(ctx context.Context, id uuid.UUID, schedule *models.PaymentSchedule) error {
	schedule.ID = id
	return conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(schedule).Error
}

func (s *SQLScheduleStore) ListSchedulesForStudent(ctx context.Context, studentID uuid.UUID) ([]models.PaymentSchedule, error) {
	var list []models.PaymentSchedule
	err := conn(ctx, s.db).Where("student_id = ?", studentID).Order("start_date ASC").Find(&list).Error
	return list, err
}

func (s *SQLScheduleStore) ListActiveSchedules(ctx context.Context) ([]models.PaymentSchedule, error) {
	var list []models.PaymentSchedule
	err := conn(ctx, s.db).Where("is_active = ?", true).Order("next_due_date ASC").Find(&list).Error
	return list, err
}
