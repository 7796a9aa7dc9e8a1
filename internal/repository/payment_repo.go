package repository

import (
	"context"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueTotals aggregates collected payments over a window.
type RevenueTotals struct {
	Gross    decimal.Decimal `gorm:"column:gross"`
	Refunded decimal.Decimal `gorm:"column:refunded"`
	Count    int64           `gorm:"column:count"`
}

// OverdueTotals aggregates pending payments past their due date.
type OverdueTotals struct {
	Amount decimal.Decimal `gorm:"column:amount"`
	Count  int64           `gorm:"column:count"`
}

var (
	collectedStatuses = []domain.PaymentStatus{domain.PaymentCompleted, domain.PaymentPartiallyRefunded, domain.PaymentRefunded}
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return firstOrNil[models.Payment](conn(ctx, r.db).Where("id = ?", id))
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	return conn(ctx, r.db).Save(p).Error
}

// FindByStudentHostelDueDate is the duplicate check used by schedule generation.
func (r *PaymentRepository) FindByStudentHostelDueDate(ctx context.Context, studentID, hostelID uuid.UUID, dueDate time.Time) (*models.Payment, error) {
	q := conn(ctx, r.db).
		Where("student_id = ? AND hostel_id = ? AND due_date = ?", studentID, hostelID, dueDate).
		Order("created_at ASC")
	return firstOrNil[models.Payment](q)
}

func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var list []models.Payment
	err := conn(ctx, r.db).Where("student_id = ?", studentID).
		Order("due_date DESC, created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// RevenueTotals sums collected payments whose paid_at falls in [from, to).
func (r *PaymentRepository) RevenueTotals(ctx context.Context, hostelID uuid.UUID, from, to time.Time) (RevenueTotals, error) {
	var t RevenueTotals
	err := conn(ctx, r.db).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS gross, COALESCE(SUM(refund_amount), 0) AS refunded, COUNT(*) AS count").
		Where("hostel_id = ? AND payment_status IN ?", hostelID, collectedStatuses).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Scan(&t).Error
	return t, err
}

// CountByStatus counts payments created in [from, to), grouped by status.
func (r *PaymentRepository) CountByStatus(ctx context.Context, hostelID uuid.UUID, from, to time.Time) (map[domain.PaymentStatus]int64, error) {
	var rows []struct {
		Status domain.PaymentStatus `gorm:"column:status"`
		Count  int64                `gorm:"column:count"`
	}
	err := conn(ctx, r.db).Model(&models.Payment{}).
		Select("payment_status AS status, COUNT(*) AS count").
		Where("hostel_id = ?", hostelID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.PaymentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// OverdueTotals sums pending payments due before asOf.
func (r *PaymentRepository) OverdueTotals(ctx context.Context, hostelID uuid.UUID, asOf time.Time) (OverdueTotals, error) {
	var t OverdueTotals
	err := conn(ctx, r.db).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Where("hostel_id = ? AND payment_status = ? AND due_date < ?", hostelID, domain.PaymentPending, asOf).
		Scan(&t).Error
	return t, err
}

// ListOverdue returns pending payments due before asOf, oldest first. A nil
// hostelID lists across all hostels.
func (r *PaymentRepository) ListOverdue(ctx context.Context, hostelID *uuid.UUID, asOf time.Time, limit int) ([]models.Payment, error) {
	q := conn(ctx, r.db).Where("payment_status = ? AND due_date < ?", domain.PaymentPending, asOf)
	if hostelID != nil {
		q = q.Where("hostel_id = ?", *hostelID)
	}
	var list []models.Payment
	err := q.Order("due_date ASC").Limit(limit).Find(&list).Error
	return list, err
}

// MarkReminderSent bumps the reminder counter without touching other columns.
func (r *PaymentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return conn(ctx, r.db).Model(&models.Payment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"reminder_sent_count": gorm.Expr("reminder_sent_count + 1"),
			"last_reminder_at":    at,
		}).Error
}
