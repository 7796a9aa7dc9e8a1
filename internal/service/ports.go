package service

import (
	"context"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/internal/repository"

	"github.com/google/uuid"
)

// UnitOfWork scopes a group of writes into one transaction. Services never
// open one on their own; handlers and the worker wrap each operation.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type HostelRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
}

type FeeStructureRepository interface {
	Create(ctx context.Context, fs *models.FeeStructure) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FeeStructure, error)
	Update(ctx context.Context, fs *models.FeeStructure) error
	ListByHostel(ctx context.Context, hostelID uuid.UUID, activeOnly bool) ([]models.FeeStructure, error)
	FindEffective(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType, feeType domain.FeeType, asOf time.Time) (*models.FeeStructure, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	FindByStudentHostelDueDate(ctx context.Context, studentID, hostelID uuid.UUID, dueDate time.Time) (*models.Payment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]models.Payment, error)
	RevenueTotals(ctx context.Context, hostelID uuid.UUID, from, to time.Time) (repository.RevenueTotals, error)
	CountByStatus(ctx context.Context, hostelID uuid.UUID, from, to time.Time) (map[domain.PaymentStatus]int64, error)
	OverdueTotals(ctx context.Context, hostelID uuid.UUID, asOf time.Time) (repository.OverdueTotals, error)
	ListOverdue(ctx context.Context, hostelID *uuid.UUID, asOf time.Time, limit int) ([]models.Payment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ScheduleStore persists payment schedules. Implementations return (nil, nil)
// for a missing schedule.
type ScheduleStore interface {
	GetSchedule(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error)
	SaveSchedule(ctx context.Context, id uuid.UUID, schedule *models.PaymentSchedule) error
	ListSchedulesForStudent(ctx context.Context, studentID uuid.UUID) ([]models.PaymentSchedule, error)
	ListActiveSchedules(ctx context.Context) ([]models.PaymentSchedule, error)
}

// WaitlistStore persists waitlist entries. Implementations return (nil, nil)
// for a missing entry.
type WaitlistStore interface {
	CreateEntry(ctx context.Context, e *models.WaitlistEntry) error
	UpdateEntry(ctx context.Context, e *models.WaitlistEntry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error)
	ListForHostelRoomType(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType) ([]models.WaitlistEntry, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
}

type ReferralRepository interface {
	CreateWithCode(ctx context.Context, ref *models.Referral) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error)
	GetByCode(ctx context.Context, code string) (*models.Referral, error)
	Update(ctx context.Context, ref *models.Referral) error
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error)
}

type ReferralProgramRepository interface {
	Create(ctx context.Context, p *models.ReferralProgram) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReferralProgram, error)
	ListActive(ctx context.Context) ([]models.ReferralProgram, error)
}

// Locker guards a named resource across worker processes.
type Locker interface {
	// TryLock returns a holder token when the lock was acquired.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Unlock releases key only if it is still held under token.
	Unlock(ctx context.Context, key, token string) error
}
