package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSchedule drives recurring invoice generation for a student. It is
// persisted through a schedule store, which may be SQL or Redis.
type PaymentSchedule struct {
	ID                  uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	StudentID           uuid.UUID       `gorm:"type:char(36);not null;index" json:"student_id"`
	HostelID            uuid.UUID       `gorm:"type:char(36);not null;index" json:"hostel_id"`
	BookingID           *uuid.UUID      `gorm:"type:char(36)" json:"booking_id"`
	FeeType             domain.FeeType  `gorm:"size:20;not null" json:"fee_type"`
	Amount              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency            string          `gorm:"size:3;not null" json:"currency"`
	StartDate           time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate             *time.Time      `gorm:"type:date" json:"end_date"`
	NextDueDate         time.Time       `gorm:"type:date;not null;index" json:"next_due_date"`
	AutoGenerateInvoice bool            `gorm:"not null" json:"auto_generate_invoice"`
	IsActive            bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (PaymentSchedule) TableName() string { return "payment_schedules" }
