package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Payment struct {
	ID                uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	PayerID           uuid.UUID            `gorm:"type:char(36);not null;index" json:"payer_id"`
	StudentID         uuid.UUID            `gorm:"type:char(36);not null;index:idx_payments_student_due,priority:1" json:"student_id"`
	HostelID          uuid.UUID            `gorm:"type:char(36);not null;index:idx_payments_student_due,priority:2;index" json:"hostel_id"`
	BookingID         *uuid.UUID           `gorm:"type:char(36);index" json:"booking_id"`
	ScheduleID        *uuid.UUID           `gorm:"type:char(36);index" json:"schedule_id"`
	PaymentType       domain.PaymentType   `gorm:"size:30;not null" json:"payment_type"`
	Amount            decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency          string               `gorm:"size:3;not null" json:"currency"`
	PaymentMethod     domain.PaymentMethod `gorm:"size:30;not null" json:"payment_method"`
	PaymentGateway    string               `gorm:"size:50" json:"payment_gateway"`
	PaymentStatus     domain.PaymentStatus `gorm:"size:30;not null;index" json:"payment_status"`
	DueDate           *time.Time           `gorm:"type:date;index:idx_payments_student_due,priority:3" json:"due_date"`
	PaidAt            *time.Time           `gorm:"index" json:"paid_at"`
	FailedAt          *time.Time           `json:"failed_at"`
	FailureReason     string               `gorm:"size:255" json:"failure_reason,omitempty"`
	ReceiptNumber     *string              `gorm:"uniqueIndex;size:40" json:"receipt_number"`
	TransactionID     *string              `gorm:"size:255" json:"transaction_id"`
	RefundAmount      decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"refund_amount"`
	RefundedAt        *time.Time           `json:"refunded_at"`
	ReminderSentCount int                  `gorm:"not null" json:"reminder_sent_count"`
	LastReminderAt    *time.Time           `json:"last_reminder_at"`
	Metadata          datatypes.JSON       `json:"metadata,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	DeletedAt         gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
