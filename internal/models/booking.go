package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Booking struct {
	ID                 uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	HostelID           uuid.UUID            `gorm:"type:char(36);not null;index" json:"hostel_id"`
	StudentID          uuid.UUID            `gorm:"type:char(36);not null;index" json:"student_id"`
	RoomType           domain.RoomType      `gorm:"size:20;not null" json:"room_type"`
	BookingDate        time.Time            `gorm:"not null" json:"booking_date"`
	CheckInDate        *time.Time           `gorm:"type:date" json:"check_in_date"`
	StayDurationMonths int                  `gorm:"not null" json:"stay_duration_months"`
	TotalAmount        decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency           string               `gorm:"size:3;not null" json:"currency"`
	ReferralCode       *string              `gorm:"size:20;index" json:"referral_code"`
	Status             domain.BookingStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	DeletedAt          gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
