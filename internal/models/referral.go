package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralProgram defines how referrals are rewarded. RewardType is
// "percentage" or "flat", matched case-insensitively; the two reward amounts
// are rates for percentage programs and currency amounts for flat ones.
type ReferralProgram struct {
	ID                   uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	Name                 string              `gorm:"size:120;not null" json:"name"`
	Description          string              `gorm:"size:500" json:"description"`
	RewardType           string              `gorm:"size:20;not null" json:"reward_type"`
	ReferrerRewardAmount decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"referrer_reward_amount"`
	RefereeRewardAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"referee_reward_amount"`
	Currency             string              `gorm:"size:3;not null" json:"currency"`
	MinBookingAmount     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"min_booking_amount"`
	MinStayMonths        *int                `json:"min_stay_months"`
	ValidFrom            *time.Time          `gorm:"type:date" json:"valid_from"`
	ValidTo              *time.Time          `gorm:"type:date" json:"valid_to"`
	IsActive             bool                `gorm:"not null" json:"is_active"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	DeletedAt            gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (ReferralProgram) TableName() string { return "referral_programs" }

func (p *ReferralProgram) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// RewardRule resolves the program's payout rule.
func (p *ReferralProgram) RewardRule() (domain.RewardRule, error) {
	return domain.ParseRewardRule(p.RewardType, p.ReferrerRewardAmount, p.RefereeRewardAmount)
}

// Referral tracks one invite from a referrer. BookingID and CompletedAt are
// set together when a qualifying booking is processed.
type Referral struct {
	ID                   uuid.UUID             `gorm:"type:char(36);primaryKey" json:"id"`
	ProgramID            uuid.UUID             `gorm:"type:char(36);not null;index" json:"program_id"`
	ReferrerID           uuid.UUID             `gorm:"type:char(36);not null;index" json:"referrer_id"`
	ReferralCode         string                `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	RefereeEmail         *string               `gorm:"size:255" json:"referee_email"`
	RefereePhone         *string               `gorm:"size:20" json:"referee_phone"`
	RefereeUserID        *uuid.UUID            `gorm:"type:char(36);index" json:"referee_user_id"`
	Status               domain.ReferralStatus `gorm:"size:20;not null;index" json:"status"`
	BookingID            *uuid.UUID            `gorm:"type:char(36)" json:"booking_id"`
	CompletedAt          *time.Time            `json:"completed_at"`
	ReferrerRewardAmount decimal.NullDecimal   `gorm:"type:decimal(12,2)" json:"referrer_reward_amount"`
	RefereeRewardAmount  decimal.NullDecimal   `gorm:"type:decimal(12,2)" json:"referee_reward_amount"`
	Currency             string                `gorm:"size:3" json:"currency"`
	ReferrerRewardStatus domain.RewardStatus   `gorm:"size:20;not null" json:"referrer_reward_status"`
	RefereeRewardStatus  domain.RewardStatus   `gorm:"size:20;not null" json:"referee_reward_status"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	DeletedAt            gorm.DeletedAt        `gorm:"index" json:"-"`

	Program *ReferralProgram `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

func (Referral) TableName() string { return "referrals" }

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
