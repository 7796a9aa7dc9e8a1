package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeStructure is the price of one room type at one hostel for one billing
// cadence over an effective date window. EffectiveTo nil means open-ended.
type FeeStructure struct {
	ID                     uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	HostelID               uuid.UUID           `gorm:"type:char(36);not null;index:idx_fee_structures_lookup,priority:1" json:"hostel_id"`
	RoomType               domain.RoomType     `gorm:"size:20;not null;index:idx_fee_structures_lookup,priority:2" json:"room_type"`
	FeeType                domain.FeeType      `gorm:"size:20;not null;index:idx_fee_structures_lookup,priority:3" json:"fee_type"`
	Amount                 decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	SecurityDeposit        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"security_deposit"`
	IncludesMess           bool                `gorm:"not null" json:"includes_mess"`
	MessChargesMonthly     decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"mess_charges_monthly"`
	ElectricityCharges     domain.ChargeType   `gorm:"size:20;not null" json:"electricity_charges"`
	WaterCharges           domain.ChargeType   `gorm:"size:20;not null" json:"water_charges"`
	ElectricityFixedAmount decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"electricity_fixed_amount"`
	WaterFixedAmount       decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"water_fixed_amount"`
	EffectiveFrom          time.Time           `gorm:"type:date;not null;index:idx_fee_structures_lookup,priority:4" json:"effective_from"`
	EffectiveTo            *time.Time          `gorm:"type:date" json:"effective_to"`
	IsActive               bool                `gorm:"not null;index" json:"is_active"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	DeletedAt              gorm.DeletedAt      `gorm:"index" json:"-"`

	Hostel *Hostel `gorm:"foreignKey:HostelID" json:"-"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (f *FeeStructure) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
