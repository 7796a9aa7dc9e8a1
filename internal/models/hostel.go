package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Hostel struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string         `gorm:"size:200;not null" json:"name"`
	City         string         `gorm:"size:100;index" json:"city"`
	Address      string         `gorm:"size:500" json:"address"`
	ContactPhone string         `gorm:"size:20" json:"contact_phone"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Hostel) TableName() string { return "hostels" }

func (h *Hostel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
