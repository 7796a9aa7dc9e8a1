package models

import (
	"time"

	"hostelhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WaitlistEntry is a prospective booker waiting for a room type at a hostel.
// Entries are persisted through a waitlist store, which may be SQL or Redis.
type WaitlistEntry struct {
	ID                uuid.UUID             `gorm:"type:char(36);primaryKey" json:"id"`
	HostelID          uuid.UUID             `gorm:"type:char(36);not null;index:idx_waitlist_queue,priority:1" json:"hostel_id"`
	RoomType          domain.RoomType       `gorm:"size:20;not null;index:idx_waitlist_queue,priority:2" json:"room_type"`
	StudentID         *uuid.UUID            `gorm:"type:char(36);index" json:"student_id"`
	ContactName       string                `gorm:"size:120;not null" json:"contact_name"`
	ContactEmail      string                `gorm:"size:255" json:"contact_email"`
	ContactPhone      string                `gorm:"size:20" json:"contact_phone"`
	PreferredCheckIn  *time.Time            `gorm:"type:date" json:"preferred_check_in"`
	Preferences       datatypes.JSON        `json:"preferences,omitempty"`
	Status            domain.WaitlistStatus `gorm:"size:20;not null;index" json:"status"`
	Priority          int                   `gorm:"not null" json:"priority"`
	NotificationCount int                   `gorm:"not null" json:"notification_count"`
	LastNotifiedAt    *time.Time            `json:"last_notified_at"`
	ResponseDeadline  *time.Time            `json:"response_deadline"`
	ConvertedAt       *time.Time            `json:"converted_at"`
	CreatedAt         time.Time             `gorm:"index:idx_waitlist_queue,priority:3" json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func (WaitlistEntry) TableName() string { return "waitlist_entries" }
