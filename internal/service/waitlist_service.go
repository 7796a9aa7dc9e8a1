package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AddWaitlistInput struct {
	HostelID         uuid.UUID              `json:"hostel_id" validate:"required"`
	RoomType         domain.RoomType        `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE FOUR_SHARING DORMITORY"`
	StudentID        *uuid.UUID             `json:"student_id"`
	ContactName      string                 `json:"contact_name" validate:"required,max=120"`
	ContactEmail     string                 `json:"contact_email" validate:"omitempty,email"`
	ContactPhone     string                 `json:"contact_phone" validate:"omitempty,max=20"`
	PreferredCheckIn *time.Time             `json:"preferred_check_in"`
	Preferences      map[string]interface{} `json:"preferences"`
}

// WaitlistNotification describes an availability notice. The deadline is
// informational; nothing expires the offer automatically.
type WaitlistNotification struct {
	EntryID           uuid.UUID       `json:"entry_id"`
	HostelID          uuid.UUID       `json:"hostel_id"`
	RoomType          domain.RoomType `json:"room_type"`
	ContactName       string          `json:"contact_name"`
	ContactEmail      string          `json:"contact_email"`
	ContactPhone      string          `json:"contact_phone"`
	Message           string          `json:"message"`
	NotifiedAt        time.Time       `json:"notified_at"`
	ResponseDeadline  time.Time       `json:"response_deadline"`
	NotificationCount int             `json:"notification_count"`
}

type WaitlistEntryView struct {
	models.WaitlistEntry
	DaysWaiting int `json:"days_waiting"`
}

// WaitlistEvent is pushed to staff watching a hostel's waitlist.
type WaitlistEvent struct {
	Type  string               `json:"type"`
	Entry models.WaitlistEntry `json:"entry"`
}

type WaitlistPublisher interface {
	PublishWaitlistEvent(hostelID uuid.UUID, event WaitlistEvent)
}

type BookingWaitlistService struct {
	store     WaitlistStore
	hostels   HostelRepository
	clock     clock.Clock
	publisher WaitlistPublisher
	validate  *validator.Validate
}

// NewBookingWaitlistService builds the service; publisher may be nil.
func NewBookingWaitlistService(store WaitlistStore, hostels HostelRepository, clk clock.Clock, publisher WaitlistPublisher) *BookingWaitlistService {
	return &BookingWaitlistService{
		store:     store,
		hostels:   hostels,
		clock:     clk,
		publisher: publisher,
		validate:  newValidator(),
	}
}

// AddToWaitlist queues a new entry. Priority is always 0, so entries are served in arrival order.
func (s *BookingWaitlistService) AddToWaitlist(ctx context.Context, in AddWaitlistInput) (*models.WaitlistEntry, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	if in.ContactEmail == "" && in.ContactPhone == "" && in.StudentID == nil {
		return nil, domain.Invalid("contact", "one of contact_email, contact_phone or student_id is required")
	}
	hostel, err := s.hostels.GetByID(ctx, in.HostelID)
	if err != nil {
		return nil, err
	}
	if hostel == nil {
		return nil, domain.NotFound("hostel", in.HostelID)
	}
	now := s.clock.Now()
	e := &models.WaitlistEntry{
		ID:           uuid.New(),
		HostelID:     in.HostelID,
		RoomType:     in.RoomType,
		StudentID:    in.StudentID,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Status:       domain.WaitlistWaiting,
		Priority:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.PreferredCheckIn != nil {
		d := dates.Of(*in.PreferredCheckIn)
		e.PreferredCheckIn = &d
	}
	if len(in.Preferences) > 0 {
		raw, err := json.Marshal(in.Preferences)
		if err != nil {
			return nil, domain.Invalid("preferences", err.Error())
		}
		e.Preferences = datatypes.JSON(raw)
	}
	if err := s.store.CreateEntry(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("[waitlist] %s joined %s/%s", e.ID, e.HostelID, e.RoomType)
	s.publish(domain.EventWaitlistJoined, e)
	return e, nil
}

// NotifyAvailability tells a waiting (or already notified) entry that a bed
// is free.
func (s *BookingWaitlistService) NotifyAvailability(ctx context.Context, entryID uuid.UUID, responseDeadline time.Time, message string) (*WaitlistNotification, error) {
	e, err := s.requireEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.WaitlistWaiting && e.Status != domain.WaitlistNotified {
		return nil, domain.Invalid("status", "cannot notify an entry that is "+string(e.Status))
	}
	now := s.clock.Now()
	e.Status = domain.WaitlistNotified
	e.NotificationCount++
	e.LastNotifiedAt = &now
	e.ResponseDeadline = &responseDeadline
	e.UpdatedAt = now
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	if message == "" {
		message = "A " + string(e.RoomType) + " room is now available. Please respond before the deadline to confirm your booking."
	}
	s.publish(domain.EventWaitlistNotified, e)
	return &WaitlistNotification{
		EntryID:           e.ID,
		HostelID:          e.HostelID,
		RoomType:          e.RoomType,
		ContactName:       e.ContactName,
		ContactEmail:      e.ContactEmail,
		ContactPhone:      e.ContactPhone,
		Message:           message,
		NotifiedAt:        now,
		ResponseDeadline:  responseDeadline,
		NotificationCount: e.NotificationCount,
	}, nil
}

// ConvertWaitlistToBooking records the entry's answer: CONVERTED when
// accepted, CANCELLED otherwise. Creating the booking is up to the caller.
// Any prior status is accepted, including CANCELLED.
func (s *BookingWaitlistService) ConvertWaitlistToBooking(ctx context.Context, entryID uuid.UUID, accept bool) (*models.WaitlistEntry, error) {
	e, err := s.requireEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	event := domain.EventWaitlistCancelled
	if accept {
		e.Status = domain.WaitlistConverted
		e.ConvertedAt = &now
		event = domain.EventWaitlistConverted
	} else {
		e.Status = domain.WaitlistCancelled
	}
	e.UpdatedAt = now
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	log.Printf("[waitlist] %s -> %s", e.ID, e.Status)
	s.publish(event, e)
	return e, nil
}

func (s *BookingWaitlistService) CancelEntry(ctx context.Context, entryID uuid.UUID) (*models.WaitlistEntry, error) {
	e, err := s.requireEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.Status == domain.WaitlistConverted {
		return nil, domain.Invalid("status", "entry has already been converted")
	}
	e.Status = domain.WaitlistCancelled
	e.UpdatedAt = s.clock.Now()
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	s.publish(domain.EventWaitlistCancelled, e)
	return e, nil
}

// ListWaitlistForHostel returns every entry in queue order with days waited so far.
func (s *BookingWaitlistService) ListWaitlistForHostel(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType) ([]WaitlistEntryView, error) {
	entries, err := s.store.ListForHostelRoomType(ctx, hostelID, roomType)
	if err != nil {
		return nil, err
	}
	today := s.clock.Now()
	out := make([]WaitlistEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, WaitlistEntryView{WaitlistEntry: e, DaysWaiting: dates.DaysBetween(e.CreatedAt, today)})
	}
	return out, nil
}

func (s *BookingWaitlistService) requireEntry(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound("waitlist entry", id)
	}
	return e, nil
}

func (s *BookingWaitlistService) publish(eventType string, e *models.WaitlistEntry) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWaitlistEvent(e.HostelID, WaitlistEvent{Type: eventType, Entry: *e})
}
