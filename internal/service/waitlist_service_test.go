package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"github.com/google/uuid"
)

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type waitlistFixture struct {
	svc    *BookingWaitlistService
	store  *fakeWaitlistStore
	pub    *recordingPublisher
	clock  *manualClock
	hostel *models.Hostel
}

func newWaitlistFixture() *waitlistFixture {
	h := &models.Hostel{ID: uuid.New(), Name: "Maple House", IsActive: true}
	f := &waitlistFixture{
		store:  newFakeWaitlistStore(),
		pub:    &recordingPublisher{},
		clock:  &manualClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		hostel: h,
	}
	f.svc = NewBookingWaitlistService(f.store, newFakeHostels(h), f.clock, f.pub)
	return f
}

func (f *waitlistFixture) add(t *testing.T, name string) *models.WaitlistEntry {
	t.Helper()
	e, err := f.svc.AddToWaitlist(context.Background(), AddWaitlistInput{
		HostelID:     f.hostel.ID,
		RoomType:     domain.RoomSingle,
		ContactName:  name,
		ContactEmail: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return e
}

func TestAddToWaitlist(t *testing.T) {
	f := newWaitlistFixture()
	ctx := context.Background()

	e, err := f.svc.AddToWaitlist(ctx, AddWaitlistInput{
		HostelID:     f.hostel.ID,
		RoomType:     domain.RoomDouble,
		ContactName:  "Asha",
		ContactPhone: "9800000000",
		Preferences:  map[string]interface{}{"floor": "ground"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Status != domain.WaitlistWaiting || e.Priority != 0 || e.NotificationCount != 0 {
		t.Errorf("new entry = %+v", e)
	}
	var prefs map[string]string
	if err := json.Unmarshal(e.Preferences, &prefs); err != nil || prefs["floor"] != "ground" {
		t.Errorf("preferences = %s (%v)", e.Preferences, err)
	}
	if len(f.pub.events) != 1 || f.pub.events[0].Type != domain.EventWaitlistJoined {
		t.Errorf("events = %+v", f.pub.events)
	}

	tests := []struct {
		name string
		in   AddWaitlistInput
		want error
	}{
		{"no contact", AddWaitlistInput{HostelID: f.hostel.ID, RoomType: domain.RoomSingle, ContactName: "X"}, domain.ErrValidation},
		{"bad room type", AddWaitlistInput{HostelID: f.hostel.ID, RoomType: "PENTHOUSE", ContactName: "X", ContactPhone: "1"}, domain.ErrValidation},
		{"bad email", AddWaitlistInput{HostelID: f.hostel.ID, RoomType: domain.RoomSingle, ContactName: "X", ContactEmail: "nope"}, domain.ErrValidation},
		{"unknown hostel", AddWaitlistInput{HostelID: uuid.New(), RoomType: domain.RoomSingle, ContactName: "X", ContactPhone: "1"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.AddToWaitlist(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNotifyAvailability(t *testing.T) {
	f := newWaitlistFixture()
	ctx := context.Background()
	e := f.add(t, "ravi")
	deadline := f.clock.Now().Add(48 * time.Hour)

	n, err := f.svc.NotifyAvailability(ctx, e.ID, deadline, "")
	if err != nil {
		t.Fatal(err)
	}
	if n.NotificationCount != 1 || n.Message == "" || !n.ResponseDeadline.Equal(deadline) {
		t.Errorf("notification = %+v", n)
	}

	f.clock.advance(time.Hour)
	n, err = f.svc.NotifyAvailability(ctx, e.ID, deadline, "Room 12 is free")
	if err != nil {
		t.Fatalf("renotify: %v", err)
	}
	if n.NotificationCount != 2 || n.Message != "Room 12 is free" {
		t.Errorf("second notification = %+v", n)
	}
	stored, _ := f.store.GetEntry(ctx, e.ID)
	if stored.Status != domain.WaitlistNotified || stored.LastNotifiedAt == nil || !stored.LastNotifiedAt.Equal(f.clock.Now()) {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := f.svc.ConvertWaitlistToBooking(ctx, e.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.NotifyAvailability(ctx, e.ID, deadline, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("notify converted entry: %v", err)
	}
	if _, err := f.svc.NotifyAvailability(ctx, uuid.New(), deadline, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("notify unknown entry: %v", err)
	}
}

func TestConvertWaitlistToBooking(t *testing.T) {
	f := newWaitlistFixture()
	ctx := context.Background()

	accepted := f.add(t, "meera")
	got, err := f.svc.ConvertWaitlistToBooking(ctx, accepted.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.WaitlistConverted || got.ConvertedAt == nil {
		t.Errorf("accepted = %+v", got)
	}

	declined := f.add(t, "arjun")
	got, err = f.svc.ConvertWaitlistToBooking(ctx, declined.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.WaitlistCancelled || got.ConvertedAt != nil {
		t.Errorf("declined = %+v", got)
	}

	// a cancelled entry can still be converted
	got, err = f.svc.ConvertWaitlistToBooking(ctx, declined.ID, true)
	if err != nil || got.Status != domain.WaitlistConverted {
		t.Fatalf("convert cancelled: %+v %v", got, err)
	}

	last := f.pub.events[len(f.pub.events)-1]
	if last.Type != domain.EventWaitlistConverted || last.Entry.ID != declined.ID {
		t.Errorf("last event = %+v", last)
	}
}

func TestCancelEntry(t *testing.T) {
	f := newWaitlistFixture()
	ctx := context.Background()
	e := f.add(t, "kiran")

	got, err := f.svc.CancelEntry(ctx, e.ID)
	if err != nil || got.Status != domain.WaitlistCancelled {
		t.Fatalf("cancel: %+v %v", got, err)
	}

	other := f.add(t, "divya")
	if _, err := f.svc.ConvertWaitlistToBooking(ctx, other.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CancelEntry(ctx, other.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("cancel converted: %v", err)
	}
}

func TestListWaitlistForHostelDaysWaiting(t *testing.T) {
	f := newWaitlistFixture()
	ctx := context.Background()

	first := f.add(t, "first")
	f.clock.advance(3 * 24 * time.Hour)
	second := f.add(t, "second")
	f.clock.advance(2*24*time.Hour + 5*time.Hour)

	got, err := f.svc.ListWaitlistForHostel(ctx, f.hostel.ID, domain.RoomSingle)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != first.ID || got[0].DaysWaiting != 5 {
		t.Errorf("first = %s waited %d", got[0].ID, got[0].DaysWaiting)
	}
	if got[1].ID != second.ID || got[1].DaysWaiting != 2 {
		t.Errorf("second = %s waited %d", got[1].ID, got[1].DaysWaiting)
	}

	none, err := f.svc.ListWaitlistForHostel(ctx, f.hostel.ID, domain.RoomDormitory)
	if err != nil || len(none) != 0 {
		t.Errorf("other room type: %v %v", none, err)
	}
}

func TestWaitlistWithoutPublisher(t *testing.T) {
	h := &models.Hostel{ID: uuid.New(), Name: "Quiet"}
	svc := NewBookingWaitlistService(newFakeWaitlistStore(), newFakeHostels(h), &manualClock{t: time.Now()}, nil)
	if _, err := svc.AddToWaitlist(context.Background(), AddWaitlistInput{
		HostelID: h.ID, RoomType: domain.RoomTriple, ContactName: "Sam", ContactPhone: "1",
	}); err != nil {
		t.Fatal(err)
	}
}
