package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"

	"github.com/google/uuid"
)

type bookingFixture struct {
	svc       *BookingService
	bookings  *fakeBookings
	referrals *fakeReferrals
	programs  *fakePrograms
	hostel    *models.Hostel
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings:  newFakeBookings(),
		referrals: newFakeReferrals(),
		programs:  newFakePrograms(),
		hostel:    &models.Hostel{ID: uuid.New(), Name: "Cedar Court", IsActive: true},
	}
	clk := clock.Fixed{T: time.Date(2024, 7, 2, 11, 0, 0, 0, time.UTC)}
	referralSvc := NewReferralService(f.referrals, f.programs)
	commission := NewCommissionService(f.bookings, f.referrals, f.programs, clk, DefaultCompletion())
	f.svc = NewBookingService(f.bookings, newFakeHostels(f.hostel), referralSvc, commission, clk, "")
	return f
}

func TestConfirmBookingCompletesReferral(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	program := models.ReferralProgram{ID: uuid.New(), RewardType: "flat", ReferrerRewardAmount: dec("750"), RefereeRewardAmount: dec("250"), Currency: "INR", IsActive: true}
	f.programs.byID[program.ID] = program
	ref := f.referrals.put(models.Referral{
		ProgramID:            program.ID,
		ReferrerID:           uuid.New(),
		ReferralCode:         "FRIEND01",
		Status:               domain.ReferralPending,
		ReferrerRewardStatus: domain.RewardPending,
		RefereeRewardStatus:  domain.RewardPending,
	})

	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		HostelID:           f.hostel.ID,
		StudentID:          uuid.New(),
		RoomType:           domain.RoomSingle,
		StayDurationMonths: 6,
		TotalAmount:        dec("48000"),
		ReferralCode:       " friend01 ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != domain.BookingPending || b.Currency != domain.DefaultCurrency || b.ReferralCode == nil || *b.ReferralCode != "FRIEND01" {
		t.Fatalf("booking = %+v", b)
	}
	if got, _ := f.referrals.GetByID(ctx, ref.ID); got.Status != domain.ReferralBookingMade {
		t.Fatalf("referral status after booking = %s", got.Status)
	}

	res, err := f.svc.ConfirmBooking(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Booking.Status != domain.BookingConfirmed {
		t.Errorf("booking status = %s", res.Booking.Status)
	}
	if res.Referral == nil || res.Referral.Status != domain.ReferralCompleted {
		t.Fatalf("referral = %+v", res.Referral)
	}
	if !res.Referral.ReferrerRewardAmount.Decimal.Equal(dec("750")) || !res.Referral.RefereeRewardAmount.Decimal.Equal(dec("250")) {
		t.Errorf("rewards = %s/%s", res.Referral.ReferrerRewardAmount.Decimal, res.Referral.RefereeRewardAmount.Decimal)
	}

	if _, err := f.svc.ConfirmBooking(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("second confirm: %v", err)
	}
}

func TestConfirmBookingWithoutReferral(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		HostelID:           f.hostel.ID,
		StudentID:          uuid.New(),
		RoomType:           domain.RoomDouble,
		StayDurationMonths: 3,
		TotalAmount:        dec("15000"),
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.svc.ConfirmBooking(ctx, b.ID)
	if err != nil || res.Referral != nil {
		t.Fatalf("got %+v, %v", res, err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateBooking(ctx, CreateBookingInput{HostelID: uuid.New(), StudentID: uuid.New(), RoomType: domain.RoomSingle, StayDurationMonths: 1, TotalAmount: dec("1")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown hostel: %v", err)
	}
	if _, err := f.svc.CreateBooking(ctx, CreateBookingInput{HostelID: f.hostel.ID, StudentID: uuid.New(), RoomType: domain.RoomSingle, StayDurationMonths: 0, TotalAmount: dec("1")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero months: %v", err)
	}
	if _, err := f.svc.CreateBooking(ctx, CreateBookingInput{HostelID: f.hostel.ID, StudentID: uuid.New(), RoomType: domain.RoomSingle, StayDurationMonths: 2, TotalAmount: dec("0")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero amount: %v", err)
	}
	if _, err := f.svc.ConfirmBooking(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown booking: %v", err)
	}
}
