package service

import (
	"context"
	"testing"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var commissionNow = time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

type commissionFixture struct {
	svc       *CommissionService
	bookings  *fakeBookings
	referrals *fakeReferrals
	programs  *fakePrograms
	program   models.ReferralProgram
	referral  models.Referral
}

func newCommissionFixture(t *testing.T, rewardType string, mutate func(p *models.ReferralProgram)) *commissionFixture {
	t.Helper()
	f := &commissionFixture{
		bookings:  newFakeBookings(),
		referrals: newFakeReferrals(),
		programs:  newFakePrograms(),
	}
	minStay := 3
	f.program = models.ReferralProgram{
		ID:                   uuid.New(),
		Name:                 "Summer",
		RewardType:           rewardType,
		ReferrerRewardAmount: dec("5"),
		RefereeRewardAmount:  dec("2.5"),
		Currency:             "INR",
		MinBookingAmount:     decimal.NewNullDecimal(dec("10000.00")),
		MinStayMonths:        &minStay,
		ValidFrom:            datePtr(2024, 6, 1),
		ValidTo:              datePtr(2024, 8, 31),
		IsActive:             true,
	}
	if mutate != nil {
		mutate(&f.program)
	}
	f.programs.byID[f.program.ID] = f.program
	f.referral = f.referrals.put(models.Referral{
		ProgramID:            f.program.ID,
		ReferrerID:           uuid.New(),
		ReferralCode:         "ABCD1234",
		Status:               domain.ReferralBookingMade,
		ReferrerRewardStatus: domain.RewardPending,
		RefereeRewardStatus:  domain.RewardPending,
	})
	f.svc = NewCommissionService(f.bookings, f.referrals, f.programs, clock.Fixed{T: commissionNow}, DefaultCompletion())
	return f
}

func (f *commissionFixture) booking(total string, months int, bookedOn time.Time, code string) uuid.UUID {
	b := models.Booking{
		ID:                 uuid.New(),
		HostelID:           uuid.New(),
		StudentID:          uuid.New(),
		RoomType:           domain.RoomDouble,
		BookingDate:        bookedOn,
		StayDurationMonths: months,
		TotalAmount:        dec(total),
		Status:             domain.BookingConfirmed,
	}
	if code != "" {
		b.ReferralCode = &code
	}
	f.bookings.byID[b.ID] = b
	return b.ID
}

func TestProcessBookingCommissionMinimumAmountBoundary(t *testing.T) {
	bookedOn := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	f := newCommissionFixture(t, "percentage", nil)
	below := f.booking("9999.00", 6, bookedOn, "ABCD1234")
	ref, err := f.svc.ProcessBookingCommission(context.Background(), below)
	if err != nil || ref != nil {
		t.Fatalf("one below minimum: got %v, %v", ref, err)
	}
	if f.referrals.updates != 0 {
		t.Fatalf("ineligible booking mutated the referral")
	}

	exact := f.booking("10000.00", 6, bookedOn, "ABCD1234")
	ref, err = f.svc.ProcessBookingCommission(context.Background(), exact)
	if err != nil || ref == nil {
		t.Fatalf("exact minimum: got %v, %v", ref, err)
	}
	if !ref.ReferrerRewardAmount.Valid || !ref.RefereeRewardAmount.Valid {
		t.Fatal("reward amounts not set")
	}
}

func TestProcessBookingCommissionPercentage(t *testing.T) {
	f := newCommissionFixture(t, "Percentage", nil)
	id := f.booking("10000.00", 6, dates.Date(2024, 7, 1), "abcd1234")

	ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
	if err != nil || ref == nil {
		t.Fatalf("got %v, %v", ref, err)
	}
	if !ref.ReferrerRewardAmount.Decimal.Equal(dec("500.00")) {
		t.Errorf("referrer = %s, want 500.00", ref.ReferrerRewardAmount.Decimal)
	}
	if !ref.RefereeRewardAmount.Decimal.Equal(dec("250.00")) {
		t.Errorf("referee = %s, want 250.00", ref.RefereeRewardAmount.Decimal)
	}
	if ref.BookingID == nil || *ref.BookingID != id || ref.CompletedAt == nil {
		t.Error("booking_id and completed_at must be set together")
	}
	if !ref.CompletedAt.Equal(commissionNow) {
		t.Errorf("completed_at = %v", ref.CompletedAt)
	}
	if ref.Status != domain.ReferralCompleted || ref.Currency != "INR" {
		t.Errorf("status/currency = %s/%s", ref.Status, ref.Currency)
	}
	stored, _ := f.referrals.GetByID(context.Background(), ref.ID)
	if stored.BookingID == nil || *stored.BookingID != id {
		t.Error("referral not persisted")
	}
}

func TestProcessBookingCommissionFlat(t *testing.T) {
	f := newCommissionFixture(t, "FLAT", func(p *models.ReferralProgram) {
		p.ReferrerRewardAmount = dec("1000")
		p.RefereeRewardAmount = dec("-50")
	})
	id := f.booking("25000", 6, dates.Date(2024, 7, 1), "ABCD1234")
	ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
	if err != nil || ref == nil {
		t.Fatalf("got %v, %v", ref, err)
	}
	if !ref.ReferrerRewardAmount.Decimal.Equal(dec("1000")) {
		t.Errorf("referrer = %s", ref.ReferrerRewardAmount.Decimal)
	}
	if !ref.RefereeRewardAmount.Decimal.IsZero() {
		t.Errorf("negative reward should clamp to zero, got %s", ref.RefereeRewardAmount.Decimal)
	}
}

func TestProcessBookingCommissionNegativePercentageClamps(t *testing.T) {
	f := newCommissionFixture(t, "percentage", func(p *models.ReferralProgram) {
		p.ReferrerRewardAmount = dec("-10")
	})
	id := f.booking("20000", 6, dates.Date(2024, 7, 1), "ABCD1234")
	ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
	if err != nil || ref == nil {
		t.Fatalf("got %v, %v", ref, err)
	}
	if !ref.ReferrerRewardAmount.Decimal.IsZero() {
		t.Errorf("referrer = %s, want 0", ref.ReferrerRewardAmount.Decimal)
	}
}

func TestProcessBookingCommissionIneligible(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *models.ReferralProgram)
		total    string
		months   int
		bookedOn time.Time
		code     string
	}{
		{name: "no referral code", total: "20000", months: 6, bookedOn: dates.Date(2024, 7, 1)},
		{name: "unknown code", total: "20000", months: 6, bookedOn: dates.Date(2024, 7, 1), code: "ZZZZ9999"},
		{name: "before window", total: "20000", months: 6, bookedOn: dates.Date(2024, 5, 31), code: "ABCD1234"},
		{name: "after window", total: "20000", months: 6, bookedOn: time.Date(2024, 9, 1, 0, 30, 0, 0, time.UTC), code: "ABCD1234"},
		{name: "stay too short", total: "20000", months: 2, bookedOn: dates.Date(2024, 7, 1), code: "ABCD1234"},
		{name: "inactive program", mutate: func(p *models.ReferralProgram) { p.IsActive = false }, total: "20000", months: 6, bookedOn: dates.Date(2024, 7, 1), code: "ABCD1234"},
		{name: "unknown reward type", mutate: func(p *models.ReferralProgram) { p.RewardType = "points" }, total: "20000", months: 6, bookedOn: dates.Date(2024, 7, 1), code: "ABCD1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommissionFixture(t, "percentage", tt.mutate)
			id := f.booking(tt.total, tt.months, tt.bookedOn, tt.code)
			ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
			if err != nil || ref != nil {
				t.Fatalf("got %v, %v; want nil, nil", ref, err)
			}
			if f.referrals.updates != 0 {
				t.Error("referral mutated")
			}
		})
	}

	f := newCommissionFixture(t, "percentage", nil)
	if ref, err := f.svc.ProcessBookingCommission(context.Background(), uuid.New()); err != nil || ref != nil {
		t.Errorf("unknown booking: got %v, %v", ref, err)
	}
}

func TestProcessBookingCommissionOpenCriteria(t *testing.T) {
	f := newCommissionFixture(t, "percentage", func(p *models.ReferralProgram) {
		p.ValidFrom, p.ValidTo = nil, nil
		p.MinBookingAmount = decimal.NullDecimal{}
		p.MinStayMonths = nil
	})
	id := f.booking("100", 1, dates.Date(2019, 1, 1), "ABCD1234")
	ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
	if err != nil || ref == nil {
		t.Fatalf("unset criteria should pass: %v, %v", ref, err)
	}
	if !ref.ReferrerRewardAmount.Decimal.Equal(dec("5")) {
		t.Errorf("referrer = %s", ref.ReferrerRewardAmount.Decimal)
	}
}

func TestCompletionStatusesAreInjected(t *testing.T) {
	f := newCommissionFixture(t, "percentage", nil)
	approved := domain.RewardApproved
	f.svc = NewCommissionService(f.bookings, f.referrals, f.programs, clock.Fixed{T: commissionNow}, CompletionStatuses{ReferrerReward: &approved})

	id := f.booking("20000", 6, dates.Date(2024, 7, 1), "ABCD1234")
	ref, err := f.svc.ProcessBookingCommission(context.Background(), id)
	if err != nil || ref == nil {
		t.Fatalf("got %v, %v", ref, err)
	}
	if ref.Status != domain.ReferralBookingMade {
		t.Errorf("status should be untouched, got %s", ref.Status)
	}
	if ref.ReferrerRewardStatus != domain.RewardApproved || ref.RefereeRewardStatus != domain.RewardPending {
		t.Errorf("reward statuses = %s/%s", ref.ReferrerRewardStatus, ref.RefereeRewardStatus)
	}
}

func TestRecalculateCommissionForReferral(t *testing.T) {
	f := newCommissionFixture(t, "percentage", nil)
	ctx := context.Background()
	id := f.booking("20000", 6, dates.Date(2024, 7, 1), "ABCD1234")
	first, err := f.svc.ProcessBookingCommission(ctx, id)
	if err != nil || first == nil {
		t.Fatalf("process: %v %v", first, err)
	}
	if !first.ReferrerRewardAmount.Decimal.Equal(dec("1000")) {
		t.Fatalf("referrer = %s", first.ReferrerRewardAmount.Decimal)
	}

	p := f.programs.byID[f.program.ID]
	p.ReferrerRewardAmount = dec("7.5")
	f.programs.byID[p.ID] = p

	again, err := f.svc.RecalculateCommissionForReferral(ctx, first.ID)
	if err != nil || again == nil {
		t.Fatalf("recalculate: %v %v", again, err)
	}
	if !again.ReferrerRewardAmount.Decimal.Equal(dec("1500")) {
		t.Errorf("recalculated referrer = %s, want 1500", again.ReferrerRewardAmount.Decimal)
	}
	if !again.CompletedAt.Equal(*first.CompletedAt) {
		t.Error("recalculation should keep the original completion time")
	}

	unlinked := f.referrals.put(models.Referral{ProgramID: f.program.ID, ReferralCode: "NOBOOK01"})
	if ref, err := f.svc.RecalculateCommissionForReferral(ctx, unlinked.ID); err != nil || ref != nil {
		t.Errorf("referral without booking: %v, %v", ref, err)
	}
}

func TestMarkRewardStatusAllowsAnyTransition(t *testing.T) {
	f := newCommissionFixture(t, "percentage", nil)
	ctx := context.Background()

	ref, err := f.svc.MarkReferrerRewardStatus(ctx, f.referral.ID, domain.RewardPaid)
	if err != nil || ref.ReferrerRewardStatus != domain.RewardPaid {
		t.Fatalf("mark paid: %v %v", ref, err)
	}
	ref, err = f.svc.MarkReferrerRewardStatus(ctx, f.referral.ID, domain.RewardPending)
	if err != nil || ref.ReferrerRewardStatus != domain.RewardPending {
		t.Fatalf("paid back to pending: %v %v", ref, err)
	}
	ref, err = f.svc.MarkRefereeRewardStatus(ctx, f.referral.ID, domain.RewardCancelled)
	if err != nil || ref.RefereeRewardStatus != domain.RewardCancelled {
		t.Fatalf("referee cancel: %v %v", ref, err)
	}
	if _, err := f.svc.MarkRefereeRewardStatus(ctx, uuid.New(), domain.RewardPaid); err == nil {
		t.Error("unknown referral should fail")
	}
}
