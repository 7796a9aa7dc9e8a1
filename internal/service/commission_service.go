package service

import (
	"context"
	"log"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"
	"hostelhub/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletionStatuses are written onto a referral when its commission is
// applied. Nil fields leave the current value untouched.
type CompletionStatuses struct {
	Referral       *domain.ReferralStatus
	ReferrerReward *domain.RewardStatus
	RefereeReward  *domain.RewardStatus
}

// DefaultCompletion marks the referral completed with both rewards awaiting approval.
func DefaultCompletion() CompletionStatuses {
	completed := domain.ReferralCompleted
	pending := domain.RewardPending
	return CompletionStatuses{Referral: &completed, ReferrerReward: &pending, RefereeReward: &pending}
}

// CommissionService links confirmed bookings to referrals and computes the
// rewards. It never commits: callers own the transaction. A nil referral
// with a nil error means the booking did not qualify.
type CommissionService struct {
	bookings   BookingRepository
	referrals  ReferralRepository
	programs   ReferralProgramRepository
	clock      clock.Clock
	completion CompletionStatuses
}

func NewCommissionService(bookings BookingRepository, referrals ReferralRepository, programs ReferralProgramRepository, clk clock.Clock, completion CompletionStatuses) *CommissionService {
	return &CommissionService{
		bookings:   bookings,
		referrals:  referrals,
		programs:   programs,
		clock:      clk,
		completion: completion,
	}
}

func (s *CommissionService) ProcessBookingCommission(ctx context.Context, bookingID uuid.UUID) (*models.Referral, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil || booking == nil {
		return nil, err
	}
	if booking.ReferralCode == nil || *booking.ReferralCode == "" {
		return nil, nil
	}
	referral, err := s.referrals.GetByCode(ctx, *booking.ReferralCode)
	if err != nil || referral == nil {
		return nil, err
	}
	program, rule, err := s.activeProgram(ctx, referral.ProgramID)
	if err != nil || program == nil {
		return nil, err
	}
	if !bookingMeetsProgramCriteria(booking, program) {
		log.Printf("[commission] booking %s does not meet program %s criteria", booking.ID, program.ID)
		return nil, nil
	}
	s.apply(referral, booking, program, rule)
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, err
	}
	log.Printf("[commission] referral %s completed by booking %s (referrer %s, referee %s)",
		referral.ID, booking.ID, referral.ReferrerRewardAmount.Decimal.StringFixed(2), referral.RefereeRewardAmount.Decimal.StringFixed(2))
	return referral, nil
}

// RecalculateCommissionForReferral re-derives rewards from the current
// program rules, overwriting the stored amounts.
func (s *CommissionService) RecalculateCommissionForReferral(ctx context.Context, referralID uuid.UUID) (*models.Referral, error) {
	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil || referral == nil || referral.BookingID == nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, *referral.BookingID)
	if err != nil || booking == nil {
		return nil, err
	}
	program, rule, err := s.activeProgram(ctx, referral.ProgramID)
	if err != nil || program == nil {
		return nil, err
	}
	if !bookingMeetsProgramCriteria(booking, program) {
		return nil, nil
	}
	completedAt := referral.CompletedAt
	s.apply(referral, booking, program, rule)
	if completedAt != nil {
		referral.CompletedAt = completedAt
	}
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, err
	}
	log.Printf("[commission] referral %s recalculated", referral.ID)
	return referral, nil
}

// MarkReferrerRewardStatus sets the status without checking the transition.
func (s *CommissionService) MarkReferrerRewardStatus(ctx context.Context, referralID uuid.UUID, status domain.RewardStatus) (*models.Referral, error) {
	return s.setRewardStatus(ctx, referralID, func(r *models.Referral) { r.ReferrerRewardStatus = status })
}

// MarkRefereeRewardStatus sets the status without checking the transition.
func (s *CommissionService) MarkRefereeRewardStatus(ctx context.Context, referralID uuid.UUID, status domain.RewardStatus) (*models.Referral, error) {
	return s.setRewardStatus(ctx, referralID, func(r *models.Referral) { r.RefereeRewardStatus = status })
}

func (s *CommissionService) setRewardStatus(ctx context.Context, referralID uuid.UUID, set func(*models.Referral)) (*models.Referral, error) {
	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, domain.NotFound("referral", referralID)
	}
	set(referral)
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, err
	}
	return referral, nil
}

// activeProgram loads the program and its reward rule. A missing or
// inactive program, or one with an unknown reward type, yields nil.
func (s *CommissionService) activeProgram(ctx context.Context, id uuid.UUID) (*models.ReferralProgram, domain.RewardRule, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil || program == nil || !program.IsActive {
		return nil, nil, err
	}
	rule, err := program.RewardRule()
	if err != nil {
		log.Printf("[commission] program %s: %v", program.ID, err)
		return nil, nil, nil
	}
	return program, rule, nil
}

func (s *CommissionService) apply(referral *models.Referral, booking *models.Booking, program *models.ReferralProgram, rule domain.RewardRule) {
	referrer, referee := calculateRewardAmounts(rule, booking.TotalAmount)
	now := s.clock.Now().UTC()
	bookingID := booking.ID
	referral.BookingID = &bookingID
	referral.CompletedAt = &now
	referral.ReferrerRewardAmount = decimal.NewNullDecimal(referrer)
	referral.RefereeRewardAmount = decimal.NewNullDecimal(referee)
	referral.Currency = program.Currency
	if s.completion.Referral != nil {
		referral.Status = *s.completion.Referral
	}
	if s.completion.ReferrerReward != nil {
		referral.ReferrerRewardStatus = *s.completion.ReferrerReward
	}
	if s.completion.RefereeReward != nil {
		referral.RefereeRewardStatus = *s.completion.RefereeReward
	}
}

// bookingMeetsProgramCriteria checks the date window, minimum amount and
// minimum stay. Unset criteria always pass.
func bookingMeetsProgramCriteria(booking *models.Booking, program *models.ReferralProgram) bool {
	if !dates.Within(booking.BookingDate, program.ValidFrom, program.ValidTo) {
		return false
	}
	if program.MinBookingAmount.Valid && booking.TotalAmount.LessThan(program.MinBookingAmount.Decimal) {
		return false
	}
	if program.MinStayMonths != nil && booking.StayDurationMonths < *program.MinStayMonths {
		return false
	}
	return true
}

func calculateRewardAmounts(rule domain.RewardRule, total decimal.Decimal) (referrer, referee decimal.Decimal) {
	switch r := rule.(type) {
	case domain.PercentageReward:
		referrer = money.Percent(total, r.ReferrerRate)
		referee = money.Percent(total, r.RefereeRate)
	case domain.FlatReward:
		referrer = money.Quantize(r.ReferrerAmount)
		referee = money.Quantize(r.RefereeAmount)
	}
	return money.NonNegative(referrer), money.NonNegative(referee)
}
