package service

import (
	"context"
	"log"
	"strings"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/dates"
	"hostelhub/pkg/money"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProgramInput struct {
	Name                 string              `json:"name" validate:"required,max=120"`
	Description          string              `json:"description" validate:"max=500"`
	RewardType           string              `json:"reward_type" validate:"required"`
	ReferrerRewardAmount decimal.Decimal     `json:"referrer_reward_amount" validate:"gte=0"`
	RefereeRewardAmount  decimal.Decimal     `json:"referee_reward_amount" validate:"gte=0"`
	Currency             string              `json:"currency" validate:"omitempty,len=3"`
	MinBookingAmount     decimal.NullDecimal `json:"min_booking_amount" validate:"omitempty,gte=0"`
	MinStayMonths        *int                `json:"min_stay_months" validate:"omitempty,gte=0"`
	ValidFrom            *time.Time          `json:"valid_from"`
	ValidTo              *time.Time          `json:"valid_to"`
}

type CreateReferralInput struct {
	ProgramID     uuid.UUID  `json:"program_id" validate:"required"`
	ReferrerID    uuid.UUID  `json:"referrer_id" validate:"required"`
	RefereeEmail  string     `json:"referee_email" validate:"omitempty,email"`
	RefereePhone  string     `json:"referee_phone" validate:"omitempty,max=20"`
	RefereeUserID *uuid.UUID `json:"referee_user_id"`
}

// ReferralService manages programs and the referral links handed out under them.
type ReferralService struct {
	referrals ReferralRepository
	programs  ReferralProgramRepository
	validate  *validator.Validate
}

func NewReferralService(referrals ReferralRepository, programs ReferralProgramRepository) *ReferralService {
	return &ReferralService{referrals: referrals, programs: programs, validate: newValidator()}
}

func (s *ReferralService) CreateProgram(ctx context.Context, in CreateProgramInput) (*models.ReferralProgram, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	rule, err := domain.ParseRewardRule(in.RewardType, in.ReferrerRewardAmount, in.RefereeRewardAmount)
	if err != nil {
		return nil, err
	}
	if pct, ok := rule.(domain.PercentageReward); ok {
		limit := decimal.NewFromInt(100)
		if pct.ReferrerRate.GreaterThan(limit) || pct.RefereeRate.GreaterThan(limit) {
			return nil, domain.Invalid("referrer_reward_amount", "percentage rewards must be between 0 and 100")
		}
	}
	var from, to *time.Time
	if in.ValidFrom != nil {
		d := dates.Of(*in.ValidFrom)
		from = &d
	}
	if in.ValidTo != nil {
		d := dates.Of(*in.ValidTo)
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Invalid("valid_to", "must not be before valid_from")
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	p := &models.ReferralProgram{
		Name:                 in.Name,
		Description:          in.Description,
		RewardType:           strings.ToLower(strings.TrimSpace(in.RewardType)),
		ReferrerRewardAmount: money.Quantize(in.ReferrerRewardAmount),
		RefereeRewardAmount:  money.Quantize(in.RefereeRewardAmount),
		Currency:             currency,
		MinBookingAmount:     in.MinBookingAmount,
		MinStayMonths:        in.MinStayMonths,
		ValidFrom:            from,
		ValidTo:              to,
		IsActive:             true,
	}
	if err := s.programs.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[referral] program %s created (%s)", p.ID, p.RewardType)
	return p, nil
}

func (s *ReferralService) GetProgram(ctx context.Context, id uuid.UUID) (*models.ReferralProgram, error) {
	p, err := s.programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("referral program", id)
	}
	return p, nil
}

func (s *ReferralService) ListActivePrograms(ctx context.Context) ([]models.ReferralProgram, error) {
	return s.programs.ListActive(ctx)
}

// CreateReferral issues a new code under an active program. At least one
// way to identify the referee is required.
func (s *ReferralService) CreateReferral(ctx context.Context, in CreateReferralInput) (*models.Referral, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	if in.RefereeEmail == "" && in.RefereePhone == "" && in.RefereeUserID == nil {
		return nil, domain.Invalid("referee", "one of referee_email, referee_phone or referee_user_id is required")
	}
	program, err := s.GetProgram(ctx, in.ProgramID)
	if err != nil {
		return nil, err
	}
	if !program.IsActive {
		return nil, domain.Invalid("program_id", "program is not active")
	}
	ref := &models.Referral{
		ProgramID:            program.ID,
		ReferrerID:           in.ReferrerID,
		RefereeUserID:        in.RefereeUserID,
		Status:               domain.ReferralPending,
		Currency:             program.Currency,
		ReferrerRewardStatus: domain.RewardPending,
		RefereeRewardStatus:  domain.RewardPending,
	}
	if in.RefereeEmail != "" {
		email := strings.ToLower(in.RefereeEmail)
		ref.RefereeEmail = &email
	}
	if in.RefereePhone != "" {
		phone := in.RefereePhone
		ref.RefereePhone = &phone
	}
	if err := s.referrals.CreateWithCode(ctx, ref); err != nil {
		return nil, err
	}
	log.Printf("[referral] %s issued code %s", ref.ReferrerID, ref.ReferralCode)
	return ref, nil
}

func (s *ReferralService) GetReferral(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	ref, err := s.referrals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.NotFound("referral", id)
	}
	return ref, nil
}

func (s *ReferralService) ListReferralsByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error) {
	return s.referrals.ListByReferrer(ctx, referrerID)
}

// RecordBookingMade moves an open referral to BOOKING_MADE when its code is
// used on a booking. Unknown codes and self-referrals are ignored.
func (s *ReferralService) RecordBookingMade(ctx context.Context, code string, studentID uuid.UUID) (*models.Referral, error) {
	if code == "" {
		return nil, nil
	}
	ref, err := s.referrals.GetByCode(ctx, code)
	if err != nil || ref == nil || ref.ReferrerID == studentID {
		return nil, err
	}
	if ref.Status != domain.ReferralPending && ref.Status != domain.ReferralRegistered {
		return ref, nil
	}
	ref.Status = domain.ReferralBookingMade
	if ref.RefereeUserID == nil {
		id := studentID
		ref.RefereeUserID = &id
	}
	if err := s.referrals.Update(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}
