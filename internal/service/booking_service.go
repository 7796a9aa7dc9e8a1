package service

import (
	"context"
	"log"
	"strings"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"
	"hostelhub/pkg/money"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingInput struct {
	HostelID           uuid.UUID       `json:"hostel_id" validate:"required"`
	StudentID          uuid.UUID       `json:"student_id" validate:"required"`
	RoomType           domain.RoomType `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE FOUR_SHARING DORMITORY"`
	CheckInDate        *time.Time      `json:"check_in_date"`
	StayDurationMonths int             `json:"stay_duration_months" validate:"gte=1"`
	TotalAmount        decimal.Decimal `json:"total_amount" validate:"gt=0"`
	ReferralCode       string          `json:"referral_code" validate:"omitempty,max=20"`
}

// ConfirmationResult pairs a confirmed booking with the referral it
// completed, if any.
type ConfirmationResult struct {
	Booking  *models.Booking  `json:"booking"`
	Referral *models.Referral `json:"referral"`
}

type BookingService struct {
	bookings   BookingRepository
	hostels    HostelRepository
	referrals  *ReferralService
	commission *CommissionService
	clock      clock.Clock
	currency   string
	validate   *validator.Validate
}

func NewBookingService(bookings BookingRepository, hostels HostelRepository, referrals *ReferralService, commission *CommissionService, clk clock.Clock, currency string) *BookingService {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &BookingService{
		bookings:   bookings,
		hostels:    hostels,
		referrals:  referrals,
		commission: commission,
		clock:      clk,
		currency:   currency,
		validate:   newValidator(),
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	hostel, err := s.hostels.GetByID(ctx, in.HostelID)
	if err != nil {
		return nil, err
	}
	if hostel == nil {
		return nil, domain.NotFound("hostel", in.HostelID)
	}
	b := &models.Booking{
		HostelID:           in.HostelID,
		StudentID:          in.StudentID,
		RoomType:           in.RoomType,
		BookingDate:        s.clock.Now(),
		StayDurationMonths: in.StayDurationMonths,
		TotalAmount:        money.Quantize(in.TotalAmount),
		Currency:           s.currency,
		Status:             domain.BookingPending,
	}
	if in.CheckInDate != nil {
		d := dates.Of(*in.CheckInDate)
		b.CheckInDate = &d
	}
	if code := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); code != "" {
		b.ReferralCode = &code
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	if b.ReferralCode != nil && s.referrals != nil {
		if _, err := s.referrals.RecordBookingMade(ctx, *b.ReferralCode, b.StudentID); err != nil {
			return nil, err
		}
	}
	log.Printf("[booking] %s created at hostel %s", b.ID, b.HostelID)
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NotFound("booking", id)
	}
	return b, nil
}

// ConfirmBooking confirms a pending booking and processes its referral
// commission. Run it inside a unit of work so both writes land together.
func (s *BookingService) ConfirmBooking(ctx context.Context, id uuid.UUID) (*ConfirmationResult, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, &domain.TransitionError{Entity: "booking", From: string(b.Status), To: string(domain.BookingConfirmed)}
	}
	b.Status = domain.BookingConfirmed
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	referral, err := s.commission.ProcessBookingCommission(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[booking] %s confirmed", b.ID)
	return &ConfirmationResult{Booking: b, Referral: referral}, nil
}
