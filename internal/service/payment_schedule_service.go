package service

import (
	"context"
	"log"
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

type CreateScheduleInput struct {
	StudentID           uuid.UUID       `json:"student_id" validate:"required"`
	HostelID            uuid.UUID       `json:"hostel_id" validate:"required"`
	BookingID           *uuid.UUID      `json:"booking_id"`
	FeeType             domain.FeeType  `json:"fee_type" validate:"required,oneof=MONTHLY QUARTERLY HALF_YEARLY YEARLY"`
	Amount              decimal.Decimal `json:"amount" validate:"gt=0"`
	StartDate           time.Time       `json:"start_date" validate:"required"`
	EndDate             *time.Time      `json:"end_date"`
	AutoGenerateInvoice bool            `json:"auto_generate_invoice"`
}

type UpdateScheduleInput struct {
	Amount              *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	EndDate             *time.Time       `json:"end_date"`
	AutoGenerateInvoice *bool            `json:"auto_generate_invoice"`
}

type GenerateRequest struct {
	FromDate          time.Time `json:"generate_from_date" validate:"required"`
	ToDate            time.Time `json:"generate_to_date" validate:"required,gtefield=FromDate"`
	SkipIfAlreadyPaid bool      `json:"skip_if_already_paid"`
}

type GenerationResult struct {
	ScheduleID           uuid.UUID   `json:"schedule_id"`
	PaymentsGenerated    int         `json:"payments_generated"`
	PaymentsSkipped      int         `json:"payments_skipped"`
	PeriodsFastForwarded int         `json:"periods_fast_forwarded"`
	GeneratedPaymentIDs  []uuid.UUID `json:"generated_payment_ids"`
	NextGenerationDate   time.Time   `json:"next_generation_date"`
}

// PaymentDefaults are stamped on generated payments.
type PaymentDefaults struct {
	Gateway  string
	Currency string
}

type PaymentScheduleService struct {
	schedules ScheduleStore
	payments  PaymentRepository
	clock     clock.Clock
	defaults  PaymentDefaults
	validate  *validator.Validate
}

func NewPaymentScheduleService(schedules ScheduleStore, payments PaymentRepository, clk clock.Clock, defaults PaymentDefaults) *PaymentScheduleService {
	if defaults.Currency == "" {
		defaults.Currency = domain.DefaultCurrency
	}
	return &PaymentScheduleService{
		schedules: schedules,
		payments:  payments,
		clock:     clk,
		defaults:  defaults,
		validate:  newValidator(),
	}
}

func (s *PaymentScheduleService) CreateSchedule(ctx context.Context, in CreateScheduleInput) (*models.PaymentSchedule, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	start := dates.Of(in.StartDate)
	end, err := normalizeScheduleEnd(start, in.EndDate)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	sch := &models.PaymentSchedule{
		ID:                  uuid.New(),
		StudentID:           in.StudentID,
		HostelID:            in.HostelID,
		BookingID:           in.BookingID,
		FeeType:             in.FeeType,
		Amount:              money.Quantize(in.Amount),
		Currency:            s.defaults.Currency,
		StartDate:           start,
		EndDate:             end,
		NextDueDate:         start,
		AutoGenerateInvoice: in.AutoGenerateInvoice,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.schedules.SaveSchedule(ctx, sch.ID, sch); err != nil {
		return nil, err
	}
	log.Printf("[schedule] created %s for student %s (%s %s)", sch.ID, sch.StudentID, sch.FeeType, sch.Amount.StringFixed(2))
	return sch, nil
}

func (s *PaymentScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	sch, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if sch == nil {
		return nil, domain.NotFound("payment schedule", id)
	}
	return sch, nil
}

func (s *PaymentScheduleService) ListSchedulesForStudent(ctx context.Context, studentID uuid.UUID) ([]models.PaymentSchedule, error) {
	return s.schedules.ListSchedulesForStudent(ctx, studentID)
}

func (s *PaymentScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, in UpdateScheduleInput) (*models.PaymentSchedule, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	sch, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		sch.Amount = money.Quantize(*in.Amount)
	}
	if in.EndDate != nil {
		end, err := normalizeScheduleEnd(sch.StartDate, in.EndDate)
		if err != nil {
			return nil, err
		}
		sch.EndDate = end
	}
	if in.AutoGenerateInvoice != nil {
		sch.AutoGenerateInvoice = *in.AutoGenerateInvoice
	}
	sch.UpdatedAt = s.clock.Now()
	if err := s.schedules.SaveSchedule(ctx, sch.ID, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// DeactivateSchedule stops future generation, e.g. when the student leaves.
func (s *PaymentScheduleService) DeactivateSchedule(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	sch, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	sch.IsActive = false
	sch.UpdatedAt = s.clock.Now()
	if err := s.schedules.SaveSchedule(ctx, sch.ID, sch); err != nil {
		return nil, err
	}
	log.Printf("[schedule] deactivated %s", sch.ID)
	return sch, nil
}

// GenerateScheduledPayments walks the schedule's due dates up to req.ToDate
// and creates a PENDING rent payment for each one on or after req.FromDate.
// Due dates before FromDate are stepped over without a payment, and the
// cursor is saved past them, so those periods are never billed later.
//
// The existence check and insert are not atomic: two concurrent runs for
// the same schedule can both insert a payment for one due date. Callers run
// this inside a unit of work and the worker holds a per-schedule lock.
func (s *PaymentScheduleService) GenerateScheduledPayments(ctx context.Context, scheduleID uuid.UUID, req GenerateRequest) (*GenerationResult, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	sch, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sch.IsActive {
		return nil, domain.Invalid("schedule_id", "schedule is not active")
	}
	months, ok := sch.FeeType.PeriodMonths()
	if !ok {
		return nil, domain.Invalid("fee_type", "unsupported fee type "+string(sch.FeeType))
	}

	from, to := dates.Of(req.FromDate), dates.Of(req.ToDate)
	result := &GenerationResult{ScheduleID: sch.ID, GeneratedPaymentIDs: []uuid.UUID{}}
	current := dates.Of(sch.NextDueDate)
	for !current.After(to) {
		if current.Before(from) {
			result.PeriodsFastForwarded++
			current = dates.AddMonths(current, months)
			continue
		}
		existing, err := s.payments.FindByStudentHostelDueDate(ctx, sch.StudentID, sch.HostelID, current)
		if err != nil {
			return nil, err
		}
		if existing != nil && req.SkipIfAlreadyPaid {
			result.PaymentsSkipped++
		} else {
			p, err := s.newScheduledPayment(ctx, sch, current)
			if err != nil {
				return nil, err
			}
			result.PaymentsGenerated++
			result.GeneratedPaymentIDs = append(result.GeneratedPaymentIDs, p.ID)
		}
		current = dates.AddMonths(current, months)
	}

	sch.NextDueDate = current
	sch.UpdatedAt = s.clock.Now()
	if err := s.schedules.SaveSchedule(ctx, sch.ID, sch); err != nil {
		return nil, err
	}
	result.NextGenerationDate = current

	if result.PeriodsFastForwarded > 0 {
		log.Printf("[schedule] WARNING: %s fast-forwarded %d period(s) before %s without billing them",
			sch.ID, result.PeriodsFastForwarded, from.Format(dates.Layout))
	}
	log.Printf("[schedule] %s generated=%d skipped=%d next=%s", sch.ID, result.PaymentsGenerated, result.PaymentsSkipped, current.Format(dates.Layout))
	return result, nil
}

func (s *PaymentScheduleService) newScheduledPayment(ctx context.Context, sch *models.PaymentSchedule, due time.Time) (*models.Payment, error) {
	dueDate := due
	scheduleID := sch.ID
	p := &models.Payment{
		ID:             uuid.New(),
		PayerID:        sch.StudentID,
		StudentID:      sch.StudentID,
		HostelID:       sch.HostelID,
		BookingID:      sch.BookingID,
		ScheduleID:     &scheduleID,
		PaymentType:    domain.PaymentTypeRent,
		Amount:         money.Quantize(sch.Amount),
		Currency:       sch.Currency,
		PaymentMethod:  domain.MethodGateway,
		PaymentGateway: s.defaults.Gateway,
		PaymentStatus:  domain.PaymentPending,
		DueDate:        &dueDate,
		RefundAmount:   decimal.Zero,
	}
	if p.Currency == "" {
		p.Currency = s.defaults.Currency
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func normalizeScheduleEnd(start time.Time, end *time.Time) (*time.Time, error) {
	if end == nil {
		return nil, nil
	}
	e := dates.Of(*end)
	if e.Before(start) {
		return nil, domain.Invalid("end_date", "must not be before start_date")
	}
	return &e, nil
}
