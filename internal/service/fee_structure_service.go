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

type FeeStructureInput struct {
	HostelID               uuid.UUID           `json:"hostel_id" validate:"required"`
	RoomType               domain.RoomType     `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE FOUR_SHARING DORMITORY"`
	FeeType                domain.FeeType      `json:"fee_type" validate:"required,oneof=MONTHLY QUARTERLY HALF_YEARLY YEARLY"`
	Amount                 decimal.Decimal     `json:"amount" validate:"gt=0"`
	SecurityDeposit        decimal.Decimal     `json:"security_deposit" validate:"gte=0"`
	IncludesMess           bool                `json:"includes_mess"`
	MessChargesMonthly     decimal.Decimal     `json:"mess_charges_monthly" validate:"gte=0"`
	ElectricityCharges     domain.ChargeType   `json:"electricity_charges" validate:"required,oneof=INCLUDED ACTUAL FIXED_MONTHLY"`
	WaterCharges           domain.ChargeType   `json:"water_charges" validate:"required,oneof=INCLUDED ACTUAL FIXED_MONTHLY"`
	ElectricityFixedAmount decimal.NullDecimal `json:"electricity_fixed_amount" validate:"omitempty,gte=0"`
	WaterFixedAmount       decimal.NullDecimal `json:"water_fixed_amount" validate:"omitempty,gte=0"`
	EffectiveFrom          time.Time           `json:"effective_from" validate:"required"`
	EffectiveTo            *time.Time          `json:"effective_to"`
	IsActive               *bool               `json:"is_active"`
}

// FeeStructureUpdate carries a partial change; nil fields are left alone.
type FeeStructureUpdate struct {
	Amount                 *decimal.Decimal   `json:"amount" validate:"omitempty,gt=0"`
	SecurityDeposit        *decimal.Decimal   `json:"security_deposit" validate:"omitempty,gte=0"`
	IncludesMess           *bool              `json:"includes_mess"`
	MessChargesMonthly     *decimal.Decimal   `json:"mess_charges_monthly" validate:"omitempty,gte=0"`
	ElectricityCharges     *domain.ChargeType `json:"electricity_charges" validate:"omitempty,oneof=INCLUDED ACTUAL FIXED_MONTHLY"`
	WaterCharges           *domain.ChargeType `json:"water_charges" validate:"omitempty,oneof=INCLUDED ACTUAL FIXED_MONTHLY"`
	ElectricityFixedAmount *decimal.Decimal   `json:"electricity_fixed_amount" validate:"omitempty,gte=0"`
	WaterFixedAmount       *decimal.Decimal   `json:"water_fixed_amount" validate:"omitempty,gte=0"`
	EffectiveFrom          *time.Time         `json:"effective_from"`
	EffectiveTo            *time.Time         `json:"effective_to"`
	IsActive               *bool              `json:"is_active"`
}

type FeeStructureView struct {
	models.FeeStructure
	HostelName string           `json:"hostel_name"`
	Charges    ChargesBreakdown `json:"charges"`
}

// FeeDetail is the per-room summary shown to prospective residents.
type FeeDetail struct {
	FeeStructureID         uuid.UUID         `json:"fee_structure_id"`
	RoomType               domain.RoomType   `json:"room_type"`
	FeeType                domain.FeeType    `json:"fee_type"`
	MonthlyRent            decimal.Decimal   `json:"monthly_rent"`
	SecurityDeposit        decimal.Decimal   `json:"security_deposit"`
	IncludesMess           bool              `json:"includes_mess"`
	MessCharges            decimal.Decimal   `json:"mess_charges"`
	ElectricityChargeType  domain.ChargeType `json:"electricity_charge_type"`
	ElectricityCharges     decimal.Decimal   `json:"electricity_charges"`
	WaterChargeType        domain.ChargeType `json:"water_charge_type"`
	WaterCharges           decimal.Decimal   `json:"water_charges"`
	TotalRecurringMonthly  decimal.Decimal   `json:"total_recurring_monthly"`
	TotalFirstMonthPayable decimal.Decimal   `json:"total_first_month_payable"`
	EffectiveFrom          time.Time         `json:"effective_from"`
	EffectiveTo            *time.Time        `json:"effective_to"`
}

type FeeStructureService struct {
	fees     FeeStructureRepository
	hostels  HostelRepository
	clock    clock.Clock
	validate *validator.Validate
}

func NewFeeStructureService(fees FeeStructureRepository, hostels HostelRepository, clk clock.Clock) *FeeStructureService {
	return &FeeStructureService{fees: fees, hostels: hostels, clock: clk, validate: newValidator()}
}

// CreateFeeStructure inserts a new row. Overlapping windows for the same
// hostel, room and fee type are not checked.
func (s *FeeStructureService) CreateFeeStructure(ctx context.Context, in FeeStructureInput) (*FeeStructureView, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}
	from := dates.Of(in.EffectiveFrom)
	to, err := normalizeWindowEnd(from, in.EffectiveTo)
	if err != nil {
		return nil, err
	}
	hostel, err := s.requireHostel(ctx, in.HostelID)
	if err != nil {
		return nil, err
	}
	fs := &models.FeeStructure{
		HostelID:           in.HostelID,
		RoomType:           in.RoomType,
		FeeType:            in.FeeType,
		Amount:             money.Quantize(in.Amount),
		SecurityDeposit:    money.Quantize(in.SecurityDeposit),
		IncludesMess:       in.IncludesMess,
		MessChargesMonthly: money.Quantize(in.MessChargesMonthly),
		ElectricityCharges: in.ElectricityCharges,
		WaterCharges:       in.WaterCharges,
		EffectiveFrom:      from,
		EffectiveTo:        to,
		IsActive:           in.IsActive == nil || *in.IsActive,
	}
	if in.ElectricityFixedAmount.Valid {
		fs.ElectricityFixedAmount = decimal.NewNullDecimal(money.Quantize(in.ElectricityFixedAmount.Decimal))
	}
	if in.WaterFixedAmount.Valid {
		fs.WaterFixedAmount = decimal.NewNullDecimal(money.Quantize(in.WaterFixedAmount.Decimal))
	}
	if err := s.fees.Create(ctx, fs); err != nil {
		return nil, err
	}
	log.Printf("[fees] created %s for hostel %s %s/%s from %s", fs.ID, fs.HostelID, fs.RoomType, fs.FeeType, from.Format(dates.Layout))
	return newFeeStructureView(fs, hostel), nil
}

func (s *FeeStructureService) UpdateFeeStructure(ctx context.Context, id uuid.UUID, upd FeeStructureUpdate) (*FeeStructureView, error) {
	if err := validateStruct(s.validate, upd); err != nil {
		return nil, err
	}
	fs, err := s.requireFeeStructure(ctx, id)
	if err != nil {
		return nil, err
	}
	applyFeeStructureUpdate(fs, upd)
	if fs.EffectiveTo != nil && fs.EffectiveTo.Before(fs.EffectiveFrom) {
		return nil, domain.Invalid("effective_to", "must not be before effective_from")
	}
	if err := s.fees.Update(ctx, fs); err != nil {
		return nil, err
	}
	return s.view(ctx, fs)
}

// DeactivateFeeStructure switches the row off and closes an open window today.
func (s *FeeStructureService) DeactivateFeeStructure(ctx context.Context, id uuid.UUID) (*FeeStructureView, error) {
	fs, err := s.requireFeeStructure(ctx, id)
	if err != nil {
		return nil, err
	}
	fs.IsActive = false
	if fs.EffectiveTo == nil {
		today := dates.Of(s.clock.Now())
		fs.EffectiveTo = &today
	}
	if err := s.fees.Update(ctx, fs); err != nil {
		return nil, err
	}
	log.Printf("[fees] deactivated %s", fs.ID)
	return s.view(ctx, fs)
}

// SupersedeFeeStructure revises prices from effectiveFrom onward: the old row
// is closed the day before and a copy carrying the changes takes over.
func (s *FeeStructureService) SupersedeFeeStructure(ctx context.Context, id uuid.UUID, upd FeeStructureUpdate, effectiveFrom time.Time) (*FeeStructureView, error) {
	if err := validateStruct(s.validate, upd); err != nil {
		return nil, err
	}
	old, err := s.requireFeeStructure(ctx, id)
	if err != nil {
		return nil, err
	}
	effectiveFrom = dates.Of(effectiveFrom)
	if !effectiveFrom.After(dates.Of(old.EffectiveFrom)) {
		return nil, domain.Invalid("effective_from", "must be after the current structure's effective_from")
	}

	next := *old
	next.ID = uuid.Nil
	next.CreatedAt = time.Time{}
	next.UpdatedAt = time.Time{}
	next.Hostel = nil
	next.EffectiveTo = nil
	if old.EffectiveTo != nil && !old.EffectiveTo.Before(effectiveFrom) {
		end := *old.EffectiveTo
		next.EffectiveTo = &end
	}
	upd.EffectiveFrom = nil
	applyFeeStructureUpdate(&next, upd)
	next.EffectiveFrom = effectiveFrom
	next.IsActive = true
	if next.EffectiveTo != nil && next.EffectiveTo.Before(next.EffectiveFrom) {
		return nil, domain.Invalid("effective_to", "must not be before effective_from")
	}

	// A window that already closed before effectiveFrom stays as it was.
	if old.EffectiveTo == nil || !dates.Of(*old.EffectiveTo).Before(effectiveFrom) {
		closeAt := effectiveFrom.AddDate(0, 0, -1)
		old.EffectiveTo = &closeAt
		if err := s.fees.Update(ctx, old); err != nil {
			return nil, err
		}
	}
	if err := s.fees.Create(ctx, &next); err != nil {
		return nil, err
	}
	log.Printf("[fees] %s superseded by %s from %s", old.ID, next.ID, effectiveFrom.Format(dates.Layout))
	return s.view(ctx, &next)
}

func (s *FeeStructureService) GetFeeStructure(ctx context.Context, id uuid.UUID) (*FeeStructureView, error) {
	fs, err := s.requireFeeStructure(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, fs)
}

func (s *FeeStructureService) ListForHostel(ctx context.Context, hostelID uuid.UUID) ([]FeeStructureView, error) {
	hostel, err := s.requireHostel(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	list, err := s.fees.ListByHostel(ctx, hostelID, false)
	if err != nil {
		return nil, err
	}
	out := make([]FeeStructureView, 0, len(list))
	for i := range list {
		out = append(out, *newFeeStructureView(&list[i], hostel))
	}
	return out, nil
}

// GetFeeDetailsForHostel summarises every active structure at the hostel.
func (s *FeeStructureService) GetFeeDetailsForHostel(ctx context.Context, hostelID uuid.UUID) ([]FeeDetail, error) {
	if _, err := s.requireHostel(ctx, hostelID); err != nil {
		return nil, err
	}
	list, err := s.fees.ListByHostel(ctx, hostelID, true)
	if err != nil {
		return nil, err
	}
	out := make([]FeeDetail, 0, len(list))
	for i := range list {
		fs := &list[i]
		b := NewChargesBreakdown(fs)
		out = append(out, FeeDetail{
			FeeStructureID:         fs.ID,
			RoomType:               fs.RoomType,
			FeeType:                fs.FeeType,
			MonthlyRent:            b.BaseRent,
			SecurityDeposit:        b.SecurityDeposit,
			IncludesMess:           fs.IncludesMess,
			MessCharges:            b.MessCharges,
			ElectricityChargeType:  fs.ElectricityCharges,
			ElectricityCharges:     b.ElectricityCharges,
			WaterChargeType:        fs.WaterCharges,
			WaterCharges:           b.WaterCharges,
			TotalRecurringMonthly:  b.TotalMonthly,
			TotalFirstMonthPayable: b.TotalFirstMonth,
			EffectiveFrom:          fs.EffectiveFrom,
			EffectiveTo:            fs.EffectiveTo,
		})
	}
	return out, nil
}

func (s *FeeStructureService) requireFeeStructure(ctx context.Context, id uuid.UUID) (*models.FeeStructure, error) {
	fs, err := s.fees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fs == nil {
		return nil, domain.NotFound("fee structure", id)
	}
	return fs, nil
}

func (s *FeeStructureService) requireHostel(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	h, err := s.hostels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.NotFound("hostel", id)
	}
	return h, nil
}

func (s *FeeStructureService) view(ctx context.Context, fs *models.FeeStructure) (*FeeStructureView, error) {
	hostel, err := s.hostels.GetByID(ctx, fs.HostelID)
	if err != nil {
		return nil, err
	}
	return newFeeStructureView(fs, hostel), nil
}

func newFeeStructureView(fs *models.FeeStructure, hostel *models.Hostel) *FeeStructureView {
	v := &FeeStructureView{FeeStructure: *fs, Charges: NewChargesBreakdown(fs)}
	if hostel != nil {
		v.HostelName = hostel.Name
	}
	return v
}

func applyFeeStructureUpdate(fs *models.FeeStructure, upd FeeStructureUpdate) {
	if upd.Amount != nil {
		fs.Amount = money.Quantize(*upd.Amount)
	}
	if upd.SecurityDeposit != nil {
		fs.SecurityDeposit = money.Quantize(*upd.SecurityDeposit)
	}
	if upd.IncludesMess != nil {
		fs.IncludesMess = *upd.IncludesMess
	}
	if upd.MessChargesMonthly != nil {
		fs.MessChargesMonthly = money.Quantize(*upd.MessChargesMonthly)
	}
	if upd.ElectricityCharges != nil {
		fs.ElectricityCharges = *upd.ElectricityCharges
	}
	if upd.WaterCharges != nil {
		fs.WaterCharges = *upd.WaterCharges
	}
	if upd.ElectricityFixedAmount != nil {
		fs.ElectricityFixedAmount = decimal.NewNullDecimal(money.Quantize(*upd.ElectricityFixedAmount))
	}
	if upd.WaterFixedAmount != nil {
		fs.WaterFixedAmount = decimal.NewNullDecimal(money.Quantize(*upd.WaterFixedAmount))
	}
	if upd.EffectiveFrom != nil {
		fs.EffectiveFrom = dates.Of(*upd.EffectiveFrom)
	}
	if upd.EffectiveTo != nil {
		to := dates.Of(*upd.EffectiveTo)
		fs.EffectiveTo = &to
	}
	if upd.IsActive != nil {
		fs.IsActive = *upd.IsActive
	}
}

func normalizeWindowEnd(from time.Time, to *time.Time) (*time.Time, error) {
	if to == nil {
		return nil, nil
	}
	end := dates.Of(*to)
	if end.Before(from) {
		return nil, domain.Invalid("effective_to", "must not be before effective_from")
	}
	return &end, nil
}
