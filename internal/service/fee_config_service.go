package service

import (
	"context"
	"fmt"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/dates"
	"hostelhub/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargesBreakdown is the monthly cost of a fee structure split by component.
// TotalMonthly is always the sum of the five components.
type ChargesBreakdown struct {
	BaseRent           decimal.Decimal `json:"base_rent"`
	MessCharges        decimal.Decimal `json:"mess_charges"`
	ElectricityCharges decimal.Decimal `json:"electricity_charges"`
	WaterCharges       decimal.Decimal `json:"water_charges"`
	OtherCharges       decimal.Decimal `json:"other_charges"`
	TotalMonthly       decimal.Decimal `json:"total_monthly"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit"`
	TotalFirstMonth    decimal.Decimal `json:"total_first_month"`
}

// NewChargesBreakdown derives the breakdown for fs. Utilities only contribute
// when billed as FIXED_MONTHLY with an amount set; ACTUAL and INCLUDED are zero here.
func NewChargesBreakdown(fs *models.FeeStructure) ChargesBreakdown {
	b := ChargesBreakdown{
		BaseRent:           money.Quantize(fs.Amount),
		MessCharges:        decimal.Zero,
		ElectricityCharges: money.Quantize(fixedCharge(fs.ElectricityCharges, fs.ElectricityFixedAmount)),
		WaterCharges:       money.Quantize(fixedCharge(fs.WaterCharges, fs.WaterFixedAmount)),
		OtherCharges:       decimal.Zero,
		SecurityDeposit:    money.Quantize(fs.SecurityDeposit),
	}
	if fs.IncludesMess {
		b.MessCharges = money.Quantize(fs.MessChargesMonthly)
	}
	b.TotalMonthly = b.BaseRent.Add(b.MessCharges).Add(b.ElectricityCharges).Add(b.WaterCharges).Add(b.OtherCharges)
	b.TotalFirstMonth = b.TotalMonthly.Add(b.SecurityDeposit)
	return b
}

func fixedCharge(kind domain.ChargeType, amount decimal.NullDecimal) decimal.Decimal {
	if kind == domain.ChargeFixedMonthly && amount.Valid {
		return amount.Decimal
	}
	return decimal.Zero
}

type FeeConfiguration struct {
	FeeStructureID     uuid.UUID         `json:"fee_structure_id"`
	HostelID           uuid.UUID         `json:"hostel_id"`
	RoomType           domain.RoomType   `json:"room_type"`
	FeeType            domain.FeeType    `json:"fee_type"`
	IncludesMess       bool              `json:"includes_mess"`
	ElectricityCharges domain.ChargeType `json:"electricity_charge_type"`
	WaterCharges       domain.ChargeType `json:"water_charge_type"`
	EffectiveFrom      time.Time         `json:"effective_from"`
	EffectiveTo        *time.Time        `json:"effective_to"`
	AsOf               time.Time         `json:"as_of"`
	Charges            ChargesBreakdown  `json:"charges"`
}

type StayEstimate struct {
	Configuration FeeConfiguration `json:"configuration"`
	Months        int              `json:"months"`
	Total         decimal.Decimal  `json:"total"`
}

type FeeConfigService struct {
	fees FeeStructureRepository
}

func NewFeeConfigService(fees FeeStructureRepository) *FeeConfigService {
	return &FeeConfigService{fees: fees}
}

// GetEffectiveFeeConfiguration resolves the structure in force on asOf.
func (s *FeeConfigService) GetEffectiveFeeConfiguration(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType, feeType domain.FeeType, asOf time.Time) (*FeeConfiguration, error) {
	asOf = dates.Of(asOf)
	fs, err := s.fees.FindEffective(ctx, hostelID, roomType, feeType, asOf)
	if err != nil {
		return nil, err
	}
	if fs == nil {
		return nil, &domain.NotFoundError{
			Entity: "fee structure",
			ID:     fmt.Sprintf("%s/%s/%s on %s", hostelID, roomType, feeType, asOf.Format(dates.Layout)),
		}
	}
	return &FeeConfiguration{
		FeeStructureID:     fs.ID,
		HostelID:           fs.HostelID,
		RoomType:           fs.RoomType,
		FeeType:            fs.FeeType,
		IncludesMess:       fs.IncludesMess,
		ElectricityCharges: fs.ElectricityCharges,
		WaterCharges:       fs.WaterCharges,
		EffectiveFrom:      fs.EffectiveFrom,
		EffectiveTo:        fs.EffectiveTo,
		AsOf:               asOf,
		Charges:            NewChargesBreakdown(fs),
	}, nil
}

// EstimateStayCost prices a stay of months: the first month carries the deposit.
func (s *FeeConfigService) EstimateStayCost(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType, feeType domain.FeeType, asOf time.Time, months int) (*StayEstimate, error) {
	if months < 1 {
		return nil, domain.Invalid("months", "must be at least 1")
	}
	cfg, err := s.GetEffectiveFeeConfiguration(ctx, hostelID, roomType, feeType, asOf)
	if err != nil {
		return nil, err
	}
	rest := cfg.Charges.TotalMonthly.Mul(decimal.NewFromInt(int64(months - 1)))
	return &StayEstimate{
		Configuration: *cfg,
		Months:        months,
		Total:         money.Quantize(cfg.Charges.TotalFirstMonth.Add(rest)),
	}, nil
}
