package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRewardRule(t *testing.T) {
	five := decimal.NewFromInt(5)
	tests := []struct {
		kind    string
		want    RewardRule
		wantErr bool
	}{
		{"percentage", PercentageReward{ReferrerRate: five, RefereeRate: five}, false},
		{"PERCENTAGE", PercentageReward{ReferrerRate: five, RefereeRate: five}, false},
		{" Flat ", FlatReward{ReferrerAmount: five, RefereeAmount: five}, false},
		{"points", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := ParseRewardRule(tt.kind, five, five)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch w := tt.want.(type) {
			case PercentageReward:
				g, ok := got.(PercentageReward)
				if !ok || !g.ReferrerRate.Equal(w.ReferrerRate) {
					t.Errorf("got %#v, want %#v", got, tt.want)
				}
			case FlatReward:
				g, ok := got.(FlatReward)
				if !ok || !g.ReferrerAmount.Equal(w.ReferrerAmount) {
					t.Errorf("got %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestFeeTypePeriodMonths(t *testing.T) {
	cases := map[FeeType]int{FeeMonthly: 1, FeeQuarterly: 3, FeeHalfYearly: 6, FeeYearly: 12}
	for ft, want := range cases {
		got, ok := ft.PeriodMonths()
		if !ok || got != want {
			t.Errorf("%s: got %d,%v want %d", ft, got, ok, want)
		}
	}
	if _, ok := FeeType("WEEKLY").PeriodMonths(); ok {
		t.Error("unknown fee type should not have a period")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &NotFoundError{Entity: "hostel", ID: "x"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}
	err = &TransitionError{Entity: "payment", From: "PENDING", To: "REFUNDED"}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("TransitionError should unwrap to ErrInvalidTransition")
	}
}
