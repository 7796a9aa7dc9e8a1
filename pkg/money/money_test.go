package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuantizeBankers(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.005", "1.00"},
		{"1.015", "1.02"},
		{"1.025", "1.02"},
		{"2.5", "2.50"},
		{"10", "10.00"},
		{"-3.335", "-3.34"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Quantize(d(tt.in))
			if !got.Equal(d(tt.want)) {
				t.Errorf("Quantize(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(d("10000"), d("5")); !got.Equal(d("500")) {
		t.Errorf("5%% of 10000 = %s, want 500", got)
	}
	if got := Percent(d("333.33"), d("10")); !got.Equal(d("33.33")) {
		t.Errorf("10%% of 333.33 = %s, want 33.33", got)
	}
}

func TestNonNegative(t *testing.T) {
	if got := NonNegative(d("-1")); !got.IsZero() {
		t.Errorf("NonNegative(-1) = %s", got)
	}
	if got := NonNegative(d("4.2")); !got.Equal(d("4.2")) {
		t.Errorf("NonNegative(4.2) = %s", got)
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(1, 3); !got.Equal(d("33.33")) {
		t.Errorf("Ratio(1,3) = %s", got)
	}
	if got := Ratio(5, 0); !got.IsZero() {
		t.Errorf("Ratio(5,0) = %s", got)
	}
}
