package models

import "testing"

func TestDeriveFeeStatus(t *testing.T) {
	tests := []struct {
		name       string
		amountPaid float64
		totalFee   float64
		want       FeeStatus
	}{
		{"nothing paid", 0, 10000, FeeStatusPending},
		{"negative balance stays pending", -50, 10000, FeeStatusPending},
		{"partial payment", 6000, 10000, FeeStatusPartial},
		{"one rupee short", 9999, 10000, FeeStatusPartial},
		{"exactly settled", 10000, 10000, FeeStatusPaid},
		{"over total", 10001, 10000, FeeStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveFeeStatus(tt.amountPaid, tt.totalFee); got != tt.want {
				t.Errorf("DeriveFeeStatus(%v, %v) = %s, want %s", tt.amountPaid, tt.totalFee, got, tt.want)
			}
		})
	}
}

func TestRemainingBalance(t *testing.T) {
	fee := &StudentFee{SemesterFees: 10000, AmountPaid: 6000}
	if got := fee.RemainingBalance(); got != 4000 {
		t.Errorf("RemainingBalance() = %v, want 4000", got)
	}

	// The balance never goes negative.
	fee.AmountPaid = 12000
	if got := fee.RemainingBalance(); got != 0 {
		t.Errorf("RemainingBalance() = %v, want 0", got)
	}
}
