package models

// RoleType defines the type of an authenticated principal
type RoleType string

const (
	// RoleAdmin is an administrative user
	RoleAdmin RoleType = "ADMIN"
	// RoleStudent is a student user
	RoleStudent RoleType = "STUDENT"
)

// FeeStatus represents the state of a semester fee ledger record
type FeeStatus string

const (
	// FeeStatusPending means nothing has been paid yet
	FeeStatusPending FeeStatus = "PENDING"
	// FeeStatusPartial means some but not all of the fee has been paid
	FeeStatusPartial FeeStatus = "PARTIAL"
	// FeeStatusPaid means the fee has been paid in full
	FeeStatusPaid FeeStatus = "PAID"
)

// DeriveFeeStatus returns the ledger status implied by an amount paid
// against a total fee: PENDING at zero, PAID at or above the total,
// PARTIAL in between.
func DeriveFeeStatus(amountPaid, totalFee float64) FeeStatus {
	switch {
	case amountPaid <= 0:
		return FeeStatusPending
	case amountPaid >= totalFee:
		return FeeStatusPaid
	default:
		return FeeStatusPartial
	}
}

// PaymentStatus represents the state of a single payment attempt
type PaymentStatus string

const (
	// PaymentStatusCreated means a gateway order exists but no charge has been confirmed
	PaymentStatusCreated PaymentStatus = "CREATED"
	// PaymentStatusPaid means the charge was confirmed and the ledger credited
	PaymentStatusPaid PaymentStatus = "PAID"
	// PaymentStatusFailed means the attempt failed or its confirmation could not be verified
	PaymentStatusFailed PaymentStatus = "FAILED"
)
