package models

import "time"

// StudentFee is the fee ledger record for one student and one semester:
// the total due, the amount paid so far, and the derived status. One row
// exists per (studentId, semester). It is mutated only by the payment
// reconciliation flow and by explicit admin overrides.
type StudentFee struct {
	ID               int64     `json:"id" db:"id"`
	StudentID        int64     `json:"studentId" db:"student_id"`
	CourseCode       string    `json:"courseCode" db:"course_code" example:"BCA"`
	Semester         int       `json:"semester" db:"semester" example:"3"`
	SessionStartYear int       `json:"sessionStartYear" db:"session_start_year" example:"2023"`
	SemesterFees     float64   `json:"semesterFees" db:"semester_fees" example:"10000"` // Total due
	AmountPaid       float64   `json:"amountPaid" db:"amount_paid" example:"6000"`
	Status           FeeStatus `json:"status" db:"status" example:"PARTIAL"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// RemainingBalance returns the amount still owed on this ledger record,
// never less than zero.
func (f *StudentFee) RemainingBalance() float64 {
	remaining := f.SemesterFees - f.AmountPaid
	if remaining < 0 {
		return 0
	}
	return remaining
}
