package models

import "time"

// Payment records one gateway order and its resolution. A row is inserted
// when a Razorpay order is minted (status CREATED) and transitions exactly
// once to PAID or FAILED during reconciliation.
type Payment struct {
	ID                int64         `json:"id" db:"id"`
	StudentID         int64         `json:"studentId" db:"student_id"`
	CourseCode        string        `json:"courseCode" db:"course_code" example:"BCA"`
	Semester          int           `json:"semester" db:"semester" example:"3"`
	RazorpayOrderID   string        `json:"razorpayOrderId" db:"razorpay_order_id" example:"order_NXhT2f4A9mZk3q"` // Unique
	RazorpayPaymentID *string       `json:"razorpayPaymentId,omitempty" db:"razorpay_payment_id"`                  // Set once a charge succeeds
	RazorpaySignature *string       `json:"-" db:"razorpay_signature"`
	Amount            float64       `json:"amount" db:"amount" example:"6000"`
	Status            PaymentStatus `json:"status" db:"status" example:"CREATED"`
	FailureReason     *string       `json:"failureReason,omitempty" db:"failure_reason"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
}
