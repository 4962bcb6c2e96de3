package dto

import "github.com/akshat/campuspay/internal/app/models"

// CreateOrderRequest represents a student's request to start a payment
type CreateOrderRequest struct {
	CourseCode string  `json:"courseCode" binding:"required"`
	Semester   int     `json:"semester" binding:"required,min=1"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// OrderResponse is returned after a gateway order has been minted. KeyID is
// the public key identifier the browser checkout SDK needs; the secret never
// leaves the server.
type OrderResponse struct {
	OrderID          string  `json:"orderId" example:"order_NXhT2f4A9mZk3q"`
	Amount           float64 `json:"amount" example:"6000"`
	Currency         string  `json:"currency" example:"INR"`
	KeyID            string  `json:"key"`
	RemainingBalance float64 `json:"remainingBalance" example:"4000"`
}

// ExistingOrder describes a still-pending order returned with a
// duplicate-order rejection so the client can resume it.
type ExistingOrder struct {
	OrderID string  `json:"id"`
	Amount  float64 `json:"amount"`
}

// VerifyPaymentRequest carries the signed confirmation the gateway hands the
// browser after checkout completes.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

// FeeStatusResponse reports the ledger position after a confirmation
type FeeStatusResponse struct {
	TotalFee         float64          `json:"totalFee" example:"10000"`
	AmountPaid       float64          `json:"amountPaid" example:"6000"`
	RemainingBalance float64          `json:"remainingBalance" example:"4000"`
	Status           models.FeeStatus `json:"status" example:"PARTIAL"`
}

// VerifyPaymentResponse is the result of a client-side confirmation
type VerifyPaymentResponse struct {
	PaymentID        string             `json:"paymentId,omitempty"`
	Amount           float64            `json:"amount,omitempty"`
	AlreadyProcessed bool               `json:"alreadyProcessed,omitempty"`
	FeeStatus        *FeeStatusResponse `json:"feeStatus,omitempty"`
}
