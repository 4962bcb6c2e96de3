package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/app/services"
	"github.com/akshat/campuspay/internal/middleware"
)

// PaymentController handles payment initiation and client-side confirmation
// for the authenticated student.
type PaymentController struct {
	paymentService services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateOrder initiates a payment
// @Summary Create payment order
// @Description Validates the amount against the student's fee ledger and mints a gateway order for browser checkout.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOrderRequest true "Payment details"
// @Success 201 {object} dto.APIResponse{data=dto.OrderResponse} "Order created"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, fee already paid, or amount exceeds balance"
// @Failure 404 {object} dto.ErrorResponse "No fee record for this course and semester"
// @Failure 409 {object} dto.ErrorResponse "A pending order already exists"
// @Failure 502 {object} dto.ErrorResponse "Payment gateway error"
// @Router /payments/order [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	order, err := c.paymentService.CreateOrder(ctx, studentID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(order, "Order created"))
}

// VerifyPayment confirms a payment from the browser checkout callback
// @Summary Verify payment
// @Description Verifies the gateway signature over the checkout result and credits the fee ledger. Safe to retry; an already-confirmed payment returns success without a second credit.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyPaymentRequest true "Checkout result"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyPaymentResponse} "Payment confirmed"
// @Failure 400 {object} dto.ErrorResponse "Missing details or invalid signature"
// @Failure 404 {object} dto.ErrorResponse "No matching order for this student"
// @Router /payments/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.paymentService.VerifyPayment(ctx, studentID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Payment verified"
	if result.AlreadyProcessed {
		message = "Payment already processed"
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, message))
}
