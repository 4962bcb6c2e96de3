package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/app/services"
	"github.com/akshat/campuspay/internal/pkg/razorpay"
)

// WebhookController receives server-to-server notifications from the
// payment gateway.
type WebhookController struct {
	paymentService services.PaymentService
	logger         zerolog.Logger
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(paymentService services.PaymentService, logger zerolog.Logger) *WebhookController {
	return &WebhookController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// HandleRazorpayWebhook processes a gateway webhook delivery
// @Summary Razorpay webhook
// @Description Entry point for gateway notifications. The signature is verified over the raw request body; valid deliveries are always acknowledged so the gateway stops retrying.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "HMAC signature over the request body"
// @Success 200 {object} dto.SuccessResponse "Acknowledged"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid signature"
// @Router /webhooks/razorpay [post]
func (c *WebhookController) HandleRazorpayWebhook(ctx *gin.Context) {
	signature := ctx.GetHeader(razorpay.SignatureHeader)
	if signature == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeSignatureInvalid, "Missing webhook signature")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// The signature covers the raw body byte for byte; it must be read
	// before any JSON binding touches it.
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read webhook body")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unreadable request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.paymentService.HandleWebhook(ctx, body, signature); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeSignatureInvalid, "Invalid webhook signature")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "ok"})
}
