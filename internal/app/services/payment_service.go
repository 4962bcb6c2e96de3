package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/razorpay"
)

// PaymentStore is the persistence port for payment records
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	GetByOrderAndStudent(ctx context.Context, orderID string, studentID int64) (*models.Payment, error)
	FindPendingOrder(ctx context.Context, studentID int64, courseCode string, semester int, createdAfter time.Time) (*models.Payment, error)
	MarkPaid(ctx context.Context, orderID, paymentID string, signature *string) (claimed bool, err error)
	MarkFailed(ctx context.Context, orderID, reason string) error
	MarkFailedForStudent(ctx context.Context, orderID string, studentID int64, reason string) error
}

// FeeLedgerStore is the persistence port for the fee ledger
type FeeLedgerStore interface {
	Get(ctx context.Context, studentID int64, courseCode string, semester int) (*models.StudentFee, error)
	Credit(ctx context.Context, studentID int64, courseCode string, semester int, amount float64) (*models.StudentFee, error)
}

// OrderGateway is the port to the external payment gateway
type OrderGateway interface {
	CreateOrder(ctx context.Context, orderReq razorpay.OrderRequest) (*razorpay.Order, error)
	KeyID() string
	Currency() string
}

// PaymentService runs the payment lifecycle: order initiation against the
// fee ledger and dual-path reconciliation of gateway confirmations.
type PaymentService interface {
	CreateOrder(ctx context.Context, studentID int64, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, studentID int64, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type paymentService struct {
	payments      PaymentStore
	ledger        FeeLedgerStore
	gateway       OrderGateway
	keySecret     string
	webhookSecret string
	pendingWindow time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	payments PaymentStore,
	ledger FeeLedgerStore,
	gateway OrderGateway,
	keySecret string,
	webhookSecret string,
	pendingWindow time.Duration,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		payments:      payments,
		ledger:        ledger,
		gateway:       gateway,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		pendingWindow: pendingWindow,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateOrder validates a payment request against the fee ledger, guards
// against duplicate in-flight orders, mints a gateway order, and persists a
// CREATED payment record. The ledger itself is never touched here.
func (s *paymentService) CreateOrder(ctx context.Context, studentID int64, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid amount. Amount must be greater than 0")
	}
	if req.Semester < 1 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid semester")
	}
	courseCode := NormalizeCourseCode(req.CourseCode)

	fee, err := s.ledger.Get(ctx, studentID, courseCode, req.Semester)
	if err != nil {
		return nil, err
	}

	if fee.Status == models.FeeStatusPaid {
		return nil, apperrors.ErrFeeAlreadyPaid
	}

	remaining := fee.RemainingBalance()
	if remaining <= 0 {
		return nil, apperrors.ErrNoPendingFee
	}

	if req.Amount > remaining {
		return nil, apperrors.NewCustomError(
			apperrors.ErrAmountExceedsBalance,
			fmt.Sprintf("Amount exceeds remaining balance of %.2f", remaining),
		).WithDetails(map[string]interface{}{
			"remainingBalance": remaining,
		})
	}

	// Duplicate-order guard: a CREATED order younger than the window blocks
	// a second concurrent order; the caller gets the existing one back so
	// the checkout can be resumed instead of restarted.
	cutoff := s.now().Add(-s.pendingWindow)
	pending, err := s.payments.FindPendingOrder(ctx, studentID, courseCode, req.Semester, cutoff)
	if err != nil && !errors.Is(err, apperrors.ErrPaymentNotFound) {
		return nil, err
	}
	if pending != nil {
		return nil, apperrors.NewCustomError(
			apperrors.ErrDuplicatePendingOrder,
			"You already have a pending payment. Please complete or wait for it to expire.",
		).WithDetails(map[string]interface{}{
			"existingOrder": dto.ExistingOrder{
				OrderID: pending.RazorpayOrderID,
				Amount:  pending.Amount,
			},
		})
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:  int64(math.Round(req.Amount * 100)), // smallest currency unit
		Receipt: fmt.Sprintf("rcpt_%d_%d_%d", studentID, req.Semester, s.now().Unix()),
		Notes: map[string]string{
			"studentId":  strconv.FormatInt(studentID, 10),
			"courseCode": courseCode,
			"semester":   strconv.Itoa(req.Semester),
			"purpose":    "Semester Fee Payment",
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("studentId", studentID).Msg("Gateway order creation failed")
		return nil, apperrors.NewCustomError(apperrors.ErrGatewayFailure, err.Error())
	}

	payment := &models.Payment{
		StudentID:       studentID,
		CourseCode:      courseCode,
		Semester:        req.Semester,
		RazorpayOrderID: order.ID,
		Amount:          req.Amount,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("error persisting payment record: %w", err)
	}

	s.logger.Info().
		Int64("studentId", studentID).
		Str("orderId", order.ID).
		Float64("amount", req.Amount).
		Msg("Payment order created")

	return &dto.OrderResponse{
		OrderID:          order.ID,
		Amount:           req.Amount,
		Currency:         order.Currency,
		KeyID:            s.gateway.KeyID(),
		RemainingBalance: remaining - req.Amount,
	}, nil
}

// VerifyPayment processes the signed confirmation relayed by the browser
// after checkout. The signature is recomputed server side; a client-supplied
// confirmation is never trusted on its own.
func (s *paymentService) VerifyPayment(ctx context.Context, studentID int64, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Missing payment details")
	}

	if !razorpay.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.keySecret) {
		if err := s.payments.MarkFailedForStudent(ctx, req.RazorpayOrderID, studentID, "Invalid signature"); err != nil {
			s.logger.Error().Err(err).Str("orderId", req.RazorpayOrderID).Msg("Failed to mark payment failed after signature mismatch")
		}
		s.logger.Warn().
			Int64("studentId", studentID).
			Str("orderId", req.RazorpayOrderID).
			Msg("Payment signature mismatch")
		return nil, apperrors.ErrSignatureInvalid
	}

	payment, err := s.payments.GetByOrderAndStudent(ctx, req.RazorpayOrderID, studentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentStatusPaid {
		return s.alreadyProcessedResponse(ctx, payment), nil
	}

	claimed, err := s.payments.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, &req.RazorpaySignature)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// The webhook path won the transition; the ledger is already
		// credited. Reload so the response carries the stored payment id.
		if current, err := s.payments.GetByOrderAndStudent(ctx, req.RazorpayOrderID, studentID); err == nil {
			payment = current
		}
		return s.alreadyProcessedResponse(ctx, payment), nil
	}

	fee, err := s.creditLedger(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", studentID).
		Str("orderId", req.RazorpayOrderID).
		Str("paymentId", req.RazorpayPaymentID).
		Float64("amount", payment.Amount).
		Msg("Payment verified and ledger credited")

	return &dto.VerifyPaymentResponse{
		PaymentID: req.RazorpayPaymentID,
		Amount:    payment.Amount,
		FeeStatus: feeStatusOf(fee),
	}, nil
}

// HandleWebhook processes a gateway webhook delivery. The signature over the
// raw body is the gate; once it validates, processing problems are logged
// and swallowed so the gateway does not redeliver forever.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !razorpay.VerifyWebhookSignature(body, signature, s.webhookSecret) {
		s.logger.Warn().Msg("Invalid webhook signature")
		return apperrors.ErrSignatureInvalid
	}

	event, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to parse webhook payload")
		return nil
	}

	s.logger.Info().Str("event", event.Event).Msg("Webhook event received")

	switch event.Event {
	case razorpay.EventPaymentCaptured:
		s.handlePaymentCaptured(ctx, event.Payload.Payment.Entity)
	case razorpay.EventPaymentFailed:
		s.handlePaymentFailed(ctx, event.Payload.Payment.Entity)
	case razorpay.EventOrderPaid:
		s.logger.Debug().Str("orderId", event.Payload.Payment.Entity.OrderID).Msg("Order paid event acknowledged")
	default:
		s.logger.Debug().Str("event", event.Event).Msg("Unhandled webhook event type")
	}

	return nil
}

func (s *paymentService) handlePaymentCaptured(ctx context.Context, entity razorpay.PaymentEntity) {
	payment, err := s.payments.GetByOrderID(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			// The order may belong to another system or race with initiation.
			s.logger.Warn().Str("orderId", entity.OrderID).Msg("Captured payment has no matching order, ignoring")
		} else {
			s.logger.Error().Err(err).Str("orderId", entity.OrderID).Msg("Failed to load payment for captured event")
		}
		return
	}

	if payment.Status == models.PaymentStatusPaid {
		s.logger.Debug().Str("orderId", entity.OrderID).Msg("Payment already processed")
		return
	}

	claimed, err := s.payments.MarkPaid(ctx, entity.OrderID, entity.ID, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("orderId", entity.OrderID).Msg("Failed to mark payment paid from webhook")
		return
	}
	if !claimed {
		s.logger.Debug().Str("orderId", entity.OrderID).Msg("Payment already claimed by another confirmation path")
		return
	}

	if _, err := s.creditLedger(ctx, payment); err != nil {
		s.logger.Error().Err(err).
			Str("orderId", entity.OrderID).
			Int64("studentId", payment.StudentID).
			Msg("Failed to credit ledger for captured payment, manual reconciliation required")
		return
	}

	s.logger.Info().
		Str("orderId", entity.OrderID).
		Str("paymentId", entity.ID).
		Float64("amount", payment.Amount).
		Msg("Webhook payment captured and ledger credited")
}

func (s *paymentService) handlePaymentFailed(ctx context.Context, entity razorpay.PaymentEntity) {
	payment, err := s.payments.GetByOrderID(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			s.logger.Warn().Str("orderId", entity.OrderID).Msg("Failed payment has no matching order, ignoring")
		} else {
			s.logger.Error().Err(err).Str("orderId", entity.OrderID).Msg("Failed to load payment for failed event")
		}
		return
	}

	if payment.Status == models.PaymentStatusPaid {
		// A failure arriving after a confirmed capture is anomalous; the
		// paid record and ledger stay as they are.
		s.logger.Warn().
			Str("orderId", entity.OrderID).
			Msg("Ignoring failure event for already-paid payment")
		return
	}

	reason := entity.ErrorDescription
	if reason == "" {
		reason = "Payment failed"
	}

	if err := s.payments.MarkFailed(ctx, entity.OrderID, reason); err != nil {
		s.logger.Error().Err(err).Str("orderId", entity.OrderID).Msg("Failed to record payment failure")
		return
	}

	s.logger.Info().Str("orderId", entity.OrderID).Str("reason", reason).Msg("Payment marked failed")
}

// creditLedger applies a confirmed payment amount to the matching ledger
// row. A missing row at this point is an integrity failure: money was
// confirmed with nothing to credit it to.
func (s *paymentService) creditLedger(ctx context.Context, payment *models.Payment) (*models.StudentFee, error) {
	fee, err := s.ledger.Credit(ctx, payment.StudentID, payment.CourseCode, payment.Semester, payment.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrFeeRecordNotFound) {
			return nil, apperrors.ErrLedgerInconsistent
		}
		return nil, err
	}
	return fee, nil
}

func (s *paymentService) alreadyProcessedResponse(ctx context.Context, payment *models.Payment) *dto.VerifyPaymentResponse {
	resp := &dto.VerifyPaymentResponse{
		Amount:           payment.Amount,
		AlreadyProcessed: true,
	}
	if payment.RazorpayPaymentID != nil {
		resp.PaymentID = *payment.RazorpayPaymentID
	}
	if fee, err := s.ledger.Get(ctx, payment.StudentID, payment.CourseCode, payment.Semester); err == nil {
		resp.FeeStatus = feeStatusOf(fee)
	}
	return resp
}

func feeStatusOf(fee *models.StudentFee) *dto.FeeStatusResponse {
	return &dto.FeeStatusResponse{
		TotalFee:         fee.SemesterFees,
		AmountPaid:       fee.AmountPaid,
		RemainingBalance: fee.RemainingBalance(),
		Status:           fee.Status,
	}
}
