package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/razorpay"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
	testStudentID     = int64(42)
	testCourse        = "BCA"
	testSemester      = 3
)

type paymentTestEnv struct {
	svc      *paymentService
	payments *fakePaymentStore
	ledger   *fakeLedgerStore
	gateway  *fakeGateway
	now      time.Time
}

func newPaymentTestEnv(t *testing.T) *paymentTestEnv {
	t.Helper()
	env := &paymentTestEnv{
		payments: newFakePaymentStore(),
		ledger:   newFakeLedgerStore(),
		gateway:  &fakeGateway{},
		now:      time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
	env.payments.now = func() time.Time { return env.now }
	env.svc = &paymentService{
		payments:      env.payments,
		ledger:        env.ledger,
		gateway:       env.gateway,
		keySecret:     testKeySecret,
		webhookSecret: testWebhookSecret,
		pendingWindow: 15 * time.Minute,
		logger:        zerolog.Nop(),
		now:           func() time.Time { return env.now },
	}
	return env
}

func orderReq(amount float64) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CourseCode: testCourse,
		Semester:   testSemester,
		Amount:     amount,
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(env *paymentTestEnv)
		req     dto.CreateOrderRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			setup:   func(env *paymentTestEnv) { env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0) },
			req:     orderReq(0),
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "negative amount",
			setup:   func(env *paymentTestEnv) { env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0) },
			req:     orderReq(-50),
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "no fee record",
			setup:   func(env *paymentTestEnv) {},
			req:     orderReq(1000),
			wantErr: apperrors.ErrFeeRecordNotFound,
		},
		{
			name:    "fee already paid",
			setup:   func(env *paymentTestEnv) { env.ledger.put(testStudentID, testCourse, testSemester, 10000, 10000) },
			req:     orderReq(1000),
			wantErr: apperrors.ErrFeeAlreadyPaid,
		},
		{
			name:    "amount exceeds remaining balance",
			setup:   func(env *paymentTestEnv) { env.ledger.put(testStudentID, testCourse, testSemester, 10000, 6000) },
			req:     orderReq(4001),
			wantErr: apperrors.ErrAmountExceedsBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPaymentTestEnv(t)
			tt.setup(env)

			_, err := env.svc.CreateOrder(context.Background(), testStudentID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateOrder error = %v, want %v", err, tt.wantErr)
			}
			if env.gateway.orderCount != 0 {
				t.Errorf("gateway order minted despite validation failure")
			}
		})
	}
}

func TestCreateOrderExceedsBalanceReportsRemaining(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 6000)

	_, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(5000))
	if !errors.Is(err, apperrors.ErrAmountExceedsBalance) {
		t.Fatalf("CreateOrder error = %v, want ErrAmountExceedsBalance", err)
	}

	details := apperrors.Details(err)
	if details == nil {
		t.Fatal("expected error details with remaining balance")
	}
	if got, ok := details["remainingBalance"].(float64); !ok || got != 4000 {
		t.Errorf("remainingBalance detail = %v, want 4000", details["remainingBalance"])
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 6000)

	resp, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(2500.50))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if resp.OrderID == "" {
		t.Error("response missing order ID")
	}
	if resp.Amount != 2500.50 {
		t.Errorf("response amount = %v, want 2500.50", resp.Amount)
	}
	if resp.KeyID != "rzp_test_key" {
		t.Errorf("response key = %q, want rzp_test_key", resp.KeyID)
	}
	if resp.RemainingBalance != 1499.50 {
		t.Errorf("remaining balance = %v, want 1499.50", resp.RemainingBalance)
	}

	// The gateway is paid in the smallest currency unit.
	minted := env.gateway.lastOrder()
	if minted.Amount != 250050 {
		t.Errorf("gateway amount = %d paise, want 250050", minted.Amount)
	}
	if minted.Receipt == "" {
		t.Error("gateway order missing receipt")
	}

	rec, err := env.payments.GetByOrderID(context.Background(), resp.OrderID)
	if err != nil {
		t.Fatalf("payment record not persisted: %v", err)
	}
	if rec.Status != models.PaymentStatusCreated {
		t.Errorf("payment status = %s, want CREATED", rec.Status)
	}

	// Order creation must not touch the ledger.
	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v, want unchanged 6000", fee.AmountPaid)
	}
}

func TestCreateOrderDuplicateGuard(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	first, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(3000))
	if err != nil {
		t.Fatalf("first CreateOrder failed: %v", err)
	}

	_, err = env.svc.CreateOrder(context.Background(), testStudentID, orderReq(3000))
	if !errors.Is(err, apperrors.ErrDuplicatePendingOrder) {
		t.Fatalf("second CreateOrder error = %v, want ErrDuplicatePendingOrder", err)
	}

	details := apperrors.Details(err)
	existing, ok := details["existingOrder"].(dto.ExistingOrder)
	if !ok {
		t.Fatalf("expected existingOrder detail, got %v", details)
	}
	if existing.OrderID != first.OrderID {
		t.Errorf("existing order = %q, want %q", existing.OrderID, first.OrderID)
	}

	// Beyond the window the stale order no longer blocks a new one.
	env.now = env.now.Add(16 * time.Minute)
	if _, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(3000)); err != nil {
		t.Fatalf("CreateOrder after window failed: %v", err)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)
	env.gateway.failNext = errMockGateway

	_, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(1000))
	if !errors.Is(err, apperrors.ErrGatewayFailure) {
		t.Fatalf("CreateOrder error = %v, want ErrGatewayFailure", err)
	}

	// No local record without a gateway order.
	if payments, _ := env.payments.ListByStudent(context.Background(), testStudentID); len(payments) != 0 {
		t.Errorf("found %d payment records, want 0", len(payments))
	}
}

func signedVerifyRequest(orderID, paymentID string) dto.VerifyPaymentRequest {
	return dto.VerifyPaymentRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: razorpay.SignPayload([]byte(orderID+"|"+paymentID), testKeySecret),
	}
}

func TestVerifyPaymentCreditsLedger(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	resp, err := env.svc.VerifyPayment(context.Background(), testStudentID, signedVerifyRequest(order.OrderID, "pay_001"))
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if resp.AlreadyProcessed {
		t.Error("fresh confirmation reported as already processed")
	}
	if resp.PaymentID != "pay_001" {
		t.Errorf("payment ID = %q, want pay_001", resp.PaymentID)
	}
	if resp.FeeStatus == nil {
		t.Fatal("response missing fee status")
	}
	if resp.FeeStatus.AmountPaid != 6000 || resp.FeeStatus.Status != models.FeeStatusPartial {
		t.Errorf("fee status = %+v, want amountPaid 6000 PARTIAL", resp.FeeStatus)
	}

	rec, _ := env.payments.GetByOrderID(context.Background(), order.OrderID)
	if rec.Status != models.PaymentStatusPaid {
		t.Errorf("payment status = %s, want PAID", rec.Status)
	}
	if rec.RazorpayPaymentID == nil || *rec.RazorpayPaymentID != "pay_001" {
		t.Error("payment ID not recorded")
	}
}

func TestVerifyPaymentInvalidSignature(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	req := signedVerifyRequest(order.OrderID, "pay_001")
	req.RazorpaySignature = "forged"

	_, err = env.svc.VerifyPayment(context.Background(), testStudentID, req)
	if !errors.Is(err, apperrors.ErrSignatureInvalid) {
		t.Fatalf("VerifyPayment error = %v, want ErrSignatureInvalid", err)
	}

	rec, _ := env.payments.GetByOrderID(context.Background(), order.OrderID)
	if rec.Status != models.PaymentStatusFailed {
		t.Errorf("payment status = %s, want FAILED after signature mismatch", rec.Status)
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 0 {
		t.Errorf("ledger credited %v despite invalid signature", fee.AmountPaid)
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	req := signedVerifyRequest(order.OrderID, "pay_001")
	if _, err := env.svc.VerifyPayment(context.Background(), testStudentID, req); err != nil {
		t.Fatalf("first VerifyPayment failed: %v", err)
	}

	resp, err := env.svc.VerifyPayment(context.Background(), testStudentID, req)
	if err != nil {
		t.Fatalf("retried VerifyPayment failed: %v", err)
	}
	if !resp.AlreadyProcessed {
		t.Error("retry not reported as already processed")
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v after retry, want 6000 (single credit)", fee.AmountPaid)
	}
}

func TestVerifyPaymentWrongStudent(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	_, err = env.svc.VerifyPayment(context.Background(), testStudentID+1, signedVerifyRequest(order.OrderID, "pay_001"))
	if !errors.Is(err, apperrors.ErrPaymentNotFound) {
		t.Fatalf("VerifyPayment error = %v, want ErrPaymentNotFound for foreign order", err)
	}
}

func TestFullPaymentMarksLedgerPaid(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 4000)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	resp, err := env.svc.VerifyPayment(context.Background(), testStudentID, signedVerifyRequest(order.OrderID, "pay_final"))
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if resp.FeeStatus.Status != models.FeeStatusPaid {
		t.Errorf("fee status = %s, want PAID", resp.FeeStatus.Status)
	}
	if resp.FeeStatus.RemainingBalance != 0 {
		t.Errorf("remaining balance = %v, want 0", resp.FeeStatus.RemainingBalance)
	}

	// A settled semester accepts no further orders.
	_, err = env.svc.CreateOrder(context.Background(), testStudentID, orderReq(100))
	if !errors.Is(err, apperrors.ErrFeeAlreadyPaid) {
		t.Fatalf("CreateOrder after settlement error = %v, want ErrFeeAlreadyPaid", err)
	}
}

func webhookBody(t *testing.T, event, orderID, paymentID, errorDesc string) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"event": event,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":                paymentID,
					"order_id":          orderID,
					"status":            "captured",
					"error_description": errorDesc,
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to build webhook body: %v", err)
	}
	return body
}

func TestWebhookCapturedCreditsLedger(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	body := webhookBody(t, razorpay.EventPaymentCaptured, order.OrderID, "pay_wh1", "")
	signature := razorpay.SignPayload(body, testWebhookSecret)

	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v, want 6000", fee.AmountPaid)
	}
	rec, _ := env.payments.GetByOrderID(context.Background(), order.OrderID)
	if rec.Status != models.PaymentStatusPaid {
		t.Errorf("payment status = %s, want PAID", rec.Status)
	}
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	env := newPaymentTestEnv(t)
	body := webhookBody(t, razorpay.EventPaymentCaptured, "order_x", "pay_x", "")

	err := env.svc.HandleWebhook(context.Background(), body, "bad_signature")
	if !errors.Is(err, apperrors.ErrSignatureInvalid) {
		t.Fatalf("HandleWebhook error = %v, want ErrSignatureInvalid", err)
	}
}

func TestWebhookUnknownOrderAcknowledged(t *testing.T) {
	env := newPaymentTestEnv(t)
	body := webhookBody(t, razorpay.EventPaymentCaptured, "order_unknown", "pay_x", "")
	signature := razorpay.SignPayload(body, testWebhookSecret)

	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook error = %v, want nil for unknown order", err)
	}
}

func TestWebhookAfterVerifyDoesNotDoubleCredit(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := env.svc.VerifyPayment(context.Background(), testStudentID, signedVerifyRequest(order.OrderID, "pay_001")); err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}

	body := webhookBody(t, razorpay.EventPaymentCaptured, order.OrderID, "pay_001", "")
	signature := razorpay.SignPayload(body, testWebhookSecret)
	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v after duplicate confirmation, want 6000", fee.AmountPaid)
	}
}

func TestVerifyAfterConcurrentWebhookReportsPaymentID(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Deliver the capture webhook between the verify path's read and its
	// status transition, so the webhook claims the payment first.
	env.payments.beforeMarkPaid = func() {
		body := webhookBody(t, razorpay.EventPaymentCaptured, order.OrderID, "pay_001", "")
		if err := env.svc.HandleWebhook(context.Background(), body, razorpay.SignPayload(body, testWebhookSecret)); err != nil {
			t.Fatalf("HandleWebhook failed: %v", err)
		}
	}

	resp, err := env.svc.VerifyPayment(context.Background(), testStudentID, signedVerifyRequest(order.OrderID, "pay_001"))
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if !resp.AlreadyProcessed {
		t.Fatal("expected an already-processed response")
	}
	if resp.PaymentID != "pay_001" {
		t.Errorf("payment id = %q, want %q", resp.PaymentID, "pay_001")
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v, want a single credit of 6000", fee.AmountPaid)
	}
}

func TestWebhookFailureMarksPayment(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	body := webhookBody(t, razorpay.EventPaymentFailed, order.OrderID, "pay_001", "card declined")
	signature := razorpay.SignPayload(body, testWebhookSecret)
	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	rec, _ := env.payments.GetByOrderID(context.Background(), order.OrderID)
	if rec.Status != models.PaymentStatusFailed {
		t.Errorf("payment status = %s, want FAILED", rec.Status)
	}
	if rec.FailureReason == nil || *rec.FailureReason != "card declined" {
		t.Error("failure reason not recorded")
	}

	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 0 {
		t.Errorf("ledger credited %v on failure event", fee.AmountPaid)
	}

	// A FAILED order is not pending, so the student can retry right away.
	retry, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder after failure returned %v, want a fresh order", err)
	}
	if retry.OrderID == order.OrderID {
		t.Errorf("retry reused order %q, want a new gateway order", retry.OrderID)
	}
}

func TestWebhookFailureDoesNotDowngradePaid(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 0)

	order, err := env.svc.CreateOrder(context.Background(), testStudentID, orderReq(6000))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := env.svc.VerifyPayment(context.Background(), testStudentID, signedVerifyRequest(order.OrderID, "pay_001")); err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}

	body := webhookBody(t, razorpay.EventPaymentFailed, order.OrderID, "pay_001", "late failure")
	signature := razorpay.SignPayload(body, testWebhookSecret)
	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	rec, _ := env.payments.GetByOrderID(context.Background(), order.OrderID)
	if rec.Status != models.PaymentStatusPaid {
		t.Errorf("payment status = %s, PAID must not be downgraded", rec.Status)
	}
	fee, _ := env.ledger.Get(context.Background(), testStudentID, testCourse, testSemester)
	if fee.AmountPaid != 6000 {
		t.Errorf("ledger amountPaid = %v, want 6000 untouched", fee.AmountPaid)
	}
}

func TestWebhookMalformedBodyAcknowledged(t *testing.T) {
	env := newPaymentTestEnv(t)
	body := []byte("{not json")
	signature := razorpay.SignPayload(body, testWebhookSecret)

	// A signed but unparseable body is acknowledged so the gateway does
	// not retry forever.
	if err := env.svc.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("HandleWebhook error = %v, want nil", err)
	}
}

func TestLedgerCreditClampsAtTotal(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.ledger.put(testStudentID, testCourse, testSemester, 10000, 9500)

	// A capture can race an admin override; the credit must never push the
	// ledger past the semester total.
	fee, err := env.ledger.Credit(context.Background(), testStudentID, testCourse, testSemester, 1000)
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if fee.AmountPaid != 10000 {
		t.Errorf("amountPaid = %v, want clamped to 10000", fee.AmountPaid)
	}
	if fee.Status != models.FeeStatusPaid {
		t.Errorf("status = %s, want PAID", fee.Status)
	}
}
