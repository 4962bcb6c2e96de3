package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/razorpay"
)

var errMockGateway = errors.New("mock gateway error")

type ledgerKey struct {
	studentID  int64
	courseCode string
	semester   int
}

// fakeLedgerStore is an in-memory FeeLedgerStore. Credit mirrors the
// database semantics: the paid amount is clamped at the semester total and
// the status is derived from the new balance.
type fakeLedgerStore struct {
	mu   sync.Mutex
	rows map[ledgerKey]*models.StudentFee
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{rows: make(map[ledgerKey]*models.StudentFee)}
}

func (f *fakeLedgerStore) put(studentID int64, courseCode string, semester int, total, paid float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[ledgerKey{studentID, courseCode, semester}] = &models.StudentFee{
		StudentID:    studentID,
		CourseCode:   courseCode,
		Semester:     semester,
		SemesterFees: total,
		AmountPaid:   paid,
		Status:       models.DeriveFeeStatus(paid, total),
	}
}

func (f *fakeLedgerStore) Get(ctx context.Context, studentID int64, courseCode string, semester int) (*models.StudentFee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fee, ok := f.rows[ledgerKey{studentID, courseCode, semester}]
	if !ok {
		return nil, apperrors.ErrFeeRecordNotFound
	}
	copied := *fee
	return &copied, nil
}

func (f *fakeLedgerStore) Credit(ctx context.Context, studentID int64, courseCode string, semester int, amount float64) (*models.StudentFee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fee, ok := f.rows[ledgerKey{studentID, courseCode, semester}]
	if !ok {
		return nil, apperrors.ErrFeeRecordNotFound
	}
	fee.AmountPaid += amount
	if fee.AmountPaid > fee.SemesterFees {
		fee.AmountPaid = fee.SemesterFees
	}
	fee.Status = models.DeriveFeeStatus(fee.AmountPaid, fee.SemesterFees)
	copied := *fee
	return &copied, nil
}

// fakePaymentStore is an in-memory PaymentStore with the same CAS behavior
// as the SQL implementation. Timestamps come from the injected clock so the
// duplicate-order window can be aged in tests.
type fakePaymentStore struct {
	mu             sync.Mutex
	payments       []*models.Payment
	nextID         int64
	now            func() time.Time
	beforeMarkPaid func()
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{now: time.Now}
}

func (f *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payment.ID = f.nextID
	payment.Status = models.PaymentStatusCreated
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = f.now()
	}
	copied := *payment
	f.payments = append(f.payments, &copied)
	return nil
}

func (f *fakePaymentStore) find(orderID string) *models.Payment {
	for _, p := range f.payments {
		if p.RazorpayOrderID == orderID {
			return p
		}
	}
	return nil
}

func (f *fakePaymentStore) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(orderID); p != nil {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (f *fakePaymentStore) GetByOrderAndStudent(ctx context.Context, orderID string, studentID int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.find(orderID); p != nil && p.StudentID == studentID {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (f *fakePaymentStore) FindPendingOrder(ctx context.Context, studentID int64, courseCode string, semester int, createdAfter time.Time) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.Payment
	for _, p := range f.payments {
		if p.StudentID == studentID && p.CourseCode == courseCode && p.Semester == semester &&
			p.Status == models.PaymentStatusCreated && !p.CreatedAt.Before(createdAfter) {
			if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
				latest = p
			}
		}
	}
	if latest == nil {
		return nil, apperrors.ErrPaymentNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *fakePaymentStore) MarkPaid(ctx context.Context, orderID, paymentID string, signature *string) (bool, error) {
	if hook := f.beforeMarkPaid; hook != nil {
		f.beforeMarkPaid = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.find(orderID)
	if p == nil || p.Status == models.PaymentStatusPaid {
		return false, nil
	}
	p.Status = models.PaymentStatusPaid
	p.RazorpayPaymentID = &paymentID
	if signature != nil {
		p.RazorpaySignature = signature
	}
	p.FailureReason = nil
	return true, nil
}

func (f *fakePaymentStore) MarkFailed(ctx context.Context, orderID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.find(orderID)
	if p == nil || p.Status == models.PaymentStatusPaid {
		return nil
	}
	p.Status = models.PaymentStatusFailed
	p.FailureReason = &reason
	return nil
}

func (f *fakePaymentStore) MarkFailedForStudent(ctx context.Context, orderID string, studentID int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.find(orderID)
	if p == nil || p.StudentID != studentID || p.Status == models.PaymentStatusPaid {
		return nil
	}
	p.Status = models.PaymentStatusFailed
	p.FailureReason = &reason
	return nil
}

func (f *fakePaymentStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Payment
	for _, p := range f.payments {
		if p.StudentID == studentID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeGateway is an in-memory OrderGateway
type fakeGateway struct {
	mu         sync.Mutex
	orders     []razorpay.OrderRequest
	failNext   error
	orderCount int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	f.orderCount++
	f.orders = append(f.orders, req)
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_test%03d", f.orderCount),
		Amount:   req.Amount,
		Currency: "INR",
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) KeyID() string    { return "rzp_test_key" }
func (f *fakeGateway) Currency() string { return "INR" }

func (f *fakeGateway) lastOrder() razorpay.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[len(f.orders)-1]
}
