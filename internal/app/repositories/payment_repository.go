package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// PaymentRepository handles database operations for payment records
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

const paymentColumns = `
	id, student_id, course_code, semester, razorpay_order_id,
	razorpay_payment_id, razorpay_signature, amount, status,
	failure_reason, created_at, updated_at
`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var payment models.Payment
	err := row.Scan(
		&payment.ID,
		&payment.StudentID,
		&payment.CourseCode,
		&payment.Semester,
		&payment.RazorpayOrderID,
		&payment.RazorpayPaymentID,
		&payment.RazorpaySignature,
		&payment.Amount,
		&payment.Status,
		&payment.FailureReason,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new payment record in CREATED state
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (student_id, course_code, semester, razorpay_order_id, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		payment.StudentID, payment.CourseCode, payment.Semester,
		payment.RazorpayOrderID, payment.Amount,
	).Scan(&payment.ID, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating payment: %w", err)
	}

	return nil
}

// GetByOrderID retrieves a payment by gateway order id. This is the sole
// correlation key available on the webhook path.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE razorpay_order_id = $1`, orderID))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}
	return payment, nil
}

// GetByOrderAndStudent retrieves a payment by gateway order id scoped to a
// student, so one student cannot confirm another's order.
func (r *PaymentRepository) GetByOrderAndStudent(ctx context.Context, orderID string, studentID int64) (*models.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE razorpay_order_id = $1 AND student_id = $2`,
		orderID, studentID))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}
	return payment, nil
}

// FindPendingOrder returns the most recent CREATED payment for the student,
// course, and semester created after the cutoff, or ErrPaymentNotFound.
func (r *PaymentRepository) FindPendingOrder(ctx context.Context, studentID int64, courseCode string, semester int, createdAfter time.Time) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE student_id = $1 AND course_code = $2 AND semester = $3
			AND status = 'CREATED' AND created_at >= $4
		ORDER BY created_at DESC
		LIMIT 1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, studentID, courseCode, semester, createdAfter))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error querying pending orders: %w", err)
	}
	return payment, nil
}

// MarkPaid transitions a payment to PAID with a conditional update on
// status, and reports whether this caller won the transition. The client
// callback and the webhook may race on the same order; exactly one of them
// observes claimed=true and credits the ledger.
func (r *PaymentRepository) MarkPaid(ctx context.Context, orderID, paymentID string, signature *string) (claimed bool, err error) {
	query := `
		UPDATE payments
		SET status = 'PAID', razorpay_payment_id = $2,
			razorpay_signature = COALESCE($3, razorpay_signature),
			failure_reason = NULL, updated_at = NOW()
		WHERE razorpay_order_id = $1 AND status <> 'PAID'
	`

	cmdTag, err := r.db.Exec(ctx, query, orderID, paymentID, signature)
	if err != nil {
		return false, fmt.Errorf("error marking payment paid: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// MarkFailed records a failure on a payment identified by order id. An
// already-PAID record is never downgraded.
func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	query := `
		UPDATE payments
		SET status = 'FAILED', failure_reason = $2, updated_at = NOW()
		WHERE razorpay_order_id = $1 AND status <> 'PAID'
	`

	if _, err := r.db.Exec(ctx, query, orderID, reason); err != nil {
		return fmt.Errorf("error marking payment failed: %w", err)
	}

	return nil
}

// MarkFailedForStudent records a failure on a payment scoped to a student.
// Used by the client callback path, where the caller's identity is known.
func (r *PaymentRepository) MarkFailedForStudent(ctx context.Context, orderID string, studentID int64, reason string) error {
	query := `
		UPDATE payments
		SET status = 'FAILED', failure_reason = $3, updated_at = NOW()
		WHERE razorpay_order_id = $1 AND student_id = $2 AND status <> 'PAID'
	`

	if _, err := r.db.Exec(ctx, query, orderID, studentID, reason); err != nil {
		return fmt.Errorf("error marking payment failed: %w", err)
	}

	return nil
}

// ListByStudent retrieves a student's payment history, newest first
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
