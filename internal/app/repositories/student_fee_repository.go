package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// StudentFeeRepository handles database operations for the fee ledger
type StudentFeeRepository struct {
	db *pgxpool.Pool
}

// NewStudentFeeRepository creates a new student fee repository
func NewStudentFeeRepository(db *pgxpool.Pool) *StudentFeeRepository {
	return &StudentFeeRepository{
		db: db,
	}
}

const studentFeeColumns = `
	id, student_id, course_code, semester, session_start_year,
	semester_fees, amount_paid, status, created_at, updated_at
`

// Get retrieves the ledger row for one student, course, and semester
func (r *StudentFeeRepository) Get(ctx context.Context, studentID int64, courseCode string, semester int) (*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM student_fees
		WHERE student_id = $1 AND course_code = $2 AND semester = $3`

	var fee models.StudentFee
	err := r.db.QueryRow(ctx, query, studentID, courseCode, semester).Scan(
		&fee.ID,
		&fee.StudentID,
		&fee.CourseCode,
		&fee.Semester,
		&fee.SessionStartYear,
		&fee.SemesterFees,
		&fee.AmountPaid,
		&fee.Status,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrFeeRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving student fee: %w", err)
	}

	return &fee, nil
}

// ListByStudent retrieves all ledger rows for a student in semester order
func (r *StudentFeeRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentFee, error) {
	query := `SELECT ` + studentFeeColumns + `
		FROM student_fees
		WHERE student_id = $1
		ORDER BY semester`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.StudentFee
	for rows.Next() {
		var fee models.StudentFee
		if err := rows.Scan(
			&fee.ID,
			&fee.StudentID,
			&fee.CourseCode,
			&fee.Semester,
			&fee.SessionStartYear,
			&fee.SemesterFees,
			&fee.AmountPaid,
			&fee.Status,
			&fee.CreatedAt,
			&fee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		fees = append(fees, &fee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fees, nil
}

// Credit applies a confirmed payment amount to the ledger row in a single
// statement. The paid amount is clamped to the total fee and the status is
// derived in the same update, so concurrent confirmations for the same row
// are serialized by the database and can never overpay it.
func (r *StudentFeeRepository) Credit(ctx context.Context, studentID int64, courseCode string, semester int, amount float64) (*models.StudentFee, error) {
	query := `
		UPDATE student_fees
		SET amount_paid = LEAST(amount_paid + $4, semester_fees),
			status = CASE
				WHEN amount_paid + $4 >= semester_fees THEN 'PAID'
				WHEN amount_paid + $4 > 0 THEN 'PARTIAL'
				ELSE status
			END,
			updated_at = NOW()
		WHERE student_id = $1 AND course_code = $2 AND semester = $3
		RETURNING ` + studentFeeColumns

	var fee models.StudentFee
	err := r.db.QueryRow(ctx, query, studentID, courseCode, semester, amount).Scan(
		&fee.ID,
		&fee.StudentID,
		&fee.CourseCode,
		&fee.Semester,
		&fee.SessionStartYear,
		&fee.SemesterFees,
		&fee.AmountPaid,
		&fee.Status,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrFeeRecordNotFound
		}
		return nil, fmt.Errorf("error crediting student fee: %w", err)
	}

	return &fee, nil
}

// Override replaces the paid amount and status of a ledger row. Used only
// by the admin correction flow, never by reconciliation.
func (r *StudentFeeRepository) Override(ctx context.Context, studentID int64, semester int, amountPaid float64, status models.FeeStatus) (*models.StudentFee, error) {
	query := `
		UPDATE student_fees
		SET amount_paid = $3, status = $4, updated_at = NOW()
		WHERE student_id = $1 AND semester = $2
		RETURNING ` + studentFeeColumns

	var fee models.StudentFee
	err := r.db.QueryRow(ctx, query, studentID, semester, amountPaid, status).Scan(
		&fee.ID,
		&fee.StudentID,
		&fee.CourseCode,
		&fee.Semester,
		&fee.SessionStartYear,
		&fee.SemesterFees,
		&fee.AmountPaid,
		&fee.Status,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrFeeRecordNotFound
		}
		return nil, fmt.Errorf("error overriding student fee: %w", err)
	}

	return &fee, nil
}
