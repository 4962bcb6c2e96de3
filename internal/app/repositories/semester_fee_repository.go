package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// SemesterFeeRepository handles database operations for the fee structure
type SemesterFeeRepository struct {
	db *pgxpool.Pool
}

// NewSemesterFeeRepository creates a new semester fee repository
func NewSemesterFeeRepository(db *pgxpool.Pool) *SemesterFeeRepository {
	return &SemesterFeeRepository{
		db: db,
	}
}

// Create inserts a new fee structure row
func (r *SemesterFeeRepository) Create(ctx context.Context, fee *models.SemesterFee) error {
	query := `
		INSERT INTO semester_fees (course_code, semester, total_fees)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, fee.CourseCode, fee.Semester, fee.TotalFees).
		Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "semester_fees_course_semester_key") {
			return apperrors.ErrSemesterFeeExists
		}
		return fmt.Errorf("error creating semester fee: %w", err)
	}

	return nil
}

// GetByCourseAndSemester retrieves one fee structure row
func (r *SemesterFeeRepository) GetByCourseAndSemester(ctx context.Context, courseCode string, semester int) (*models.SemesterFee, error) {
	query := `
		SELECT id, course_code, semester, total_fees, created_at, updated_at
		FROM semester_fees
		WHERE course_code = $1 AND semester = $2
	`

	var fee models.SemesterFee
	err := r.db.QueryRow(ctx, query, courseCode, semester).Scan(
		&fee.ID,
		&fee.CourseCode,
		&fee.Semester,
		&fee.TotalFees,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSemesterFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving semester fee: %w", err)
	}

	return &fee, nil
}

// GetByCourse retrieves all fee structure rows for a course in semester order
func (r *SemesterFeeRepository) GetByCourse(ctx context.Context, courseCode string) ([]*models.SemesterFee, error) {
	query := `
		SELECT id, course_code, semester, total_fees, created_at, updated_at
		FROM semester_fees
		WHERE course_code = $1
		ORDER BY semester
	`

	rows, err := r.db.Query(ctx, query, courseCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.SemesterFee
	for rows.Next() {
		var fee models.SemesterFee
		if err := rows.Scan(
			&fee.ID,
			&fee.CourseCode,
			&fee.Semester,
			&fee.TotalFees,
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

// UpdateTotal changes the total fee of an existing structure row
func (r *SemesterFeeRepository) UpdateTotal(ctx context.Context, courseCode string, semester int, totalFees float64) (*models.SemesterFee, error) {
	query := `
		UPDATE semester_fees
		SET total_fees = $3, updated_at = NOW()
		WHERE course_code = $1 AND semester = $2
		RETURNING id, course_code, semester, total_fees, created_at, updated_at
	`

	var fee models.SemesterFee
	err := r.db.QueryRow(ctx, query, courseCode, semester, totalFees).Scan(
		&fee.ID,
		&fee.CourseCode,
		&fee.Semester,
		&fee.TotalFees,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSemesterFeeNotFound
		}
		return nil, fmt.Errorf("error updating semester fee: %w", err)
	}

	return &fee, nil
}

// Delete removes one fee structure row
func (r *SemesterFeeRepository) Delete(ctx context.Context, courseCode string, semester int) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM semester_fees WHERE course_code = $1 AND semester = $2`,
		courseCode, semester)
	if err != nil {
		return fmt.Errorf("error deleting semester fee: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSemesterFeeNotFound
	}

	return nil
}
