package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/db"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentColumns = `
	id, name, roll_no, email, phone, password, course_code,
	session_start_year, session_end_year, current_semester,
	is_concession, is_active, created_at, updated_at
`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.RollNo,
		&student.Email,
		&student.Phone,
		&student.Password,
		&student.CourseCode,
		&student.SessionStartYear,
		&student.SessionEndYear,
		&student.CurrentSemester,
		&student.IsConcession,
		&student.IsActive,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// translateStudentUniqueError maps unique-constraint violations to the
// sentinel for the colliding field.
func translateStudentUniqueError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "students_roll_no_key"):
		return apperrors.ErrRollNoAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "students_phone_key"):
		return apperrors.ErrPhoneAlreadyExists
	}
	return err
}

// Create inserts a new student together with one ledger row per semester
// that has a fee structure for the student's course, in a single
// transaction.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, fees []*models.SemesterFee) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO students (name, roll_no, email, phone, password, course_code,
				session_start_year, session_end_year)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, current_semester, is_concession, is_active, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			student.Name, student.RollNo, student.Email, student.Phone,
			student.Password, student.CourseCode,
			student.SessionStartYear, student.SessionEndYear,
		).Scan(
			&student.ID,
			&student.CurrentSemester,
			&student.IsConcession,
			&student.IsActive,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return translateStudentUniqueError(err)
		}

		for _, fee := range fees {
			_, err := tx.Exec(ctx, `
				INSERT INTO student_fees (student_id, course_code, semester, session_start_year, semester_fees)
				VALUES ($1, $2, $3, $4, $5)`,
				student.ID, fee.CourseCode, fee.Semester, student.SessionStartYear, fee.TotalFees,
			)
			if err != nil {
				return fmt.Errorf("error assigning ledger row for semester %d: %w", fee.Semester, err)
			}
		}

		return nil
	})
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByRollNo retrieves a student by roll number
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE roll_no = $1`, rollNo))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetAll retrieves all students ordered by roll number
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY roll_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Update persists the mutable fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = $1, email = $2, phone = $3, current_semester = $4,
			is_concession = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.Name, student.Email, student.Phone, student.CurrentSemester,
		student.IsConcession, student.IsActive, student.ID)
	if err != nil {
		return translateStudentUniqueError(err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student together with their payments and ledger rows in
// one transaction, so a partial removal can never be observed.
func (r *StudentRepository) Delete(ctx context.Context, studentID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE student_id = $1`, studentID); err != nil {
			return fmt.Errorf("error deleting student payments: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM student_fees WHERE student_id = $1`, studentID); err != nil {
			return fmt.Errorf("error deleting student ledger rows: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, studentID)
		if err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		return nil
	})
}
