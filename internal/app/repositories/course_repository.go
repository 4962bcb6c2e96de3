package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_code, course_name, total_semesters, duration_years, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.CourseCode, course.CourseName, course.TotalSemesters, course.DurationYears,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_course_code_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	course.IsActive = true

	return nil
}

// GetByCode retrieves a course by its code
func (r *CourseRepository) GetByCode(ctx context.Context, courseCode string) (*models.Course, error) {
	query := `
		SELECT id, course_code, course_name, total_semesters, duration_years, is_active, created_at, updated_at
		FROM courses
		WHERE course_code = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, courseCode).Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.TotalSemesters,
		&course.DurationYears,
		&course.IsActive,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses ordered by code
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, course_code, course_name, total_semesters, duration_years, is_active, created_at, updated_at
		FROM courses
		ORDER BY course_code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.CourseCode,
			&course.CourseName,
			&course.TotalSemesters,
			&course.DurationYears,
			&course.IsActive,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Delete removes a course by code. Courses with enrolled students cannot be
// deleted.
func (r *CourseRepository) Delete(ctx context.Context, courseCode string) error {
	var hasStudents bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE course_code = $1)`,
		courseCode).Scan(&hasStudents)
	if err != nil {
		return fmt.Errorf("error checking course enrollments: %w", err)
	}

	if hasStudents {
		return apperrors.ErrCourseHasEnrollments
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE course_code = $1`, courseCode)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
