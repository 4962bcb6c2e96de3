package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
)

// CourseStore is the persistence port for courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByCode(ctx context.Context, courseCode string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, courseCode string) error
}

// SemesterFeeStore is the persistence port for fee structures
type SemesterFeeStore interface {
	Create(ctx context.Context, fee *models.SemesterFee) error
	GetByCourseAndSemester(ctx context.Context, courseCode string, semester int) (*models.SemesterFee, error)
	GetByCourse(ctx context.Context, courseCode string) ([]*models.SemesterFee, error)
	UpdateTotal(ctx context.Context, courseCode string, semester int, totalFees float64) (*models.SemesterFee, error)
	Delete(ctx context.Context, courseCode string, semester int) error
}

// CourseService manages courses and their per-semester fee structures
type CourseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, courseCode string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, courseCode string) error

	CreateSemesterFee(ctx context.Context, req dto.CreateSemesterFeeRequest) (*models.SemesterFee, error)
	GetSemesterFee(ctx context.Context, courseCode string, semester int) (*models.SemesterFee, error)
	ListSemesterFees(ctx context.Context, courseCode string) ([]*models.SemesterFee, error)
	UpdateSemesterFee(ctx context.Context, req dto.UpdateSemesterFeeRequest) (*models.SemesterFee, error)
	DeleteSemesterFee(ctx context.Context, courseCode string, semester int) error
}

type courseService struct {
	courses CourseStore
	fees    SemesterFeeStore
	logger  zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore, fees SemesterFeeStore, logger zerolog.Logger) CourseService {
	return &courseService{
		courses: courses,
		fees:    fees,
		logger:  logger,
	}
}

// NormalizeCourseCode canonicalizes a course code for storage and lookup
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *courseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		CourseCode:     NormalizeCourseCode(req.CourseCode),
		CourseName:     strings.TrimSpace(req.CourseName),
		TotalSemesters: req.TotalSemesters,
		DurationYears:  req.DurationYears,
		IsActive:       true,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseCode", course.CourseCode).Msg("Course created")
	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseCode string) (*models.Course, error) {
	return s.courses.GetByCode(ctx, NormalizeCourseCode(courseCode))
}

func (s *courseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courses.GetAll(ctx)
}

func (s *courseService) DeleteCourse(ctx context.Context, courseCode string) error {
	code := NormalizeCourseCode(courseCode)
	if err := s.courses.Delete(ctx, code); err != nil {
		return err
	}
	s.logger.Info().Str("courseCode", code).Msg("Course deleted")
	return nil
}

// CreateSemesterFee adds a fee structure row for one semester of a course.
// The semester must exist within the course's span.
func (s *courseService) CreateSemesterFee(ctx context.Context, req dto.CreateSemesterFeeRequest) (*models.SemesterFee, error) {
	code := NormalizeCourseCode(req.CourseCode)

	course, err := s.courses.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if req.Semester > course.TotalSemesters {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Semester exceeds the course duration")
	}

	fee := &models.SemesterFee{
		CourseCode: code,
		Semester:   req.Semester,
		TotalFees:  req.TotalFees,
	}
	if err := s.fees.Create(ctx, fee); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("courseCode", code).
		Int("semester", req.Semester).
		Float64("totalFees", req.TotalFees).
		Msg("Semester fee structure created")
	return fee, nil
}

func (s *courseService) GetSemesterFee(ctx context.Context, courseCode string, semester int) (*models.SemesterFee, error) {
	return s.fees.GetByCourseAndSemester(ctx, NormalizeCourseCode(courseCode), semester)
}

func (s *courseService) ListSemesterFees(ctx context.Context, courseCode string) ([]*models.SemesterFee, error) {
	return s.fees.GetByCourse(ctx, NormalizeCourseCode(courseCode))
}

// UpdateSemesterFee changes the total for a fee structure row. Existing
// ledger rows keep the total they were created with; only future
// enrollments pick up the new amount.
func (s *courseService) UpdateSemesterFee(ctx context.Context, req dto.UpdateSemesterFeeRequest) (*models.SemesterFee, error) {
	fee, err := s.fees.UpdateTotal(ctx, NormalizeCourseCode(req.CourseCode), req.Semester, req.TotalFees)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("courseCode", fee.CourseCode).
		Int("semester", fee.Semester).
		Float64("totalFees", fee.TotalFees).
		Msg("Semester fee structure updated")
	return fee, nil
}

func (s *courseService) DeleteSemesterFee(ctx context.Context, courseCode string, semester int) error {
	return s.fees.Delete(ctx, NormalizeCourseCode(courseCode), semester)
}
