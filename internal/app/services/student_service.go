package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/auth"
)

// StudentStore is the persistence port for student records
type StudentStore interface {
	Create(ctx context.Context, student *models.Student, fees []*models.SemesterFee) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, studentID int64) error
}

// StudentLedgerStore is the ledger surface the student service needs beyond
// payment reconciliation
type StudentLedgerStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentFee, error)
	Override(ctx context.Context, studentID int64, semester int, amountPaid float64, status models.FeeStatus) (*models.StudentFee, error)
}

// PaymentHistoryStore lists payment records for a student
type PaymentHistoryStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error)
}

// StudentService manages student enrollment and the admin view over a
// student's payments and ledger.
type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*dto.StudentDetailResponse, error)
	GetStudentByRollNo(ctx context.Context, rollNo string) (*dto.StudentDetailResponse, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	OverrideStudentFee(ctx context.Context, studentID int64, req dto.OverrideStudentFeeRequest) (*models.StudentFee, error)
}

type studentService struct {
	students StudentStore
	courses  CourseStore
	feeRows  SemesterFeeStore
	ledger   StudentLedgerStore
	payments PaymentHistoryStore
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	students StudentStore,
	courses CourseStore,
	feeRows SemesterFeeStore,
	ledger StudentLedgerStore,
	payments PaymentHistoryStore,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students: students,
		courses:  courses,
		feeRows:  feeRows,
		ledger:   ledger,
		payments: payments,
		logger:   logger,
	}
}

// CreateStudent enrolls a student and seeds one ledger row per fee
// structure row of the course, all inside one transaction. Enrollment in a
// course with no fee structures is allowed; ledger rows can be added later
// by creating the structures and re-enrolling is not required because
// payments validate against the ledger, not the course.
func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if req.SessionEndYear < req.SessionStartYear {
		return nil, apperrors.ErrInvalidSessionInterval
	}

	code := NormalizeCourseCode(req.CourseCode)
	if _, err := s.courses.GetByCode(ctx, code); err != nil {
		return nil, err
	}

	fees, err := s.feeRows.GetByCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:             strings.TrimSpace(req.Name),
		RollNo:           strings.ToUpper(strings.TrimSpace(req.RollNo)),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		Password:         hash,
		CourseCode:       code,
		SessionStartYear: req.SessionStartYear,
		SessionEndYear:   req.SessionEndYear,
		CurrentSemester:  1,
		IsActive:         true,
	}
	if err := s.students.Create(ctx, student, fees); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", student.ID).
		Str("rollNo", student.RollNo).
		Str("courseCode", code).
		Int("ledgerRows", len(fees)).
		Msg("Student enrolled")
	return student, nil
}

// GetStudent returns a student along with their payment history and ledger
func (s *studentService) GetStudent(ctx context.Context, id int64) (*dto.StudentDetailResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.studentDetail(ctx, student)
}

// GetStudentByRollNo looks up a student by roll number, case-insensitively.
func (s *studentService) GetStudentByRollNo(ctx context.Context, rollNo string) (*dto.StudentDetailResponse, error) {
	student, err := s.students.GetByRollNo(ctx, strings.ToUpper(strings.TrimSpace(rollNo)))
	if err != nil {
		return nil, err
	}
	return s.studentDetail(ctx, student)
}

func (s *studentService) studentDetail(ctx context.Context, student *models.Student) (*dto.StudentDetailResponse, error) {
	payments, err := s.payments.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	fees, err := s.ledger.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentDetailResponse{
		Student:  student,
		Payments: payments,
		Fees:     fees,
	}, nil
}

func (s *studentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.GetAll(ctx)
}

// UpdateStudent applies a partial update. Roll number and course are fixed
// at enrollment and not updatable.
func (s *studentService) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		student.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.CurrentSemester != nil {
		student.CurrentSemester = *req.CurrentSemester
	}
	if req.IsConcession != nil {
		student.IsConcession = *req.IsConcession
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", id).Msg("Student updated")
	return student, nil
}

// DeleteStudent removes a student with their payments and ledger rows in
// one transaction.
func (s *studentService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentId", id).Msg("Student deleted")
	return nil
}

// OverrideStudentFee is the admin escape hatch for ledger corrections
// (offline payments, refunds settled outside the gateway). It bypasses the
// payment flow entirely.
func (s *studentService) OverrideStudentFee(ctx context.Context, studentID int64, req dto.OverrideStudentFeeRequest) (*models.StudentFee, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	fee, err := s.ledger.Override(ctx, studentID, req.Semester, req.AmountPaid, req.Status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", studentID).
		Int("semester", req.Semester).
		Float64("amountPaid", req.AmountPaid).
		Str("status", string(fee.Status)).
		Msg("Student fee overridden by admin")
	return fee, nil
}
