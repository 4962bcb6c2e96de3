package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
)

// FeeService is the student self-service view over the fee ledger and
// payment history. Everything here is scoped to the authenticated student.
type FeeService interface {
	GetMyFees(ctx context.Context, studentID int64) ([]*models.StudentFee, error)
	GetMyPayments(ctx context.Context, studentID int64) ([]*models.Payment, error)
	GetFeeStatus(ctx context.Context, studentID int64, courseCode string, semester int) (*dto.FeeStatusResponse, error)
}

type feeService struct {
	ledger   FeeLedgerStore
	rows     StudentLedgerStore
	payments PaymentHistoryStore
	logger   zerolog.Logger
}

// NewFeeService creates a new fee service instance
func NewFeeService(ledger FeeLedgerStore, rows StudentLedgerStore, payments PaymentHistoryStore, logger zerolog.Logger) FeeService {
	return &feeService{
		ledger:   ledger,
		rows:     rows,
		payments: payments,
		logger:   logger,
	}
}

func (s *feeService) GetMyFees(ctx context.Context, studentID int64) ([]*models.StudentFee, error) {
	return s.rows.ListByStudent(ctx, studentID)
}

func (s *feeService) GetMyPayments(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	return s.payments.ListByStudent(ctx, studentID)
}

func (s *feeService) GetFeeStatus(ctx context.Context, studentID int64, courseCode string, semester int) (*dto.FeeStatusResponse, error) {
	fee, err := s.ledger.Get(ctx, studentID, NormalizeCourseCode(courseCode), semester)
	if err != nil {
		return nil, err
	}
	return feeStatusOf(fee), nil
}
