package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrRollNoAlreadyExists = errors.New("roll number already exists")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrPhoneAlreadyExists  = errors.New("phone number already exists")
)

// Course and fee-structure errors
var (
	ErrCourseNotFound         = errors.New("course not found")
	ErrCourseAlreadyExists    = errors.New("course with this code already exists")
	ErrSemesterFeeNotFound    = errors.New("semester fee not found")
	ErrSemesterFeeExists      = errors.New("semester fee for this course and semester already exists")
	ErrCourseHasEnrollments   = errors.New("course has enrolled students and cannot be deleted")
	ErrInvalidSessionInterval = errors.New("session end year must not precede start year")
)

// Payment errors
var (
	ErrFeeRecordNotFound     = errors.New("student fee record not found")
	ErrFeeAlreadyPaid        = errors.New("semester fee already paid in full")
	ErrNoPendingFee          = errors.New("no pending fees")
	ErrAmountExceedsBalance  = errors.New("amount exceeds remaining balance")
	ErrDuplicatePendingOrder = errors.New("a pending payment order already exists")
	ErrPaymentNotFound       = errors.New("payment record not found")
	ErrSignatureInvalid      = errors.New("invalid payment signature")
	ErrGatewayFailure        = errors.New("payment gateway error")
	ErrLedgerInconsistent    = errors.New("confirmed payment has no matching fee record")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Details extracts the detail map from err if it wraps a CustomError
func Details(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}

// Message returns the outward-facing message for err: the CustomError
// message when one is present, otherwise the plain error text.
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
