package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the API error envelope. The
// service layer speaks sentinel errors; this is the single place they
// become HTTP statuses and error codes.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Validation
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidSessionInterval):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)
	case errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, err)

	// Missing resources
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrSemesterFeeNotFound),
		errors.Is(err, apperrors.ErrFeeRecordNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	// Conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrRollNoAlreadyExists),
		errors.Is(err, apperrors.ErrPhoneAlreadyExists),
		errors.Is(err, apperrors.ErrCourseAlreadyExists),
		errors.Is(err, apperrors.ErrSemesterFeeExists),
		errors.Is(err, apperrors.ErrCourseHasEnrollments),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)

	// Payment flow
	case errors.Is(err, apperrors.ErrFeeAlreadyPaid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeFeeAlreadyPaid, err)
	case errors.Is(err, apperrors.ErrNoPendingFee):
		respond(c, http.StatusBadRequest, dto.ErrorCodeNoPendingFee, err)
	case errors.Is(err, apperrors.ErrAmountExceedsBalance):
		respond(c, http.StatusBadRequest, dto.ErrorCodeAmountExceedsBalance, err)
	case errors.Is(err, apperrors.ErrDuplicatePendingOrder):
		respond(c, http.StatusConflict, dto.ErrorCodeDuplicateOrder, err)
	case errors.Is(err, apperrors.ErrSignatureInvalid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeSignatureInvalid, err)
	case errors.Is(err, apperrors.ErrGatewayFailure):
		respond(c, http.StatusBadGateway, dto.ErrorCodeGatewayError, err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, err error) {
	errorDetail := dto.NewErrorDetail(code, apperrors.Message(err))
	if details := apperrors.Details(err); details != nil {
		errorDetail = errorDetail.WithDetails(details)
	}
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
