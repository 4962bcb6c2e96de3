package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/app/services"
	"github.com/akshat/campuspay/internal/middleware"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
)

// FeeController exposes the authenticated student's own ledger and payment
// history.
type FeeController struct {
	feeService services.FeeService
	logger     zerolog.Logger
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeService, logger zerolog.Logger) *FeeController {
	return &FeeController{
		feeService: feeService,
		logger:     logger,
	}
}

// MyFees lists the student's ledger rows
// @Summary My fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.StudentFee} "Ledger retrieved"
// @Router /fees/me [get]
func (c *FeeController) MyFees(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	fees, err := c.feeService.GetMyFees(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(fees, ""))
}

// MyPayments lists the student's payment history
// @Summary My payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Payment} "Payments retrieved"
// @Router /payments/me [get]
func (c *FeeController) MyPayments(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	payments, err := c.feeService.GetMyPayments(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(payments, ""))
}

// FeeStatus reports the ledger position for one course semester
// @Summary Fee status
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param courseCode query string true "Course code"
// @Param semester query int true "Semester"
// @Success 200 {object} dto.APIResponse{data=dto.FeeStatusResponse} "Status retrieved"
// @Failure 404 {object} dto.ErrorResponse "No fee record for this course and semester"
// @Router /fees/status [get]
func (c *FeeController) FeeStatus(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	courseCode := ctx.Query("courseCode")
	semester, err := strconv.Atoi(ctx.Query("semester"))
	if courseCode == "" || err != nil || semester < 1 {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, "courseCode and semester query parameters are required"))
		return
	}

	status, err := c.feeService.GetFeeStatus(ctx, studentID, courseCode, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status, ""))
}
