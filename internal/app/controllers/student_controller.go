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

// StudentController handles student management endpoints for admins
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

func studentIDParam(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid student ID")
	}
	return id, nil
}

// CreateStudent enrolls a student
// @Summary Enroll student
// @Description Creates a student account and seeds a fee ledger row for every fee structure of the chosen course.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student details"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Roll number, email or phone already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.CreateStudent(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student, "Student enrolled"))
}

// ListStudents lists all students, or looks one up by roll number
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param rollNo query string false "Look up a single student by roll number"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	if rollNo := ctx.Query("rollNo"); rollNo != "" {
		detail, err := c.studentService.GetStudentByRollNo(ctx, rollNo)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(detail, "Student retrieved"))
		return
	}

	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students, ""))
}

// GetStudent returns one student with payments and ledger
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentDetailResponse} "Student retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := studentIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(detail, ""))
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email or phone already exists"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := studentIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Student updated"))
}

// DeleteStudent removes a student with their payments and ledger rows
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := studentIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Student deleted"))
}

// OverrideStudentFee corrects one ledger row directly
// @Summary Override student fee
// @Description Admin correction of a ledger row, for payments settled outside the gateway.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.OverrideStudentFeeRequest true "Corrected ledger values"
// @Success 200 {object} dto.APIResponse{data=models.StudentFee} "Ledger row updated"
// @Failure 404 {object} dto.ErrorResponse "Student or ledger row not found"
// @Router /students/{id}/fees [put]
func (c *StudentController) OverrideStudentFee(ctx *gin.Context) {
	id, err := studentIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.OverrideStudentFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fee, err := c.studentService.OverrideStudentFee(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(fee, "Student fee updated"))
}
