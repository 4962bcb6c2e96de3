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

// CourseController handles course and fee structure management
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.CreateCourse(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course, "Course created"))
}

// ListCourses lists all courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses, ""))
}

// GetCourse returns one course with its fee structures
// @Summary Get course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseCode path string true "Course code"
// @Success 200 {object} dto.APIResponse "Course retrieved"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{courseCode} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	code := ctx.Param("courseCode")

	course, err := c.courseService.GetCourse(ctx, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fees, err := c.courseService.ListSemesterFees(ctx, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"course":       course,
		"semesterFees": fees,
	}, ""))
}

// DeleteCourse deletes a course without enrollments
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseCode path string true "Course code"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course has enrolled students"
// @Router /courses/{courseCode} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.DeleteCourse(ctx, ctx.Param("courseCode")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Course deleted"))
}

// CreateSemesterFee creates a fee structure row
// @Summary Create semester fee
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSemesterFeeRequest true "Fee structure details"
// @Success 201 {object} dto.APIResponse{data=models.SemesterFee} "Fee structure created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Fee structure already exists"
// @Router /semester-fees [post]
func (c *CourseController) CreateSemesterFee(ctx *gin.Context) {
	var req dto.CreateSemesterFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fee, err := c.courseService.CreateSemesterFee(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(fee, "Semester fee created"))
}

// ListSemesterFees lists the fee structures of a course, or one semester's
// @Summary List semester fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param courseCode query string true "Course code"
// @Param semester query int false "Restrict to a single semester"
// @Success 200 {object} dto.APIResponse{data=[]models.SemesterFee} "Fee structures retrieved"
// @Failure 404 {object} dto.ErrorResponse "Fee structure not found"
// @Router /semester-fees [get]
func (c *CourseController) ListSemesterFees(ctx *gin.Context) {
	code := ctx.Query("courseCode")
	if code == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "courseCode query parameter is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if raw := ctx.Query("semester"); raw != "" {
		semester, err := strconv.Atoi(raw)
		if err != nil || semester < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "semester must be a positive integer")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		fee, err := c.courseService.GetSemesterFee(ctx, code, semester)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(fee, ""))
		return
	}

	fees, err := c.courseService.ListSemesterFees(ctx, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(fees, ""))
}

// UpdateSemesterFee updates the total of a fee structure row
// @Summary Update semester fee
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSemesterFeeRequest true "Updated fee structure"
// @Success 200 {object} dto.APIResponse{data=models.SemesterFee} "Fee structure updated"
// @Failure 404 {object} dto.ErrorResponse "Fee structure not found"
// @Router /semester-fees [put]
func (c *CourseController) UpdateSemesterFee(ctx *gin.Context) {
	var req dto.UpdateSemesterFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fee, err := c.courseService.UpdateSemesterFee(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(fee, "Semester fee updated"))
}

// DeleteSemesterFee deletes a fee structure row
// @Summary Delete semester fee
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param courseCode path string true "Course code"
// @Param semester path int true "Semester"
// @Success 200 {object} dto.APIResponse "Fee structure deleted"
// @Failure 404 {object} dto.ErrorResponse "Fee structure not found"
// @Router /semester-fees/{courseCode}/{semester} [delete]
func (c *CourseController) DeleteSemesterFee(ctx *gin.Context) {
	semester, err := strconv.Atoi(ctx.Param("semester"))
	if err != nil || semester < 1 {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid semester"))
		return
	}

	if err := c.courseService.DeleteSemesterFee(ctx, ctx.Param("courseCode"), semester); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Semester fee deleted"))
}
