// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/app/services"
	"github.com/akshat/campuspay/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles login for both admins and students
// @Summary Log in
// @Description Authenticates an admin or student by email and password and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authentication successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.authService.Login(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Login successful"))
}

// Me returns the authenticated principal's own profile
// @Summary Get current user
// @Description Returns the profile of the authenticated admin or student.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	role, roleOK := middleware.CurrentRole(ctx)
	if !ok || !roleOK {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.GetProfile(ctx, userID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(profile, ""))
}

// CreateAdmin provisions another admin account
// @Summary Create admin
// @Description Creates a new admin account. Only super admins may call this.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdminRequest true "New admin details"
// @Success 201 {object} dto.APIResponse "Admin created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not a super admin"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/admins [post]
func (c *AuthController) CreateAdmin(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	role, roleOK := middleware.CurrentRole(ctx)
	if !ok || !roleOK {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.GetProfile(ctx, userID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	caller, isAdmin := profile.(*models.Admin)
	if !isAdmin || !caller.SuperAdmin {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Only super admins can create admin accounts")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	admin, err := c.authService.CreateAdmin(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(admin, "Admin created"))
}
