package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/app/models/dto"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/auth"
)

// AdminStore is the persistence port for admin accounts
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
}

// StudentAuthStore is the subset of student persistence auth needs
type StudentAuthStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// AuthService handles authentication for both principal types sharing the
// login endpoint.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID int64, role models.RoleType) (interface{}, error)
	CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*models.Admin, error)
}

type authService struct {
	admins     AdminStore
	students   StudentAuthStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(admins AdminStore, students StudentAuthStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authService{
		admins:     admins,
		students:   students,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates by email and password. Admins and students share the
// endpoint; the admin table is checked first, then students. The response
// carries the role-appropriate dashboard route so the client does not have
// to infer it.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		if !auth.CheckPassword(admin.Password, req.Password) {
			s.logger.Warn().Str("email", email).Msg("Admin login failed: wrong password")
			return nil, apperrors.ErrInvalidCredentials
		}
		return s.issueToken(admin.ID, admin.Email, models.RoleAdmin, admin, "/admin/dashboard")
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !student.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if !auth.CheckPassword(student.Password, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Student login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issueToken(student.ID, student.Email, models.RoleStudent, student, "/student/dashboard")
}

func (s *authService) issueToken(userID int64, email string, role models.RoleType, user interface{}, dashboard string) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(userID, email, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", userID).Str("role", string(role)).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User:      user,
		Dashboard: dashboard,
	}, nil
}

// GetProfile returns the authenticated principal's own record
func (s *authService) GetProfile(ctx context.Context, userID int64, role models.RoleType) (interface{}, error) {
	switch role {
	case models.RoleAdmin:
		return s.admins.GetByID(ctx, userID)
	case models.RoleStudent:
		return s.students.GetByID(ctx, userID)
	default:
		return nil, apperrors.ErrTokenInvalid
	}
}

// CreateAdmin provisions another admin account. Authorization (only super
// admins may do this) is enforced at the route layer.
func (s *authService) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*models.Admin, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hash,
		SuperAdmin: req.SuperAdmin,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", admin.Email).Msg("Admin account created")
	return admin, nil
}
