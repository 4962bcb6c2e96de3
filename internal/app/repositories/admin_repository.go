package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshat/campuspay/internal/app/models"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/dberrors"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

// Create inserts a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, password, super_admin)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, admin.Email, admin.Password, admin.SuperAdmin).Scan(&admin.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, password, super_admin
		FROM admins
		WHERE email = $1
	`

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Password,
		&admin.SuperAdmin,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

// GetByID retrieves an admin by id
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := `
		SELECT id, email, password, super_admin
		FROM admins
		WHERE id = $1
	`

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, id).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Password,
		&admin.SuperAdmin,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}
