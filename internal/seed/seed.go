package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/akshat/campuspay/internal/app/models"
	appRepos "github.com/akshat/campuspay/internal/app/repositories"
	"github.com/akshat/campuspay/internal/config"
	"github.com/akshat/campuspay/internal/pkg/apperrors"
	"github.com/akshat/campuspay/internal/pkg/auth"
)

// CreateDefaultAdmin provisions the initial super admin account from
// configuration so a fresh deployment can be administered. It is a no-op
// when the account already exists or no credentials are configured.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}

	adminRepo := appRepos.NewAdminRepository(dbPool)
	email := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))

	if _, err := adminRepo.GetByEmail(ctx, email); err == nil {
		lgr.Debug().Str("email", email).Msg("Default admin already exists")
		return nil
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &appModels.Admin{
		Email:      email,
		Password:   hash,
		SuperAdmin: true,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", email).Msg("Default super admin created")
	return nil
}
