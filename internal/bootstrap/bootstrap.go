package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/akshat/campuspay/docs" // Generated swagger docs
	appControllers "github.com/akshat/campuspay/internal/app/controllers"
	appMigrations "github.com/akshat/campuspay/internal/app/migrations"
	appRepos "github.com/akshat/campuspay/internal/app/repositories"
	appRoutes "github.com/akshat/campuspay/internal/app/routes"
	appServices "github.com/akshat/campuspay/internal/app/services"
	"github.com/akshat/campuspay/internal/config"
	"github.com/akshat/campuspay/internal/db"
	appMiddleware "github.com/akshat/campuspay/internal/middleware"
	pkgAuth "github.com/akshat/campuspay/internal/pkg/auth"
	"github.com/akshat/campuspay/internal/pkg/logger"
	"github.com/akshat/campuspay/internal/pkg/razorpay"
	"github.com/akshat/campuspay/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	CourseService     appServices.CourseService
	StudentService    appServices.StudentService
	PaymentService    appServices.PaymentService
	FeeService        appServices.FeeService
	AuthController    *appControllers.AuthController
	CourseController  *appControllers.CourseController
	StudentController *appControllers.StudentController
	PaymentController *appControllers.PaymentController
	FeeController     *appControllers.FeeController
	WebhookController *appControllers.WebhookController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	RazorpayClient    *razorpay.Client
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations, and
// seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection established")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExpirationDuration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.RazorpayClient = razorpay.NewClient(razorpay.Config{
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		Currency:      cfg.Razorpay.Currency,
		BaseURL:       cfg.Razorpay.BaseURL,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AdminRepository,
		deps.Repos.StudentRepository,
		deps.JWTService,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.SemesterFeeRepository,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.CourseRepository,
		deps.Repos.SemesterFeeRepository,
		deps.Repos.StudentFeeRepository,
		deps.Repos.PaymentRepository,
		lgr,
	)
	deps.PaymentService = appServices.NewPaymentService(
		deps.Repos.PaymentRepository,
		deps.Repos.StudentFeeRepository,
		deps.RazorpayClient,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret,
		cfg.PendingOrderWindowDuration(),
		lgr,
	)
	deps.FeeService = appServices.NewFeeService(
		deps.Repos.StudentFeeRepository,
		deps.Repos.StudentFeeRepository,
		deps.Repos.PaymentRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.PaymentController = appControllers.NewPaymentController(deps.PaymentService, lgr)
	deps.FeeController = appControllers.NewFeeController(deps.FeeService, lgr)
	deps.WebhookController = appControllers.NewWebhookController(deps.PaymentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.StudentController,
		deps.PaymentController,
		deps.FeeController,
		deps.WebhookController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
