package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "coursefolio/internal/app/controllers"
	appMigrations "coursefolio/internal/app/migrations"
	appRepos "coursefolio/internal/app/repositories"
	appRoutes "coursefolio/internal/app/routes"
	appServices "coursefolio/internal/app/services"
	"coursefolio/internal/config"
	"coursefolio/internal/db"
	appMiddleware "coursefolio/internal/middleware"
	"coursefolio/internal/pkg/filestorage"
	"coursefolio/internal/pkg/helpers"
	"coursefolio/internal/pkg/logger"
	"coursefolio/internal/pkg/screenshot"
	"coursefolio/internal/seed"
)

// Dependencies holds all the application dependencies.
type Dependencies struct {
	AuthService          appServices.AuthService
	AssignmentService    appServices.AssignmentService
	CourseService        appServices.CourseService
	AuthController       *appControllers.AuthController
	AssignmentController *appControllers.AssignmentController
	CourseController     *appControllers.CourseController
	UploadController     *appControllers.UploadController
	ScreenshotController *appControllers.ScreenshotController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	FileStorage          *filestorage.LocalStorage
	Logger               zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
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
	lgr.Info().Msg("Database connection successfully established.")

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

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	// Stale sessions accumulate between logins; clear them on boot.
	sessionRepo := appRepos.NewSessionRepository(dbPool)
	if err := sessionRepo.DeleteExpired(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to prune expired sessions")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	fileStorageBaseURL := strings.TrimRight(baseURL, "/") + "/uploads"

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	sessionTTL := helpers.ParseDuration(cfg.Auth.SessionTTL, 720*time.Hour)
	shotTimeout := helpers.ParseDuration(cfg.Screenshot.Timeout, 5*time.Second)

	var generator appServices.ScreenshotGenerator
	if cfg.Screenshot.APIKey != "" {
		generator = screenshot.NewService(cfg.Screenshot.APIKey, deps.FileStorage, shotTimeout)
	} else {
		lgr.Warn().Msg("Screenshot API key not configured, link previews disabled")
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.SessionRepository,
		cfg.Auth.AdminUsername,
		sessionTTL,
		lgr,
	)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos.AssignmentRepository,
		generator,
		shotTimeout,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cfg.Auth.CookieName)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, appControllers.CookieSettings{
		Name:   cfg.Auth.CookieName,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.SecureCookies(),
		TTL:    sessionTTL,
	})
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage)
	deps.ScreenshotController = appControllers.NewScreenshotController(generator)

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
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Session cookies ride on cross-site requests, so origins are an
	// explicit allow-list and credentials are on.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AssignmentController,
		deps.CourseController,
		deps.UploadController,
		deps.ScreenshotController,
		deps.AuthMiddleware,
	)

	return router
}
