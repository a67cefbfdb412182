package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/coursecraft/lms/docs"
	authMiddleware "github.com/coursecraft/lms/internal/auth/middleware"
	authService "github.com/coursecraft/lms/internal/auth/service"
	"github.com/coursecraft/lms/internal/cache"
	"github.com/coursecraft/lms/internal/config"
	"github.com/coursecraft/lms/internal/handlers"
	"github.com/coursecraft/lms/internal/logger"
	loggerMiddleware "github.com/coursecraft/lms/internal/logger/middleware"
	sharedMiddleware "github.com/coursecraft/lms/internal/middlewares"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/repositories"
	"github.com/coursecraft/lms/internal/services"
	"github.com/coursecraft/lms/internal/storage"
	"github.com/coursecraft/lms/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	maxRequestSize = 1 << 20 // 1MB for JSON bodies
	maxUploadSize  = 1 << 30 // 1GB for bulk video uploads
)

// @title CourseCraft LMS API
// @version 1.0
// @description API for authoring and browsing video courses

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CourseCraft API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client for media cleanup jobs
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize JWT token validator
	tokenGenerator := authService.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize storage, repositories and cache
	fileStorage := storage.NewLocalStorage(cfg.Media.BasePath)
	courseRepo := repositories.NewCourseRepository(db)
	mediaRepo := repositories.NewMediaRepository(db)
	courseCache := cache.NewCourseCache(rdb, cfg.Redis.CacheTTL)
	dispatcher := tasks.NewDispatcher(asynqClient, logger.Logger)

	// Initialize services
	mediaService := services.NewMediaService(mediaRepo, fileStorage, cfg.Media.BaseURL, logger.Logger)
	instructorService := services.NewInstructorCourseService(courseRepo, courseCache, dispatcher, logger.Logger)
	studentService := services.NewStudentCourseService(courseRepo, courseCache, logger.Logger)

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger)
	instructorHandler := handlers.NewInstructorCourseHandler(instructorService, logger.Logger)
	studentHandler := handlers.NewStudentCourseHandler(studentService, logger.Logger)

	// Initialize middleware
	instructorMw := authMiddleware.RoleMiddleware(tokenGenerator, models.RoleInstructor)
	studentMw := authMiddleware.RoleMiddleware(tokenGenerator, models.RoleStudent, models.RoleInstructor)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))

	jsonBodyLimit := sharedMiddleware.RequestSizeLimitMiddleware(maxRequestSize)
	uploadBodyLimit := sharedMiddleware.RequestSizeLimitMiddleware(maxUploadSize)

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		// Lecture videos are streamed without authentication
		r.Get("/media/files/{id}", mediaHandler.ServeFile)

		r.Group(func(r chi.Router) {
			r.Use(instructorMw, uploadBodyLimit)
			mediaHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(instructorMw, jsonBodyLimit)
			instructorHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(studentMw, jsonBodyLimit)
			studentHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Minute, // Bulk video uploads
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "lms_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try the repository root if running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
