package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/altibbe/transparency-api/internal/cache"
	"github.com/altibbe/transparency-api/internal/config"
	"github.com/altibbe/transparency-api/internal/database"
	"github.com/altibbe/transparency-api/internal/handler"
	"github.com/altibbe/transparency-api/internal/middleware"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/pkg/groq"
)

// main is the application entrypoint for the transparency intake API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting transparency api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The report document cache degrades to a no-op
	// when Redis is unavailable or not configured.
	var redisClient *cache.RedisClient
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - report cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("redis connected successfully")
		}
	}
	docCache := cache.NewDocumentCache(redisClient)

	// 4. Initialize Groq client
	groqClient := groq.NewClient(groq.Config{
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
		BaseURL: cfg.Groq.BaseURL,
		Timeout: cfg.Groq.Timeout,
	})

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	productSvc := service.NewProductService(productRepo)
	questionSvc := service.NewQuestionService(productRepo, questionRepo, groqClient)
	scoringSvc := service.NewScoringService(groqClient)
	archiveSvc := service.NewArchiveService(&cfg.Archive)
	if !archiveSvc.Enabled() {
		log.Warn().Msg("archive storage not configured - report documents will not be uploaded")
	}
	reportSvc := service.NewReportService(productRepo, questionRepo, reportRepo, scoringSvc, docCache, archiveSvc)

	// 6a. Seed the demo user that owns unauthenticated submissions
	demoUser, err := authSvc.EnsureDemoUser(cfg.Demo.Username)
	if err != nil {
		log.Error().Err(err).Msg("demo user seeding failed")
		fmt.Fprintf(os.Stderr, "demo user seeding failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("username", demoUser.Username).Msg("demo user ready")

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient, cfg.Groq.Model),
		Auth:     handler.NewAuthHandler(authSvc),
		Product:  handler.NewProductHandler(productSvc),
		Question: handler.NewQuestionHandler(questionSvc),
		Report:   handler.NewReportHandler(reportSvc),
	}

	// 8. Initialize middleware
	identityMw := middleware.NewIdentityMiddleware(authSvc, demoUser.ID)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, identityMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Question *handler.QuestionHandler
	Report   *handler.ReportHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, identityMiddleware *middleware.IdentityMiddleware) {
	router.GET("/health", handlers.Health.GetHealth)

	api := router.Group("/api")
	api.POST("/auth/register", handlers.Auth.Register)
	api.POST("/auth/login", handlers.Auth.Login)

	api.Use(identityMiddleware.Handle())
	{
		api.GET("/products", handlers.Product.ListProducts)
		api.POST("/products", handlers.Product.CreateProduct)
		api.GET("/products/:id", handlers.Product.GetProduct)
		api.PATCH("/products/:id", handlers.Product.UpdateProduct)
		api.DELETE("/products/:id", handlers.Product.DeleteProduct)

		api.POST("/products/:id/generate-questions", handlers.Question.GenerateQuestions)
		api.GET("/products/:id/questions", handlers.Question.ListQuestions)
		api.PATCH("/questions/:id/response", handlers.Question.RecordResponse)

		api.POST("/products/:id/generate-report", handlers.Report.GenerateReport)
		api.GET("/products/:id/reports", handlers.Report.ListReports)
		api.GET("/reports/:id/download", handlers.Report.DownloadReport)
		api.GET("/sample-report", handlers.Report.SampleReport)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
