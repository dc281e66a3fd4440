package app

import (
	"context"
	"fmt"
	"time"

	"artbook_backend/internal/cache"
	"artbook_backend/internal/config"
	"artbook_backend/internal/handlers"
	"artbook_backend/internal/logger"
	"artbook_backend/internal/middleware"
	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/routes"
	"artbook_backend/internal/services"
	"artbook_backend/internal/validator"
	"artbook_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, cfg, gormDB, serviceContainer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	proposalRepo := repositories.NewProposalRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	var viewDeduper *cache.ViewDeduper
	if cfg.Redis.URL != "" {
		deduper, err := cache.New(cfg.Redis.URL, time.Duration(cfg.Redis.ViewTTLMin)*time.Minute)
		if err != nil {
			logger.Warn("Redis unavailable, view dedup disabled", "error", err)
		} else {
			logger.Info("Redis connected, view dedup enabled")
			viewDeduper = deduper
		}
	}

	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	ratingService := services.NewRatingService(reviewRepo, userRepo)
	authService := services.NewAuthService(userRepo)
	jobService := services.NewJobService(jobRepo, proposalRepo, userRepo, notificationService, viewDeduper)
	proposalService := services.NewProposalService(proposalRepo, jobRepo, userRepo, notificationService)
	reviewService := services.NewReviewService(reviewRepo, jobRepo, userRepo, ratingService, notificationService)

	return &services.ServiceContainer{
		AuthService:         authService,
		JobService:          jobService,
		ProposalService:     proposalService,
		ReviewService:       reviewService,
		RatingService:       ratingService,
		NotificationService: notificationService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		JobHandler:          handlers.NewJobHandler(baseHandler, container.JobService),
		ProposalHandler:     handlers.NewProposalHandler(baseHandler, container.ProposalService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, container.ReviewService, container.RatingService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func startWorkers(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer) {
	jobWorker := workers.NewJobWorker(gormDB, repositories.NewJobRepository(),
		time.Duration(cfg.Jobs.ExpirySweepMin)*time.Minute)
	jobWorker.Start(ctx)

	ratingWorker := workers.NewRatingWorker(gormDB, container.RatingService,
		time.Duration(cfg.Jobs.RatingSweepMin)*time.Minute)
	ratingWorker.Start(ctx)

	logger.Info("Background workers started")
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ArtistProfile{},
		&models.Job{},
		&models.Proposal{},
		&models.Review{},
		&models.Notification{},
	)
}
