package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/config"
	"github.com/shutterdesk/shutterdesk-api/internal/database"
	"github.com/shutterdesk/shutterdesk-api/internal/handler"
	"github.com/shutterdesk/shutterdesk-api/internal/middleware"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/repository"
	"github.com/shutterdesk/shutterdesk-api/internal/router"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/storage"
	cloud "github.com/shutterdesk/shutterdesk-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Photo{},
		&models.Booking{},
		&models.BookingAttachment{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	fileStorage, err := buildStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	media := service.NewMediaStore(fileStorage, cfg.UploadMaxMB, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, activityService, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, activityService, validate, logger)
	albumService := service.NewAlbumService(albumRepo, photoRepo, activityService, media, validate, logger)
	photoService := service.NewPhotoService(photoRepo, albumRepo, activityService, media, validate, logger)
	bookingEvents := service.NewBookingEventPublisher(natsConn, cfg.BookingSubject, logger)
	bookingService := service.NewBookingService(bookingRepo, albumRepo, photoRepo, userRepo, activityService, bookingEvents, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, albumRepo, photoRepo, bookingRepo, activityService, redisClient, cfg.DashboardCacheTTL, logger)
	directoryService := service.NewDirectoryService(userRepo, albumRepo, photoRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	if cfg.StorageDriver == "local" {
		app.Static("/uploads", cfg.StorageDir)
	}

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:                handler.NewAuthHandler(authService, logger),
		PublicHandler:              handler.NewPublicHandler(photoService, albumService, directoryService, cfg.FeedLimit, logger),
		ProfileHandler:             handler.NewProfileHandler(userService, logger),
		BookingHandler:             handler.NewBookingHandler(bookingService, logger),
		PhotographerBookingHandler: handler.NewPhotographerBookingHandler(bookingService, logger),
		AdminBookingHandler:        handler.NewAdminBookingHandler(bookingService, logger),
		AlbumHandler:               handler.NewAlbumHandler(albumService, logger),
		PhotoHandler:               handler.NewPhotoHandler(photoService, logger),
		AdminUserHandler:           handler.NewAdminUserHandler(userService, logger),
		ActivityLogHandler:         handler.NewActivityLogHandler(activityService, logger),
		DashboardHandler:           handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:              middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildStorage(cfg config.Config, logger zerolog.Logger) (service.FileStorage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
	}
	return storage.NewLocal(cfg.StorageDir, logger)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
