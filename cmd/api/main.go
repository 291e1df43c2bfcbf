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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/config"
	"github.com/noah-isme/focus-mentor-api/internal/database"
	"github.com/noah-isme/focus-mentor-api/internal/handler"
	"github.com/noah-isme/focus-mentor-api/internal/middleware"
	"github.com/noah-isme/focus-mentor-api/internal/models"
	"github.com/noah-isme/focus-mentor-api/internal/repository"
	"github.com/noah-isme/focus-mentor-api/internal/router"
	"github.com/noah-isme/focus-mentor-api/internal/service"
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

	if err := db.AutoMigrate(&models.Student{}, &models.DailyLog{}, &models.Intervention{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, realtime last-event replay disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)

	notifier := service.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout, logger)
	realtimeService := service.NewRealtimeService(redisClient, cfg.StatusCacheTTL, logger)
	statusService := service.NewStatusService(studentRepo, checkinRepo, interventionRepo, notifier, realtimeService, validate, logger)

	studentHandler := handler.NewStudentHandler(statusService, logger)
	checkinHandler := handler.NewCheckinHandler(statusService, logger)
	interventionHandler := handler.NewInterventionHandler(statusService, logger)
	realtimeHandler := handler.NewRealtimeHandler(realtimeService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:      studentHandler,
		CheckinHandler:      checkinHandler,
		InterventionHandler: interventionHandler,
		RealtimeHandler:     realtimeHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
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
