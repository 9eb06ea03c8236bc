package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/club-system/config"
	"github.com/Dosada05/club-system/db"
	"github.com/Dosada05/club-system/handlers"
	"github.com/Dosada05/club-system/middleware"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	api "github.com/Dosada05/club-system/routes"
	"github.com/Dosada05/club-system/services"
	"github.com/Dosada05/club-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Применение миграций
	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Инициализация загрузчика файлов (Cloudflare R2), если настроен
	var uploader storage.FileUploader
	if cfg.StorageConfigured() {
		r2Uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		uploader = r2Uploader
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("file storage not configured, avatar uploads disabled")
	}

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	practiceRepo := repositories.NewPostgresPracticeRepository(dbConn)
	participationRepo := repositories.NewPostgresParticipationRepository(dbConn)
	ballBagRepo := repositories.NewPostgresBallBagRepository(dbConn)
	ballBagHistoryRepo := repositories.NewPostgresBallBagHistoryRepository(dbConn)
	courtFeeRepo := repositories.NewPostgresCourtFeeRepository(dbConn)
	settingRepo := repositories.NewPostgresSettingRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	lineNotifier := notify.NewLineNotifier(logger)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader, logger)
	practiceService := services.NewPracticeService(practiceRepo, reservationRepo, userRepo, lineNotifier, logger)
	participationService := services.NewParticipationService(participationRepo, practiceRepo)
	ballBagService := services.NewBallBagService(dbConn, ballBagRepo, ballBagHistoryRepo, practiceRepo, logger)
	courtFeeService := services.NewCourtFeeService(courtFeeRepo, participationRepo, practiceRepo, settingRepo)
	settingService := services.NewSettingService(settingRepo)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	practiceHandler := handlers.NewPracticeHandler(practiceService)
	participationHandler := handlers.NewParticipationHandler(participationService)
	ballBagHandler := handlers.NewBallBagHandler(ballBagService)
	courtFeeHandler := handlers.NewCourtFeeHandler(courtFeeService)
	settingHandler := handlers.NewSettingHandler(settingService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		authHandler,
		userHandler,
		practiceHandler,
		participationHandler,
		ballBagHandler,
		courtFeeHandler,
		settingHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
