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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/dipta11/Football-Tournamnet-Maker/brackets"
	"github.com/dipta11/Football-Tournamnet-Maker/config"
	"github.com/dipta11/Football-Tournamnet-Maker/db"
	"github.com/dipta11/Football-Tournamnet-Maker/handlers"
	"github.com/dipta11/Football-Tournamnet-Maker/middleware"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
	api "github.com/dipta11/Football-Tournamnet-Maker/routes"
	"github.com/dipta11/Football-Tournamnet-Maker/services"
	"github.com/dipta11/Football-Tournamnet-Maker/storage"
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

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	goalRepo := repositories.NewPostgresGoalRepository(dbConn)
	standingsRepo := repositories.NewPostgresStandingsRepository(dbConn)
	progressRepo := repositories.NewPostgresProgressRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	slotResolver := services.NewSlotResolver(matchRepo, goalRepo, standingsRepo)
	progressService := services.NewProgressService(progressRepo, matchRepo, tournamentRepo, groupRepo, standingsRepo, wsHub)
	championService := services.NewChampionService(matchRepo, goalRepo, teamRepo, standingsRepo, progressService)
	txBeginner := services.NewSQLTxBeginner(dbConn)
	matchService := services.NewMatchService(
		txBeginner,
		matchRepo,
		goalRepo,
		teamRepo,
		venueRepo,
		tournamentRepo,
		standingsRepo,
		groupRepo,
		slotResolver,
		progressService,
		wsHub,
	)
	resultService := services.NewResultService(
		txBeginner,
		matchRepo,
		goalRepo,
		tournamentRepo,
		standingsRepo,
		matchService,
		progressService,
		championService,
		wsHub,
		logger,
	)
	tournamentService := services.NewTournamentService(
		txBeginner,
		tournamentRepo,
		teamRepo,
		groupRepo,
		playerRepo,
		standingsRepo,
		progressService,
		cloudflareUploader,
		logger,
	)
	venueService := services.NewVenueService(venueRepo)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	statsService := services.NewStatsService(goalRepo)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	matchHandler := handlers.NewMatchHandler(matchService, resultService)
	progressHandler := handlers.NewProgressHandler(progressService, championService)
	statsHandler := handlers.NewStatsHandler(statsService)
	venueHandler := handlers.NewVenueHandler(venueService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		tournamentHandler,
		matchHandler,
		progressHandler,
		statsHandler,
		venueHandler,
		playerHandler,
		webSocketHandler,
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
		}
		logger.Info("server stopped gracefully")
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
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
