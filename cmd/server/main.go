package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opptima/propel-backend/internal/config"
	"github.com/opptima/propel-backend/internal/db"
	"github.com/opptima/propel-backend/internal/generator"
	httpHandlers "github.com/opptima/propel-backend/internal/http/handlers"
	httpRouter "github.com/opptima/propel-backend/internal/http/router"
	"github.com/opptima/propel-backend/internal/logger"
	"github.com/opptima/propel-backend/internal/repository"
	"github.com/opptima/propel-backend/internal/service"
	"github.com/opptima/propel-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cache := service.NewCacheService()

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	draftRepo := repository.NewDraftRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	draftService := service.NewDraftService(draftRepo, cfg.DraftDebounce)
	proposalService := service.NewProposalService(proposalRepo, draftService, cache, hub)
	dashboardService := service.NewDashboardService(proposalRepo, cache, cfg.DashboardCacheTTL)
	generatorClient := generator.NewClient(cfg.WebhookURL, cfg.WebhookTimeout)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(authService)
	draftHandler := httpHandlers.NewDraftHandler(draftService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService)
	generateHandler := httpHandlers.NewGenerateHandler(generatorClient, authService, hub)
	documentHandler := httpHandlers.NewDocumentHandler()
	exportHandler := httpHandlers.NewExportHandler()
	dashboardHandler := httpHandlers.NewDashboardHandler(dashboardService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		draftHandler,
		proposalHandler,
		generateHandler,
		documentHandler,
		exportHandler,
		dashboardHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
		// Отложенные черновики доезжают до базы перед выходом
		draftService.Flush()
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		log.Printf("main: ошибка закрытия соединения с базой: %v", err)
	}
}
