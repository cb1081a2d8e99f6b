package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"habithero-service/internal/config"
	domainservice "habithero-service/internal/domain/service"
	"habithero-service/internal/infrastructure/anthropic"
	"habithero-service/internal/infrastructure/auth"
	cronpkg "habithero-service/internal/infrastructure/cron"
	infradb "habithero-service/internal/infrastructure/db"
	infrakafka "habithero-service/internal/infrastructure/kafka"
	"habithero-service/internal/infrastructure/postgres"
	infraredis "habithero-service/internal/infrastructure/redis"
	"habithero-service/internal/infrastructure/smtp"
	"habithero-service/internal/service"
	transporthttp "habithero-service/internal/transport/http"
	"habithero-service/pkg/jwt"
	"habithero-service/pkg/logging"
)

// App represents the application
type App struct {
	config     *config.Config
	httpServer *transporthttp.Server
	dailyJobs  *cronpkg.DailyJobs
	dbPool     *pgxpool.Pool
	producer   *infrakafka.Producer
}

// New creates a new application
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&cfg.Logging)
	slog.Info("configuration loaded", "environment", cfg.Service.Environment)

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	dbPool, err := infradb.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	slog.Info("connected to PostgreSQL")

	habitRepo := postgres.NewHabitRepository(dbPool)
	entryRepo := postgres.NewHabitEntryRepository(dbPool)

	identity, err := auth.NewSessionIdentity(cfg.Auth.SessionUserID)
	if err != nil {
		return nil, err
	}

	var events domainservice.EventPublisher
	var producer *infrakafka.Producer
	if cfg.Kafka.Enabled {
		producer = infrakafka.NewProducer(&cfg.Kafka)
		events = producer
		slog.Info("kafka producer initialized", "topic", cfg.Kafka.Topic)
	}

	var quoteCache domainservice.QuoteCache
	if cfg.Redis.Enabled {
		redisClient, err := infraredis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		quoteCache = infraredis.NewQuoteCache(redisClient)
		slog.Info("connected to Redis")
	}

	var notifier domainservice.RecapNotifier
	if cfg.SMTP.Enabled {
		notifier, err = smtp.NewClient(&cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP client: %w", err)
		}
		slog.Info("smtp notifier initialized")
	}

	generator := anthropic.NewClient(&cfg.Anthropic)

	habitService := service.NewHabitService(habitRepo, entryRepo, events, loc)
	resetService := service.NewResetService(habitRepo, identity)
	insightsService := service.NewInsightsService(habitRepo, entryRepo, generator, loc)
	quoteService := service.NewQuoteService(generator, quoteCache, loc)
	recapService := service.NewRecapService(habitRepo, identity, notifier)
	slog.Info("services initialized")

	var dailyJobs *cronpkg.DailyJobs
	if cfg.Scheduler.Enabled {
		dailyJobs = cronpkg.NewDailyJobs(resetService, recapService, &cfg.Scheduler, loc)
		slog.Info("daily scheduler initialized", "timezone", loc.String())
	} else {
		slog.Info("daily scheduler is disabled in configuration")
	}

	tokenManager := jwt.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	handler := transporthttp.NewHandler(habitService, insightsService, quoteService, resetService, recapService)
	httpServer := transporthttp.NewServer(handler, tokenManager, &cfg.HTTP, &cfg.Auth)

	return &App{
		config:     cfg,
		httpServer: httpServer,
		dailyJobs:  dailyJobs,
		dbPool:     dbPool,
		producer:   producer,
	}, nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if a.dailyJobs != nil {
		if err := a.dailyJobs.Start(); err != nil {
			return fmt.Errorf("failed to start daily scheduler: %w", err)
		}
	}

	go func() {
		if err := a.httpServer.Start(); err != nil {
			slog.Error("http server error", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	slog.Info("service started", "name", a.config.Service.Name, "port", a.config.HTTP.Port)

	<-quit
	slog.Info("shutting down")

	a.httpServer.Stop()

	if a.dailyJobs != nil {
		a.dailyJobs.Stop()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			slog.Error("failed to close kafka producer", "error", err)
		}
	}

	a.dbPool.Close()

	slog.Info("shutdown complete")
	return nil
}
