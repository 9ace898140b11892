package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/vladimiradmaev/care-planner/internal/api"
	"github.com/vladimiradmaev/care-planner/internal/bot"
	"github.com/vladimiradmaev/care-planner/internal/bot/handlers"
	"github.com/vladimiradmaev/care-planner/internal/bot/state"
	"github.com/vladimiradmaev/care-planner/internal/config"
	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/repository"
	"github.com/vladimiradmaev/care-planner/internal/scheduler"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting Care Planner")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Error("Care Planner stopped with error", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
	logger.Info("Care Planner stopped")
	_ = logger.Close()
}

func run(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	readings := repository.NewReadingRepository(db, loc)
	medications := repository.NewMedicationRepository(db)
	users := repository.NewUserRepository(db)
	m := metrics.New()

	ai, err := newAIClient(ctx, cfg, m)
	if err != nil {
		return err
	}
	if closer, ok := ai.(io.Closer); ok {
		defer closer.Close()
	}

	userSvc := services.NewUserService(users)
	readingSvc := services.NewReadingService(readings, loc, m)
	trendSvc := services.NewTrendService(readings, medications, users)
	foodSvc := services.NewFoodAnalysisService(ai, readings, loc, m)
	medicationSvc := services.NewMedicationService(medications, readings, loc, m)
	logger.Info("Services initialized successfully")

	g, ctx := errgroup.WithContext(ctx)

	if cfg.HTTP.JWTSecret != "" {
		server := api.New(cfg.HTTP, api.Services{
			Readings:    readingSvc,
			Trends:      trendSvc,
			Food:        foodSvc,
			Medications: medicationSvc,
			Users:       userSvc,
		}, m)
		g.Go(server.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.TelegramToken != "" {
		stateManager, closeState, err := newStateManager(cfg)
		if err != nil {
			return err
		}
		defer closeState()

		telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{
			Users:       userSvc,
			Readings:    readingSvc,
			Trends:      trendSvc,
			Food:        foodSvc,
			Medications: medicationSvc,
		}, stateManager)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})

		digest, err := scheduler.NewRunner(scheduler.Config{
			Spec:     cfg.Scheduler.WeeklyDigestCron,
			Location: loc,
		}, users, trendSvc, telegramBot, m)
		if err != nil {
			return err
		}
		if err := digest.Start(); err != nil {
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			digest.Stop()
			return nil
		})
	}

	logger.Info("Care Planner is running. Press Ctrl+C to stop.")
	return g.Wait()
}

// newAIClient returns nil when no provider is configured
func newAIClient(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (domain.AIClient, error) {
	provider, err := services.NewAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		logger.Info("No AI provider configured, food analysis is rule based")
		return nil, nil
	}
	logger.Info("AI provider configured", "provider", provider.Name())
	return services.NewGuardedAIClient(provider, services.GuardConfig{
		MaxAttempts:       cfg.AI.MaxAttempts,
		BackoffBase:       cfg.AI.BackoffBase,
		Timeout:           cfg.AI.Timeout,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
	}, m), nil
}

func newStateManager(cfg *config.Config) (state.StateManager, func(), error) {
	addr := cfg.RedisAddr()
	if addr == "" {
		return state.NewManager(), func() {}, nil
	}
	manager, err := state.NewRedisManager(addr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Conversation state stored in Redis", "addr", addr)
	return manager, func() { _ = manager.Close() }, nil
}
