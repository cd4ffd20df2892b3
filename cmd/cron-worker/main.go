package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	alertsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/cron"
	ingredientsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	mealsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	reportsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	servingsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/config"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/metrics"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/migrate"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/redis"
)

const lockKeyFormat = "kk:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()

	ingredientRepo := ingredientsvc.NewRepository(conn)
	alertService, err := alertsvc.NewService(alertsvc.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}
	reportService, err := reportsvc.NewService(
		servingsvc.NewRepository(conn),
		mealsvc.NewRepository(conn),
		ingredientRepo,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()

	lowStockJob, err := cron.NewLowStockSweepJob(cron.LowStockSweepJobParams{
		Logger:      logg,
		Ingredients: ingredientRepo,
		Alerts:      alertService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock sweep job", err)
		os.Exit(1)
	}
	registry.Register(lowStockJob)

	misuseJob, err := cron.NewMisuseScanJob(cron.MisuseScanJobParams{
		Logger:  logg,
		Reports: reportService,
		Alerts:  alertService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create misuse scan job", err)
		os.Exit(1)
	}
	registry.Register(misuseJob)

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
