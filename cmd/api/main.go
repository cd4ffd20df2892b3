package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kinderkitchen/kinderkitchen-backend/api/routes"
	alertsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	ingredientsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	mealsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	reportsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	servingsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	usersvc "github.com/kinderkitchen/kinderkitchen-backend/internal/users"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/config"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/metrics"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/migrate"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	userService, err := usersvc.NewService(usersvc.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	ingredientRepo := ingredientsvc.NewRepository(conn)
	ingredientService, err := ingredientsvc.NewService(ingredientRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingredient service", err)
		os.Exit(1)
	}

	mealRepo := mealsvc.NewRepository(conn)
	mealService, err := mealsvc.NewService(mealRepo, ingredientRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create meal service", err)
		os.Exit(1)
	}

	alertService, err := alertsvc.NewService(alertsvc.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	servingRepo := servingsvc.NewRepository(conn)
	servingService, err := servingsvc.NewService(
		dbClient,
		servingRepo,
		mealRepo,
		ingredientRepo,
		alertService,
		usersvc.NewRepository(conn),
		metrics.NewServingMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create serving service", err)
		os.Exit(1)
	}

	reportService, err := reportsvc.NewService(servingRepo, mealRepo, ingredientRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			userService,
			ingredientService,
			mealService,
			servingService,
			alertService,
			reportService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
