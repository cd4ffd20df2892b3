package cron

import (
	"context"
	"fmt"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
)

// LowStockSweepJobParams configure the low stock sweep.
type LowStockSweepJobParams struct {
	Logger      *logger.Logger
	Ingredients lowStockLister
	Alerts      lowStockRaiser
}

type lowStockLister interface {
	ListBelowMinimum(ctx context.Context) ([]models.Ingredient, error)
}

type lowStockRaiser interface {
	RaiseLowStockUnique(ctx context.Context, ingredients []models.Ingredient) ([]models.Alert, error)
}

// NewLowStockSweepJob builds the job that alerts on ingredients under their
// minimum. Serving already scans the ingredients it touches; the sweep catches
// stock that fell low through manual edits.
func NewLowStockSweepJob(params LowStockSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ingredients == nil {
		return nil, fmt.Errorf("ingredient lister required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert raiser required")
	}
	return &lowStockSweepJob{
		logg:        params.Logger,
		ingredients: params.Ingredients,
		alerts:      params.Alerts,
	}, nil
}

type lowStockSweepJob struct {
	logg        *logger.Logger
	ingredients lowStockLister
	alerts      lowStockRaiser
}

func (j *lowStockSweepJob) Name() string { return "low-stock-sweep" }

func (j *lowStockSweepJob) Run(ctx context.Context) error {
	low, err := j.ingredients.ListBelowMinimum(ctx)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}
	raised, err := j.alerts.RaiseLowStockUnique(ctx, low)
	if err != nil {
		return fmt.Errorf("raise low stock alerts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"ingredients_low": len(low),
		"alerts_raised":   len(raised),
	})
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
