package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
)

type fakeLowStockLister struct {
	rows []models.Ingredient
	err  error
}

func (f *fakeLowStockLister) ListBelowMinimum(context.Context) ([]models.Ingredient, error) {
	return f.rows, f.err
}

type fakeLowStockRaiser struct {
	got    []models.Ingredient
	raised []models.Alert
	err    error
}

func (f *fakeLowStockRaiser) RaiseLowStockUnique(_ context.Context, ingredients []models.Ingredient) ([]models.Alert, error) {
	f.got = ingredients
	return f.raised, f.err
}

func TestLowStockSweepJobRaisesAlerts(t *testing.T) {
	low := models.Ingredient{
		ID:              uuid.New(),
		Name:            "Flour",
		Quantity:        decimal.RequireFromString("10"),
		MinimumQuantity: decimal.RequireFromString("50"),
	}
	lister := &fakeLowStockLister{rows: []models.Ingredient{low}}
	raiser := &fakeLowStockRaiser{raised: []models.Alert{{ID: uuid.New()}}}

	job, err := NewLowStockSweepJob(LowStockSweepJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "cron-test"}),
		Ingredients: lister,
		Alerts:      raiser,
	})
	if err != nil {
		t.Fatalf("NewLowStockSweepJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(raiser.got) != 1 || raiser.got[0].Name != "Flour" {
		t.Fatalf("expected raiser to receive flour, got %+v", raiser.got)
	}
}

func TestLowStockSweepJobPropagatesErrors(t *testing.T) {
	job, err := NewLowStockSweepJob(LowStockSweepJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "cron-test"}),
		Ingredients: &fakeLowStockLister{err: errors.New("boom")},
		Alerts:      &fakeLowStockRaiser{},
	})
	if err != nil {
		t.Fatalf("NewLowStockSweepJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
