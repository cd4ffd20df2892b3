package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func recipe(ingredientID uuid.UUID, perPortion string) models.Meal {
	mealID := uuid.New()
	return models.Meal{
		ID:   mealID,
		Name: "Meal",
		Ingredients: []models.MealIngredient{
			{ID: uuid.New(), MealID: mealID, IngredientID: ingredientID, Quantity: dec(perPortion)},
		},
	}
}

func TestBuildFlagsMisuse(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	ing := models.Ingredient{ID: uuid.New(), Quantity: dec("100")}
	meal := recipe(ing.ID, "1") // 100 possible portions

	servings := []models.ServingRecord{
		{MealID: meal.ID, ServedAt: now.AddDate(0, 0, -1), Portions: 50},
	}

	report := Build(now, servings, []models.Meal{meal}, []models.Ingredient{ing})
	if report.Month != "August" || report.Year != 2026 {
		t.Fatalf("unexpected period: %s %d", report.Month, report.Year)
	}
	if report.TotalPortionsServed != 50 {
		t.Fatalf("expected 50 served, got %d", report.TotalPortionsServed)
	}
	if report.TotalPossiblePortions != 100 {
		t.Fatalf("expected 100 possible, got %d", report.TotalPossiblePortions)
	}
	if report.PercentDifference != 50 {
		t.Fatalf("expected 50%% difference, got %f", report.PercentDifference)
	}
	if !report.IsMisuse {
		t.Fatal("expected misuse flag")
	}
}

func TestBuildBelowThresholdIsNotMisuse(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	ing := models.Ingredient{ID: uuid.New(), Quantity: dec("100")}
	meal := recipe(ing.ID, "1")

	servings := []models.ServingRecord{
		{MealID: meal.ID, ServedAt: now, Portions: 90},
	}

	report := Build(now, servings, []models.Meal{meal}, []models.Ingredient{ing})
	if report.PercentDifference != 10 {
		t.Fatalf("expected 10%% difference, got %f", report.PercentDifference)
	}
	if report.IsMisuse {
		t.Fatal("expected no misuse flag at 10%")
	}
}

func TestBuildIgnoresOtherMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	ing := models.Ingredient{ID: uuid.New(), Quantity: dec("100")}
	meal := recipe(ing.ID, "1")

	servings := []models.ServingRecord{
		{MealID: meal.ID, ServedAt: now.AddDate(0, -1, 0), Portions: 40},
		{MealID: meal.ID, ServedAt: now.AddDate(-1, 0, 0), Portions: 40},
		{MealID: meal.ID, ServedAt: now, Portions: 5},
	}

	report := Build(now, servings, []models.Meal{meal}, []models.Ingredient{ing})
	if report.TotalPortionsServed != 5 {
		t.Fatalf("expected only current-month servings, got %d", report.TotalPortionsServed)
	}
}

func TestBuildZeroPossibleGuard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	report := Build(now, nil, nil, nil)
	if report.PercentDifference != 0 {
		t.Fatalf("expected 0%% difference with no meals, got %f", report.PercentDifference)
	}
	if report.IsMisuse {
		t.Fatal("expected no misuse flag with no possible portions")
	}
}

func TestMonthlyServiceLoadsWindow(t *testing.T) {
	t.Parallel()

	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Ingredient{},
		&models.Meal{},
		&models.MealIngredient{},
		&models.ServingRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ing := &models.Ingredient{ID: uuid.New(), Name: "Rice", Quantity: dec("20")}
	if err := conn.Create(ing).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	meal := recipe(ing.ID, "1")
	if err := conn.Create(&meal).Error; err != nil {
		t.Fatalf("seed meal: %v", err)
	}

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ServingRecord{
		{ID: uuid.New(), MealID: meal.ID, ServedAt: now.AddDate(0, 0, -2), Portions: 4, UserID: uuid.New()},
		{ID: uuid.New(), MealID: meal.ID, ServedAt: now.AddDate(0, -2, 0), Portions: 9, UserID: uuid.New()},
	}
	for i := range rows {
		if err := conn.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed serving: %v", err)
		}
	}

	svc, err := NewService(serving.NewRepository(conn), meals.NewRepository(conn), ingredients.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	report, err := svc.Monthly(context.Background(), now)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if report.TotalPortionsServed != 4 {
		t.Fatalf("expected 4 served in window, got %d", report.TotalPortionsServed)
	}
	if report.TotalPossiblePortions != 20 {
		t.Fatalf("expected 20 possible, got %d", report.TotalPossiblePortions)
	}
}
