package portions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPossibleTakesTheLimitingIngredient(t *testing.T) {
	t.Parallel()

	flour := uuid.New()
	milk := uuid.New()
	eggs := uuid.New()

	reqs := []Requirement{
		{IngredientID: flour, PerPortion: dec("100")},
		{IngredientID: milk, PerPortion: dec("0.25")},
		{IngredientID: eggs, PerPortion: dec("2")},
	}
	stock := Stock{
		flour: dec("1000"), // 10 portions
		milk:  dec("1.5"),  // 6 portions
		eggs:  dec("13"),   // 6 portions (floor of 6.5)
	}

	if got := Possible(reqs, stock); got != 6 {
		t.Fatalf("expected 6 portions, got %d", got)
	}
}

func TestPossibleMissingIngredientYieldsZero(t *testing.T) {
	t.Parallel()

	present := uuid.New()
	missing := uuid.New()

	reqs := []Requirement{
		{IngredientID: present, PerPortion: dec("1")},
		{IngredientID: missing, PerPortion: dec("1")},
	}
	stock := Stock{present: dec("100")}

	if got := Possible(reqs, stock); got != 0 {
		t.Fatalf("expected 0 portions, got %d", got)
	}
}

func TestPossibleEmptyRecipeYieldsZero(t *testing.T) {
	t.Parallel()

	if got := Possible(nil, Stock{uuid.New(): dec("100")}); got != 0 {
		t.Fatalf("expected 0 portions for empty recipe, got %d", got)
	}
}

func TestPossibleNeverNegative(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	reqs := []Requirement{{IngredientID: id, PerPortion: dec("5")}}

	for _, qty := range []string{"0", "0.001", "4.999"} {
		if got := Possible(reqs, Stock{id: dec(qty)}); got != 0 {
			t.Fatalf("stock %s: expected 0 portions, got %d", qty, got)
		}
	}
}

func TestPossibleScalesLinearly(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	reqs := []Requirement{{IngredientID: id, PerPortion: dec("2.5")}}

	if got := Possible(reqs, Stock{id: dec("25")}); got != 10 {
		t.Fatalf("expected 10 portions, got %d", got)
	}
	if got := Possible(reqs, Stock{id: dec("50")}); got != 20 {
		t.Fatalf("expected 20 portions after doubling stock, got %d", got)
	}
}

func TestHasEnoughReportsShortages(t *testing.T) {
	t.Parallel()

	flour := uuid.New()
	milk := uuid.New()
	reqs := []Requirement{
		{IngredientID: flour, PerPortion: dec("100")},
		{IngredientID: milk, PerPortion: dec("0.2")},
	}
	stock := Stock{flour: dec("450"), milk: dec("10")}

	ok, shortages := HasEnough(reqs, stock, 4)
	if !ok || len(shortages) != 0 {
		t.Fatalf("expected 4 portions to fit, got shortages %+v", shortages)
	}

	ok, shortages = HasEnough(reqs, stock, 5)
	if ok {
		t.Fatal("expected 5 portions to exceed stock")
	}
	if len(shortages) != 1 || shortages[0].IngredientID != flour {
		t.Fatalf("expected flour shortage, got %+v", shortages)
	}
	if !shortages[0].Required.Equal(dec("500")) || !shortages[0].OnHand.Equal(dec("450")) {
		t.Fatalf("unexpected shortage amounts: %+v", shortages[0])
	}
}

func TestHasEnoughRejectsNonPositivePortions(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	reqs := []Requirement{{IngredientID: id, PerPortion: dec("1")}}

	for _, portions := range []int{0, -3} {
		if ok, _ := HasEnough(reqs, Stock{id: dec("100")}, portions); ok {
			t.Fatalf("expected portions=%d to be rejected", portions)
		}
	}
}

func TestDeductionsMatchRequirements(t *testing.T) {
	t.Parallel()

	flour := uuid.New()
	milk := uuid.New()
	missing := uuid.New()
	reqs := []Requirement{
		{IngredientID: flour, PerPortion: dec("100")},
		{IngredientID: milk, PerPortion: dec("0.25")},
		{IngredientID: missing, PerPortion: dec("1")},
	}
	stock := Stock{flour: dec("1000"), milk: dec("10")}

	out := Deductions(reqs, stock, 3)
	if len(out) != 2 {
		t.Fatalf("expected deductions for 2 ingredients, got %d", len(out))
	}
	if !out[flour].Equal(dec("300")) {
		t.Fatalf("unexpected flour deduction: %s", out[flour])
	}
	if !out[milk].Equal(dec("0.75")) {
		t.Fatalf("unexpected milk deduction: %s", out[milk])
	}
}

func TestDeductionsAreLinearInPortions(t *testing.T) {
	t.Parallel()

	flour := uuid.New()
	milk := uuid.New()
	reqs := []Requirement{
		{IngredientID: flour, PerPortion: dec("100")},
		{IngredientID: milk, PerPortion: dec("0.25")},
	}
	stock := Stock{flour: dec("1000"), milk: dec("10")}

	// Serving a+b portions consumes the same amounts as serving a then b.
	combined := Deductions(reqs, stock, 7)
	first := Deductions(reqs, stock, 3)
	second := Deductions(reqs, stock, 4)
	for _, id := range []uuid.UUID{flour, milk} {
		if !combined[id].Equal(first[id].Add(second[id])) {
			t.Fatalf("deductions not linear for %s: %s vs %s + %s",
				id, combined[id], first[id], second[id])
		}
	}
}

func TestFromMealAndStockOf(t *testing.T) {
	t.Parallel()

	ingID := uuid.New()
	meal := &models.Meal{
		ID:   uuid.New(),
		Name: "Pancakes",
		Ingredients: []models.MealIngredient{
			{IngredientID: ingID, Quantity: dec("100")},
		},
	}
	reqs := FromMeal(meal)
	if len(reqs) != 1 || reqs[0].IngredientID != ingID || !reqs[0].PerPortion.Equal(dec("100")) {
		t.Fatalf("unexpected requirements: %+v", reqs)
	}

	stock := StockOf([]models.Ingredient{{ID: ingID, Quantity: dec("250")}})
	if got := Possible(reqs, stock); got != 2 {
		t.Fatalf("expected 2 portions, got %d", got)
	}

	if got := FromMeal(nil); got != nil {
		t.Fatalf("expected nil requirements for nil meal, got %+v", got)
	}
}
