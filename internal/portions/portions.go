package portions

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// Requirement is the demand one ingredient places on stock for a single portion.
type Requirement struct {
	IngredientID uuid.UUID
	PerPortion   decimal.Decimal
}

// Stock maps ingredient ids to on-hand quantities.
type Stock map[uuid.UUID]decimal.Decimal

// Shortage describes an ingredient that cannot cover the requested portions.
type Shortage struct {
	IngredientID uuid.UUID
	Required     decimal.Decimal
	OnHand       decimal.Decimal
}

// FromMeal flattens a meal's recipe into per-portion requirements.
func FromMeal(meal *models.Meal) []Requirement {
	if meal == nil {
		return nil
	}
	reqs := make([]Requirement, 0, len(meal.Ingredients))
	for _, mi := range meal.Ingredients {
		reqs = append(reqs, Requirement{
			IngredientID: mi.IngredientID,
			PerPortion:   mi.Quantity,
		})
	}
	return reqs
}

// StockOf indexes ingredient rows by id for lookup during calculation.
func StockOf(ingredients []models.Ingredient) Stock {
	stock := make(Stock, len(ingredients))
	for _, ing := range ingredients {
		stock[ing.ID] = ing.Quantity
	}
	return stock
}

// Possible returns the number of whole portions the stock supports: the minimum
// over all requirements of floor(onHand / perPortion). A requirement whose
// ingredient is absent from stock yields zero, and a meal with no requirements
// cannot be portioned at all.
func Possible(reqs []Requirement, stock Stock) int64 {
	if len(reqs) == 0 {
		return 0
	}
	limit := int64(math.MaxInt64)
	for _, req := range reqs {
		if !req.PerPortion.IsPositive() {
			continue
		}
		onHand, ok := stock[req.IngredientID]
		if !ok || !onHand.IsPositive() {
			return 0
		}
		portions := onHand.Div(req.PerPortion).Floor().IntPart()
		if portions < limit {
			limit = portions
		}
	}
	if limit == math.MaxInt64 {
		return 0
	}
	return limit
}

// HasEnough reports whether stock covers the requested portions and lists every
// ingredient that falls short.
func HasEnough(reqs []Requirement, stock Stock, portions int) (bool, []Shortage) {
	if portions <= 0 {
		return false, nil
	}
	var shortages []Shortage
	count := decimal.NewFromInt(int64(portions))
	for _, req := range reqs {
		if !req.PerPortion.IsPositive() {
			continue
		}
		required := req.PerPortion.Mul(count)
		onHand := stock[req.IngredientID]
		if onHand.LessThan(required) {
			shortages = append(shortages, Shortage{
				IngredientID: req.IngredientID,
				Required:     required,
				OnHand:       onHand,
			})
		}
	}
	return len(shortages) == 0, shortages
}

// Deductions computes the per-ingredient amounts consumed by serving the
// requested portions. Requirements for unknown ingredients are skipped.
func Deductions(reqs []Requirement, stock Stock, portions int) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(reqs))
	if portions <= 0 {
		return out
	}
	count := decimal.NewFromInt(int64(portions))
	for _, req := range reqs {
		if !req.PerPortion.IsPositive() {
			continue
		}
		if _, ok := stock[req.IngredientID]; !ok {
			continue
		}
		out[req.IngredientID] = out[req.IngredientID].Add(req.PerPortion.Mul(count))
	}
	return out
}
