package meals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MealResponse is the external representation of a meal, including the
// portions currently possible from stock on hand.
type MealResponse struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	ServingSize      decimal.Decimal       `json:"serving_size"`
	Ingredients      []RequirementResponse `json:"ingredients"`
	PossiblePortions int64                 `json:"possible_portions"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// RequirementResponse is one per-portion ingredient demand in a recipe.
type RequirementResponse struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ListResult wraps a page of meals and the cursor for the next page.
type ListResult struct {
	Items  []MealResponse `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

func NewMealResponse(dto MealDTO) MealResponse {
	reqs := make([]RequirementResponse, 0, len(dto.Meal.Ingredients))
	for _, row := range dto.Meal.Ingredients {
		reqs = append(reqs, RequirementResponse{
			IngredientID: row.IngredientID,
			Quantity:     row.Quantity,
		})
	}
	return MealResponse{
		ID:               dto.Meal.ID,
		Name:             dto.Meal.Name,
		Description:      dto.Meal.Description,
		ServingSize:      dto.Meal.ServingSize,
		Ingredients:      reqs,
		PossiblePortions: dto.PossiblePortions,
		CreatedAt:        dto.Meal.CreatedAt,
		UpdatedAt:        dto.Meal.UpdatedAt,
	}
}

func NewMealResponses(dtos []MealDTO) []MealResponse {
	out := make([]MealResponse, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, NewMealResponse(dto))
	}
	return out
}
