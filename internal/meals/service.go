package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/portions"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Service exposes meal and recipe management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*MealDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MealDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*MealDTO, error)
	List(ctx context.Context, params pagination.Params) ([]MealDTO, string, error)
}

// RequirementInput is one per-portion ingredient demand in a recipe payload.
type RequirementInput struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
}

// CreateInput holds the validated payload to create a meal.
type CreateInput struct {
	Name        string
	Description string
	ServingSize decimal.Decimal
	Ingredients []RequirementInput
}

// UpdateInput holds optional mutation values for a meal. A non-nil
// Ingredients slice replaces the whole recipe.
type UpdateInput struct {
	Name        *string
	Description *string
	ServingSize *decimal.Decimal
	Ingredients *[]RequirementInput
}

// MealDTO is a meal with the portions currently possible from stock.
type MealDTO struct {
	Meal             models.Meal
	PossiblePortions int64
}

type ingredientLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error)
	ListAll(ctx context.Context) ([]models.Ingredient, error)
}

type service struct {
	repo        *Repository
	ingredients ingredientLoader
}

// NewService constructs a meal service instance.
func NewService(repo *Repository, ingredients ingredientLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient loader required")
	}
	return &service{repo: repo, ingredients: ingredients}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*MealDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal name required")
	}
	servingSize := input.ServingSize
	if servingSize.IsZero() {
		servingSize = decimal.NewFromInt(1)
	}
	if servingSize.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serving size must be positive")
	}
	recipe, err := s.buildRecipe(ctx, input.Ingredients)
	if err != nil {
		return nil, err
	}

	meal := &models.Meal{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ServingSize: servingSize,
		Ingredients: recipe,
	}
	for i := range meal.Ingredients {
		meal.Ingredients[i].MealID = meal.ID
	}

	created, err := s.repo.Create(ctx, meal)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert meal")
	}
	return s.toDTO(ctx, created)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MealDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal id required")
	}
	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal name required")
		}
		meal.Name = name
	}
	if input.Description != nil {
		meal.Description = strings.TrimSpace(*input.Description)
	}
	if input.ServingSize != nil {
		if !input.ServingSize.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "serving size must be positive")
		}
		meal.ServingSize = *input.ServingSize
	}
	if input.Ingredients != nil {
		recipe, err := s.buildRecipe(ctx, *input.Ingredients)
		if err != nil {
			return nil, err
		}
		for i := range recipe {
			recipe[i].MealID = meal.ID
		}
		meal.Ingredients = recipe
	}

	updated, err := s.repo.Update(ctx, meal)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update meal")
	}
	return s.toDTO(ctx, updated)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "meal id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete meal")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal id required")
	}
	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s.toDTO(ctx, meal)
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]MealDTO, string, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", err
	}
	stock, err := s.currentStock(ctx)
	if err != nil {
		return nil, "", err
	}
	out := make([]MealDTO, 0, len(rows))
	for _, meal := range rows {
		out = append(out, MealDTO{
			Meal:             meal,
			PossiblePortions: portions.Possible(portions.FromMeal(&meal), stock),
		})
	}
	return out, nextCursor, nil
}

// buildRecipe validates recipe rows and checks every referenced ingredient exists.
func (s *service) buildRecipe(ctx context.Context, inputs []RequirementInput) ([]models.MealIngredient, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if in.IngredientID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required in recipe")
		}
		if !in.Quantity.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("per-portion quantity must be positive for ingredient %s", in.IngredientID))
		}
		if seen[in.IngredientID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate ingredient %s in recipe", in.IngredientID))
		}
		seen[in.IngredientID] = true
		ids = append(ids, in.IngredientID)
	}

	found, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe ingredients")
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, ing := range found {
		known[ing.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("ingredient %s does not exist", id))
		}
	}

	recipe := make([]models.MealIngredient, 0, len(inputs))
	for _, in := range inputs {
		recipe = append(recipe, models.MealIngredient{
			ID:           uuid.New(),
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
		})
	}
	return recipe, nil
}

func (s *service) currentStock(ctx context.Context) (portions.Stock, error) {
	rows, err := s.ingredients.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	return portions.StockOf(rows), nil
}

func (s *service) toDTO(ctx context.Context, meal *models.Meal) (*MealDTO, error) {
	stock, err := s.currentStock(ctx)
	if err != nil {
		return nil, err
	}
	return &MealDTO{
		Meal:             *meal,
		PossiblePortions: portions.Possible(portions.FromMeal(meal), stock),
	}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Meal not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
}
