package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/api/responses"
	"github.com/kinderkitchen/kinderkitchen-backend/api/validators"
	mealsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

type recipeRowRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type createMealRequest struct {
	Name        string             `json:"name" validate:"required,max=120"`
	Description string             `json:"description,omitempty" validate:"omitempty,max=500"`
	ServingSize *decimal.Decimal   `json:"serving_size,omitempty"`
	Ingredients []recipeRowRequest `json:"ingredients" validate:"dive"`
}

type updateMealRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=500"`
	ServingSize *decimal.Decimal    `json:"serving_size,omitempty"`
	Ingredients *[]recipeRowRequest `json:"ingredients,omitempty" validate:"omitempty,dive"`
}

func parseRecipeRows(rows []recipeRowRequest) ([]mealsvc.RequirementInput, error) {
	reqs := make([]mealsvc.RequirementInput, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(strings.TrimSpace(row.IngredientID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id")
		}
		reqs = append(reqs, mealsvc.RequirementInput{
			IngredientID: id,
			Quantity:     row.Quantity,
		})
	}
	return reqs, nil
}

func MealCreate(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal service unavailable"))
			return
		}

		var payload createMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reqs, err := parseRecipeRows(payload.Ingredients)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := mealsvc.CreateInput{
			Name:        validators.SanitizeString(payload.Name, 120),
			Description: validators.SanitizeString(payload.Description, 500),
			Ingredients: reqs,
		}
		if payload.ServingSize != nil {
			input.ServingSize = *payload.ServingSize
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mealsvc.NewMealResponse(*created))
	}
}

func MealUpdate(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "mealId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal id"))
			return
		}

		var payload updateMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := mealsvc.UpdateInput{
			ServingSize: payload.ServingSize,
		}
		if payload.Name != nil {
			name := validators.SanitizeString(*payload.Name, 120)
			input.Name = &name
		}
		if payload.Description != nil {
			desc := validators.SanitizeString(*payload.Description, 500)
			input.Description = &desc
		}
		if payload.Ingredients != nil {
			reqs, err := parseRecipeRows(*payload.Ingredients)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Ingredients = &reqs
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mealsvc.NewMealResponse(*updated))
	}
}

func MealDelete(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "mealId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func MealDetail(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "mealId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal id"))
			return
		}

		meal, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mealsvc.NewMealResponse(*meal))
	}
}

func MealList(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		items, cursor, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mealsvc.ListResult{
			Items:  mealsvc.NewMealResponses(items),
			Cursor: cursor,
		})
	}
}
