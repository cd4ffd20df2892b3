package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/api/responses"
	"github.com/kinderkitchen/kinderkitchen-backend/api/validators"
	ingredientsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

type createIngredientRequest struct {
	Name            string          `json:"name" validate:"required,max=120"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit" validate:"required,oneof=g kg ml l pcs"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
}

type updateIngredientRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Unit            *string          `json:"unit,omitempty" validate:"omitempty,oneof=g kg ml l pcs"`
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity,omitempty"`
	DeliveryDate    *time.Time       `json:"delivery_date,omitempty"`
}

func IngredientCreate(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		var payload createIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit, err := enums.ParseIngredientUnit(strings.TrimSpace(payload.Unit))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit"))
			return
		}

		created, err := svc.Create(r.Context(), ingredientsvc.CreateInput{
			Name:            validators.SanitizeString(payload.Name, 120),
			Quantity:        payload.Quantity,
			Unit:            unit,
			MinimumQuantity: payload.MinimumQuantity,
			DeliveryDate:    payload.DeliveryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ingredientsvc.NewIngredientDTO(*created))
	}
}

func IngredientUpdate(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ingredientId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}

		var payload updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ingredientsvc.UpdateInput{
			Quantity:        payload.Quantity,
			MinimumQuantity: payload.MinimumQuantity,
			DeliveryDate:    payload.DeliveryDate,
		}
		if payload.Name != nil {
			name := validators.SanitizeString(*payload.Name, 120)
			input.Name = &name
		}
		if payload.Unit != nil {
			unit, err := enums.ParseIngredientUnit(strings.TrimSpace(*payload.Unit))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit"))
				return
			}
			input.Unit = &unit
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredientsvc.NewIngredientDTO(*updated))
	}
}

func IngredientDelete(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ingredientId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func IngredientDetail(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ingredientId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}

		ingredient, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredientsvc.NewIngredientDTO(*ingredient))
	}
}

func IngredientList(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
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
		responses.WriteSuccess(w, ingredientsvc.ListResult{
			Items:  ingredientsvc.NewIngredientDTOs(items),
			Cursor: cursor,
		})
	}
}

// IngredientLowStock lists every ingredient strictly below its minimum.
func IngredientLowStock(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		items, err := svc.ListBelowMinimum(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredientsvc.NewIngredientDTOs(items))
	}
}
