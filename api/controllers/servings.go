package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/api/middleware"
	"github.com/kinderkitchen/kinderkitchen-backend/api/responses"
	"github.com/kinderkitchen/kinderkitchen-backend/api/validators"
	servingsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/serving"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

type serveMealRequest struct {
	MealID   string `json:"meal_id" validate:"required,uuid"`
	Portions int    `json:"portions" validate:"required"`
}

// ServeMeal runs the serving transaction for the acting user. A feasibility
// rejection is reported as a structured result with success false, not as an
// error envelope; the HTTP status still signals the conflict.
func ServeMeal(svc servingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "serving service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var payload serveMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mealID, err := uuid.Parse(strings.TrimSpace(payload.MealID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal id"))
			return
		}

		input := servingsvc.ServeInput{
			MealID:   mealID,
			Portions: payload.Portions,
			UserID:   uid,
		}

		result, err := svc.Serve(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := servingsvc.NewServeResponse(*result)
		if !resp.Success {
			responses.WriteSuccessStatus(w, http.StatusConflict, resp)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func ServingList(svc servingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "serving service unavailable"))
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
		responses.WriteSuccess(w, servingsvc.ListResult{
			Items:  servingsvc.NewServingRecordDTOs(items),
			Cursor: cursor,
		})
	}
}
