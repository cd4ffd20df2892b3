package controllers

import (
	"net/http"
	"time"

	"github.com/kinderkitchen/kinderkitchen-backend/api/responses"
	reportsvc "github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
)

// MonthlyReport builds the consumption report for the current month.
func MonthlyReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		report, err := svc.Monthly(r.Context(), time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
