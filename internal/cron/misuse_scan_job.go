package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
)

// MisuseScanJobParams configure the monthly misuse scan.
type MisuseScanJobParams struct {
	Logger  *logger.Logger
	Reports monthlyReporter
	Alerts  uniqueAlertRaiser
}

type monthlyReporter interface {
	Monthly(ctx context.Context, now time.Time) (*reports.Report, error)
}

type uniqueAlertRaiser interface {
	RaiseUnique(ctx context.Context, kind enums.AlertKind, message string) (*models.Alert, error)
}

// NewMisuseScanJob builds the job that flags months where served portions lag
// far behind what stock allowed.
func NewMisuseScanJob(params MisuseScanJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reports == nil {
		return nil, fmt.Errorf("report service required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert raiser required")
	}
	return &misuseScanJob{
		logg:    params.Logger,
		reports: params.Reports,
		alerts:  params.Alerts,
		now:     time.Now,
	}, nil
}

type misuseScanJob struct {
	logg    *logger.Logger
	reports monthlyReporter
	alerts  uniqueAlertRaiser
	now     func() time.Time
}

func (j *misuseScanJob) Name() string { return "misuse-scan" }

func (j *misuseScanJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	report, err := j.reports.Monthly(ctx, now)
	if err != nil {
		return fmt.Errorf("build monthly report: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month":              report.Month,
		"year":               report.Year,
		"served":             report.TotalPortionsServed,
		"possible":           report.TotalPossiblePortions,
		"percent_difference": report.PercentDifference,
	})

	if !report.IsMisuse {
		j.logg.Info(logCtx, "misuse scan complete; usage within threshold")
		return nil
	}

	message := alerts.MisuseMessage(report.Month, report.Year, report.PercentDifference)
	alert, err := j.alerts.RaiseUnique(ctx, enums.AlertKindMisuse, message)
	if err != nil {
		return fmt.Errorf("raise misuse alert: %w", err)
	}
	if alert == nil {
		j.logg.Info(logCtx, "misuse scan complete; alert already open")
		return nil
	}
	j.logg.Warn(logCtx, "misuse detected; alert raised")
	return nil
}
