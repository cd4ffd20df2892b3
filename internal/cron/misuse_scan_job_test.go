package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/reports"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/logger"
)

type fakeReporter struct {
	report *reports.Report
	err    error
}

func (f *fakeReporter) Monthly(context.Context, time.Time) (*reports.Report, error) {
	return f.report, f.err
}

type fakeUniqueRaiser struct {
	kind     enums.AlertKind
	message  string
	calls    int
	suppress bool
}

func (f *fakeUniqueRaiser) RaiseUnique(_ context.Context, kind enums.AlertKind, message string) (*models.Alert, error) {
	f.calls++
	f.kind = kind
	f.message = message
	if f.suppress {
		return nil, nil
	}
	return &models.Alert{ID: uuid.New(), Kind: kind, Message: message}, nil
}

func newMisuseScanJob(t *testing.T, reporter *fakeReporter, raiser *fakeUniqueRaiser) Job {
	t.Helper()
	job, err := NewMisuseScanJob(MisuseScanJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Reports: reporter,
		Alerts:  raiser,
	})
	if err != nil {
		t.Fatalf("NewMisuseScanJob: %v", err)
	}
	return job
}

func TestMisuseScanJobRaisesAlertOverThreshold(t *testing.T) {
	reporter := &fakeReporter{report: &reports.Report{
		Month:                 "August",
		Year:                  2026,
		TotalPortionsServed:   40,
		TotalPossiblePortions: 100,
		PercentDifference:     60,
		IsMisuse:              true,
	}}
	raiser := &fakeUniqueRaiser{}

	if err := newMisuseScanJob(t, reporter, raiser).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if raiser.calls != 1 {
		t.Fatalf("expected one alert, got %d", raiser.calls)
	}
	if raiser.kind != enums.AlertKindMisuse {
		t.Fatalf("unexpected kind: %s", raiser.kind)
	}
	if raiser.message != "Possible misuse in August 2026: 60.0% of possible portions were not served" {
		t.Fatalf("unexpected message: %q", raiser.message)
	}
}

func TestMisuseScanJobSkipsBelowThreshold(t *testing.T) {
	reporter := &fakeReporter{report: &reports.Report{PercentDifference: 10, IsMisuse: false}}
	raiser := &fakeUniqueRaiser{}

	if err := newMisuseScanJob(t, reporter, raiser).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if raiser.calls != 0 {
		t.Fatalf("expected no alerts, got %d", raiser.calls)
	}
}

func TestMisuseScanJobPropagatesErrors(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("boom")}
	if err := newMisuseScanJob(t, reporter, &fakeUniqueRaiser{}).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
