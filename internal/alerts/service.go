package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Service exposes alert read and write operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, unreadOnly bool) ([]models.Alert, string, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
	RaiseLowStock(ctx context.Context, ingredients []models.Ingredient) ([]models.Alert, error)
	RaiseLowStockUnique(ctx context.Context, ingredients []models.Ingredient) ([]models.Alert, error)
	Raise(ctx context.Context, kind enums.AlertKind, message string) (*models.Alert, error)
	RaiseUnique(ctx context.Context, kind enums.AlertKind, message string) (*models.Alert, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an alert service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, unreadOnly bool) ([]models.Alert, string, error) {
	return s.repo.List(ctx, params, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "alert id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load alert")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark alert read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark alerts read")
	}
	return nil
}

// RaiseLowStock creates a low-stock alert for every ingredient under its
// minimum. Repeated alerts for the same ingredient are intentional: each
// deduction that leaves stock low produces its own alert.
func (s *service) RaiseLowStock(ctx context.Context, ingredients []models.Ingredient) ([]models.Alert, error) {
	raised := LowStock(ingredients)
	if len(raised) == 0 {
		return nil, nil
	}
	if err := s.repo.CreateMany(ctx, raised); err != nil {
		return raised, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert low stock alerts")
	}
	return raised, nil
}

// RaiseLowStockUnique behaves like RaiseLowStock but skips ingredients that
// already have an identical unread alert. Interval sweeps use it so a stale
// shortage does not produce a new alert on every tick.
func (s *service) RaiseLowStockUnique(ctx context.Context, ingredients []models.Ingredient) ([]models.Alert, error) {
	var raised []models.Alert
	for _, candidate := range LowStock(ingredients) {
		exists, err := s.repo.HasUnreadWithMessage(ctx, candidate.Message)
		if err != nil {
			return raised, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing alert")
		}
		if exists {
			continue
		}
		raised = append(raised, candidate)
	}
	if len(raised) == 0 {
		return nil, nil
	}
	if err := s.repo.CreateMany(ctx, raised); err != nil {
		return raised, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert low stock alerts")
	}
	return raised, nil
}

// Raise creates a single alert of the given kind.
func (s *service) Raise(ctx context.Context, kind enums.AlertKind, message string) (*models.Alert, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid alert kind %q", kind))
	}
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert message required")
	}
	alert := &models.Alert{
		ID:      uuid.New(),
		Kind:    kind,
		Message: message,
	}
	created, err := s.repo.Create(ctx, alert)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert alert")
	}
	return created, nil
}

// RaiseUnique creates the alert unless an identical unread one already exists.
// Returns nil without error when the alert was suppressed.
func (s *service) RaiseUnique(ctx context.Context, kind enums.AlertKind, message string) (*models.Alert, error) {
	exists, err := s.repo.HasUnreadWithMessage(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing alert")
	}
	if exists {
		return nil, nil
	}
	return s.Raise(ctx, kind, message)
}
