package serving

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/alerts"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/ingredients"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/meals"
	"github.com/kinderkitchen/kinderkitchen-backend/internal/portions"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/metrics"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service executes serving attempts against current stock.
type Service interface {
	Serve(ctx context.Context, input ServeInput) (*ServeResult, error)
	List(ctx context.Context, params pagination.Params) ([]models.ServingRecord, string, error)
}

// ServeInput is one request to serve portions of a meal. The record timestamp
// is always the service clock; callers cannot backdate servings.
type ServeInput struct {
	MealID   uuid.UUID
	Portions int
	UserID   uuid.UUID
}

// ServeResult reports the outcome of a serving attempt. A feasibility
// rejection is a result, not an error: the attempt was processed, stock was
// simply not enough.
type ServeResult struct {
	Success          bool
	Message          string
	PossiblePortions int64
	Record           *models.ServingRecord
	Alerts           []models.Alert
}

type service struct {
	mu sync.Mutex

	tx          txRunner
	servingRepo *Repository
	mealRepo    *meals.Repository
	ingredRepo  *ingredients.Repository
	alertSvc    alerts.Service
	users       userLoader
	metrics     *metrics.ServingMetrics
	now         func() time.Time
}

// NewService builds the serving service. Metrics may be nil.
func NewService(
	tx txRunner,
	servingRepo *Repository,
	mealRepo *meals.Repository,
	ingredRepo *ingredients.Repository,
	alertSvc alerts.Service,
	users userLoader,
	servingMetrics *metrics.ServingMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if servingRepo == nil {
		return nil, fmt.Errorf("serving repository required")
	}
	if mealRepo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	if ingredRepo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if alertSvc == nil {
		return nil, fmt.Errorf("alert service required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{
		tx:          tx,
		servingRepo: servingRepo,
		mealRepo:    mealRepo,
		ingredRepo:  ingredRepo,
		alertSvc:    alertSvc,
		users:       users,
		metrics:     servingMetrics,
		now:         time.Now,
	}, nil
}

// Serve validates feasibility, deducts stock, and appends a serving record.
// Attempts are serialized so two concurrent serves can never both pass
// validation against the same stock.
func (s *service) Serve(ctx context.Context, input ServeInput) (*ServeResult, error) {
	if input.MealID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Portions <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "portions must be a positive whole number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meal, err := s.mealRepo.FindByID(ctx, input.MealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	reqs := portions.FromMeal(meal)
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.IngredientID)
	}
	stockRows, err := s.ingredRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	stock := portions.StockOf(stockRows)

	ok, _ := portions.HasEnough(reqs, stock, input.Portions)
	if !ok || len(reqs) == 0 {
		return s.reject(ctx, meal, input.Portions, portions.Possible(reqs, stock))
	}

	record := &models.ServingRecord{
		ID:       uuid.New(),
		MealID:   meal.ID,
		ServedAt: s.now().UTC(),
		Portions: input.Portions,
		UserID:   input.UserID,
	}

	deductions := portions.Deductions(reqs, stock, input.Portions)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ingredRepo.WithTx(tx).DeductQuantities(ctx, deductions); err != nil {
			return err
		}
		_, err := s.servingRepo.WithTx(tx).Create(ctx, record)
		return err
	})
	if err != nil {
		// The non-negative quantity constraint is the backstop when another
		// instance drains stock between our snapshot and the commit.
		if db.IsCheckViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInsufficientStock, err, "stock changed while serving")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit serving")
	}
	s.metrics.AddServed(meal.Name, input.Portions)

	raised, err := s.scanLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &ServeResult{
		Success:          true,
		Message:          fmt.Sprintf("Successfully served %d portions of %s", input.Portions, meal.Name),
		PossiblePortions: portions.Possible(reqs, stock) - int64(input.Portions),
		Record:           record,
		Alerts:           raised,
	}, nil
}

// reject records the refused attempt as an alert and reports what stock can cover.
func (s *service) reject(ctx context.Context, meal *models.Meal, requested int, possible int64) (*ServeResult, error) {
	message := alerts.InsufficientStockMessage(requested, meal.Name)
	alert, err := s.alertSvc.Raise(ctx, enums.AlertKindLowStock, message)
	if err != nil {
		return nil, err
	}
	s.metrics.IncRejected(meal.Name)

	return &ServeResult{
		Success:          false,
		Message:          message,
		PossiblePortions: possible,
		Alerts:           []models.Alert{*alert},
	}, nil
}

// scanLowStock re-reads the whole ledger after a deduction and raises alerts
// for every ingredient under its minimum, whether or not this serve touched it.
func (s *service) scanLowStock(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.ingredRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload stock")
	}
	raised, err := s.alertSvc.RaiseLowStock(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, alert := range raised {
		s.metrics.IncAlert(alert.Kind.String())
	}
	return raised, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.ServingRecord, string, error) {
	return s.servingRepo.List(ctx, params)
}
