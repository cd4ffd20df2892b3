package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/pagination"
)

// Service exposes ingredient stock management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	List(ctx context.Context, params pagination.Params) ([]models.Ingredient, string, error)
	ListBelowMinimum(ctx context.Context) ([]models.Ingredient, error)
}

// CreateInput holds the validated payload to create an ingredient.
type CreateInput struct {
	Name            string
	Quantity        decimal.Decimal
	Unit            enums.IngredientUnit
	MinimumQuantity decimal.Decimal
	DeliveryDate    *time.Time
}

// UpdateInput holds optional mutation values for an ingredient.
type UpdateInput struct {
	Name            *string
	Quantity        *decimal.Decimal
	Unit            *enums.IngredientUnit
	MinimumQuantity *decimal.Decimal
	DeliveryDate    *time.Time
}

type service struct {
	repo *Repository
}

// NewService constructs an ingredient service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Ingredient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid unit %q", input.Unit))
	}
	if input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.MinimumQuantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity cannot be negative")
	}

	ingredient := &models.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		MinimumQuantity: input.MinimumQuantity,
		DeliveryDate:    input.DeliveryDate,
	}
	created, err := s.repo.Create(ctx, ingredient)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("ingredient %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ingredient")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ingredient, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}

	ingredient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
		}
		ingredient.Name = name
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid unit %q", *input.Unit))
		}
		ingredient.Unit = *input.Unit
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		ingredient.Quantity = *input.Quantity
	}
	if input.MinimumQuantity != nil {
		if input.MinimumQuantity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity cannot be negative")
		}
		ingredient.MinimumQuantity = *input.MinimumQuantity
	}
	if input.DeliveryDate != nil {
		ingredient.DeliveryDate = input.DeliveryDate
	}

	updated, err := s.repo.Update(ctx, ingredient)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("ingredient %q already exists", ingredient.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ingredient")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ingredient")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}
	ingredient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return ingredient, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Ingredient, string, error) {
	return s.repo.List(ctx, params)
}

func (s *service) ListBelowMinimum(ctx context.Context) ([]models.Ingredient, error) {
	return s.repo.ListBelowMinimum(ctx)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
}
