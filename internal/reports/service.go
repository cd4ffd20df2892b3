package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
)

type servingLister interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.ServingRecord, error)
}

type mealLister interface {
	ListAll(ctx context.Context) ([]models.Meal, error)
}

type ingredientLister interface {
	ListAll(ctx context.Context) ([]models.Ingredient, error)
}

// Service assembles monthly usage reports.
type Service interface {
	Monthly(ctx context.Context, now time.Time) (*Report, error)
}

type service struct {
	servings    servingLister
	meals       mealLister
	ingredients ingredientLister
}

// NewService constructs a report service instance.
func NewService(servings servingLister, meals mealLister, ingredients ingredientLister) (Service, error) {
	if servings == nil {
		return nil, fmt.Errorf("serving lister required")
	}
	if meals == nil {
		return nil, fmt.Errorf("meal lister required")
	}
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient lister required")
	}
	return &service{servings: servings, meals: meals, ingredients: ingredients}, nil
}

func (s *service) Monthly(ctx context.Context, now time.Time) (*Report, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	servings, err := s.servings.ListBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load servings")
	}
	mealRows, err := s.meals.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meals")
	}
	stockRows, err := s.ingredients.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredients")
	}

	report := Build(now, servings, mealRows, stockRows)
	return &report, nil
}
