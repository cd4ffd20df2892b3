package ingredients

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// IngredientDTO is the external representation of an inventory row.
type IngredientDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	BelowMinimum    bool            `json:"below_minimum"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ListResult wraps a page of ingredients and the cursor for the next page.
type ListResult struct {
	Items  []IngredientDTO `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

func NewIngredientDTO(m models.Ingredient) IngredientDTO {
	return IngredientDTO{
		ID:              m.ID,
		Name:            m.Name,
		Quantity:        m.Quantity,
		Unit:            m.Unit.String(),
		MinimumQuantity: m.MinimumQuantity,
		DeliveryDate:    m.DeliveryDate,
		BelowMinimum:    m.BelowMinimum(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func NewIngredientDTOs(items []models.Ingredient) []IngredientDTO {
	dtos := make([]IngredientDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, NewIngredientDTO(item))
	}
	return dtos
}
