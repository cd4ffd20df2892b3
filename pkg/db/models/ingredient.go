package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
)

// Ingredient is one inventory row. Quantity may fall below MinimumQuantity
// (that is the low-stock signal) but never below zero.
type Ingredient struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name            string               `gorm:"column:name;not null;uniqueIndex"`
	Quantity        decimal.Decimal      `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit            enums.IngredientUnit `gorm:"column:unit;not null"`
	MinimumQuantity decimal.Decimal      `gorm:"column:minimum_quantity;type:numeric(12,3);not null"`
	DeliveryDate    *time.Time           `gorm:"column:delivery_date"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// BelowMinimum reports whether the on-hand quantity is strictly below the
// configured minimum.
func (i Ingredient) BelowMinimum() bool {
	return i.Quantity.LessThan(i.MinimumQuantity)
}
