package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Meal is a recipe: a named set of per-portion ingredient requirements.
type Meal struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;not null;default:''"`
	ServingSize decimal.Decimal  `gorm:"column:serving_size;type:numeric(12,3);not null;default:0"`
	Ingredients []MealIngredient `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// MealIngredient binds a meal to the quantity of one ingredient consumed per
// portion. The ingredient reference is deliberately not a foreign key: a
// deleted ingredient leaves the meal unservable, not invalid.
type MealIngredient struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	MealID       uuid.UUID       `gorm:"column:meal_id;type:uuid;not null;index"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
}
