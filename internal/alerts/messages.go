package alerts

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
)

// LowStock derives one unsaved alert per ingredient strictly below its
// minimum quantity.
func LowStock(ingredients []models.Ingredient) []models.Alert {
	var derived []models.Alert
	for _, ing := range ingredients {
		if !ing.BelowMinimum() {
			continue
		}
		derived = append(derived, models.Alert{
			ID:      uuid.New(),
			Kind:    enums.AlertKindLowStock,
			Message: LowStockMessage(ing.Name),
		})
	}
	return derived
}

// LowStockMessage is the alert text for an ingredient under its minimum.
func LowStockMessage(ingredientName string) string {
	return fmt.Sprintf("%s is below minimum quantity", ingredientName)
}

// InsufficientStockMessage is the alert text for a rejected serving attempt.
func InsufficientStockMessage(portions int, mealName string) string {
	return fmt.Sprintf("Not enough ingredients to serve %d portions of %s", portions, mealName)
}

// MisuseMessage is the alert text raised by the monthly usage report.
func MisuseMessage(month string, year int, percent float64) string {
	return fmt.Sprintf("Possible misuse in %s %d: %.1f%% of possible portions were not served", month, year, percent)
}
