package reports

import (
	"time"

	"github.com/kinderkitchen/kinderkitchen-backend/internal/portions"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
)

// MisuseThresholdPercent is the gap between possible and served portions above
// which a month is flagged.
const MisuseThresholdPercent = 15.0

// Report summarizes one calendar month of kitchen output.
type Report struct {
	Month                 string  `json:"month"`
	Year                  int     `json:"year"`
	TotalPortionsServed   int     `json:"total_portions_served"`
	TotalPossiblePortions int64   `json:"total_possible_portions"`
	PercentDifference     float64 `json:"percent_difference"`
	IsMisuse              bool    `json:"is_misuse"`
}

// Build computes the monthly report for the month containing now. Possible
// portions are taken against current stock, so the figure is a point-in-time
// estimate rather than a replay of the month's inventory.
func Build(now time.Time, servings []models.ServingRecord, mealList []models.Meal, stockRows []models.Ingredient) Report {
	month := now.Month()
	year := now.Year()

	served := 0
	for _, record := range servings {
		servedAt := record.ServedAt
		if servedAt.Month() == month && servedAt.Year() == year {
			served += record.Portions
		}
	}

	stock := portions.StockOf(stockRows)
	var possible int64
	for i := range mealList {
		possible += portions.Possible(portions.FromMeal(&mealList[i]), stock)
	}

	difference := 0.0
	if possible > 0 {
		difference = (float64(possible) - float64(served)) / float64(possible) * 100
	}

	return Report{
		Month:                 month.String(),
		Year:                  year,
		TotalPortionsServed:   served,
		TotalPossiblePortions: possible,
		PercentDifference:     difference,
		IsMisuse:              difference > MisuseThresholdPercent,
	}
}
