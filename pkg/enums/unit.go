package enums

import "fmt"

// IngredientUnit is the fixed unit-of-measure enumeration for inventory.
type IngredientUnit string

const (
	IngredientUnitGram       IngredientUnit = "g"
	IngredientUnitKilogram   IngredientUnit = "kg"
	IngredientUnitMilliliter IngredientUnit = "ml"
	IngredientUnitLiter      IngredientUnit = "l"
	IngredientUnitPiece      IngredientUnit = "pcs"
)

var validIngredientUnits = []IngredientUnit{
	IngredientUnitGram,
	IngredientUnitKilogram,
	IngredientUnitMilliliter,
	IngredientUnitLiter,
	IngredientUnitPiece,
}

// String implements fmt.Stringer.
func (u IngredientUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known IngredientUnit.
func (u IngredientUnit) IsValid() bool {
	for _, candidate := range validIngredientUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseIngredientUnit converts raw input into an IngredientUnit.
func ParseIngredientUnit(value string) (IngredientUnit, error) {
	for _, candidate := range validIngredientUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient unit %q", value)
}
