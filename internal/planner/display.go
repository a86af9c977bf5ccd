package planner

import (
	"math"
	"strconv"

	"larder/models"
)

// Portion is one of the fractional amounts allowed for portion-unit ingredients.
type Portion struct {
	Label string
	Value float64
}

// UnknownPortion is shown for portion totals that match no known fraction.
const UnknownPortion = "?"

const portionTolerance = 1e-6

var portions = []Portion{
	{Label: "1/4", Value: 0.25},
	{Label: "1/3", Value: 0.33},
	{Label: "1/2", Value: 0.5},
	{Label: "2/3", Value: 0.66},
	{Label: "3/4", Value: 0.75},
}

// Portions returns the allowed portion sizes in ascending order.
func Portions() []Portion {
	result := make([]Portion, len(portions))
	copy(result, portions)
	return result
}

// PortionLabel returns the fraction label for value.
func PortionLabel(value float64) (string, bool) {
	for _, portion := range portions {
		if math.Abs(portion.Value-value) < portionTolerance {
			return portion.Label, true
		}
	}
	return "", false
}

// ValidPortion reports whether value is an allowed portion size.
func ValidPortion(value float64) bool {
	_, ok := PortionLabel(value)
	return ok
}

// FormatValue renders a total for display. Portion totals use their fraction
// label, everything else is "<value> <unit>".
func FormatValue(value float64, unit string) string {
	if unit == models.UnitPortion {
		if label, ok := PortionLabel(value); ok {
			return label
		}
		return UnknownPortion
	}
	rounded := math.Round(value*1000) / 1000
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + unit
}
