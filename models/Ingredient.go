package models

import (
	"strings"

	"gorm.io/gorm"
)

// Supported ingredient units.
const (
	UnitGram       = "g"
	UnitMilliliter = "ml"
	UnitCount      = "pcs"
	UnitPortion    = "portion"
)

var units = []string{UnitGram, UnitMilliliter, UnitCount, UnitPortion}

// Ingredient is an entry in the shared ingredient catalog.
type Ingredient struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Unit string `gorm:"type:varchar(16);not null" json:"unit"`
}

// Units returns the list of supported ingredient units.
func Units() []string {
	result := make([]string, len(units))
	copy(result, units)
	return result
}

// ValidUnit reports whether unit is one of the supported units.
func ValidUnit(unit string) bool {
	for _, candidate := range units {
		if candidate == unit {
			return true
		}
	}
	return false
}

// NormalizeUnit lowercases and trims unit, mapping a few common spellings.
func NormalizeUnit(unit string) string {
	normalized := strings.ToLower(strings.TrimSpace(unit))
	switch normalized {
	case "gram", "grams", "gr":
		return UnitGram
	case "milliliter", "milliliters", "millilitre", "millilitres":
		return UnitMilliliter
	case "pc", "piece", "pieces", "un", "q":
		return UnitCount
	case "p", "portions":
		return UnitPortion
	}
	return normalized
}
