// Package planner computes shopping totals and relation diffs for menus, recipes and shops.
package planner

import (
	"slices"

	"larder/models"
)

// PurchaseLine is a purchase entry together with the total amount its
// ingredient requires across the shop's menus.
type PurchaseLine struct {
	ID         uint
	Ingredient models.Ingredient
	Bought     bool
	Value      float64
}

type ingredientAmount struct {
	ingredientID uint
	amount       float64
}

// ComputeShopTotals returns one line per purchase, in purchase order, whose
// Value is the sum of every recipe line for that ingredient reachable from
// menus. Ingredients that are no longer reachable total zero.
func ComputeShopTotals(purchases []models.Purchase, menus []models.Menu) []PurchaseLine {
	totals := make(map[uint]float64)
	for _, pair := range flatten(menus) {
		totals[pair.ingredientID] += pair.amount
	}

	lines := make([]PurchaseLine, 0, len(purchases))
	for _, purchase := range purchases {
		ingredient := models.Ingredient{}
		if purchase.Ingredient != nil {
			ingredient = *purchase.Ingredient
		}
		if ingredient.ID == 0 {
			ingredient.ID = purchase.IngredientID
		}
		lines = append(lines, PurchaseLine{
			ID:         purchase.ID,
			Ingredient: ingredient,
			Bought:     purchase.Bought,
			Value:      totals[purchase.IngredientID],
		})
	}
	return lines
}

// ReachableIngredients returns the distinct ingredient IDs used by any recipe
// of any of the menus, in ascending order.
func ReachableIngredients(menus []models.Menu) []uint {
	return sortedKeys(reachable(menus))
}

func flatten(menus []models.Menu) []ingredientAmount {
	var pairs []ingredientAmount
	for _, menu := range menus {
		for _, recipe := range menu.Recipes {
			for _, line := range recipe.Ingredients {
				pairs = append(pairs, ingredientAmount{ingredientID: line.IngredientID, amount: line.Amount})
			}
		}
	}
	return pairs
}

func reachable(menus []models.Menu) map[uint]struct{} {
	set := make(map[uint]struct{})
	for _, pair := range flatten(menus) {
		set[pair.ingredientID] = struct{}{}
	}
	return set
}

func sortedKeys(set map[uint]struct{}) []uint {
	keys := make([]uint, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
