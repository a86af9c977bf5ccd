package planner

import (
	"gorm.io/gorm"

	"larder/models"
)

func ingredient(id uint, name, unit string) *models.Ingredient {
	return &models.Ingredient{Model: gorm.Model{ID: id}, Name: name, Unit: unit}
}

func recipe(id uint, lines ...models.RecipeIngredient) models.Recipe {
	return models.Recipe{Model: gorm.Model{ID: id}, Ingredients: lines}
}

func line(id uint, ing *models.Ingredient, amount float64) models.RecipeIngredient {
	return models.RecipeIngredient{ID: id, IngredientID: ing.ID, Amount: amount, Ingredient: ing}
}

func menu(id uint, recipes ...models.Recipe) models.Menu {
	return models.Menu{Model: gorm.Model{ID: id}, Recipes: recipes}
}

func purchase(id uint, ing *models.Ingredient, bought bool) models.Purchase {
	return models.Purchase{ID: id, IngredientID: ing.ID, Bought: bought, Ingredient: ing}
}
