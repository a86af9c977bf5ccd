package handlers

import (
	"time"

	"larder/internal/planner"
	"larder/internal/store"
	"larder/models"
)

type ingredientResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type recipeLineResponse struct {
	ID           uint    `json:"id"`
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Amount       float64 `json:"amount"`
	Display      string  `json:"display"`
}

type recipeResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Ingredients []recipeLineResponse `json:"ingredients"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type menuRecipeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type menuResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Recipes     []menuRecipeResponse `json:"recipes"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type purchaseLineResponse struct {
	ID           uint    `json:"id"`
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Bought       bool    `json:"bought"`
	Value        float64 `json:"value"`
	Display      string  `json:"display"`
}

type shopResponse struct {
	ID        uint                   `json:"id"`
	Version   int                    `json:"version"`
	Menus     []menuRecipeResponse   `json:"menus"`
	Purchases []purchaseLineResponse `json:"purchases"`
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{ID: ingredient.ID, Name: ingredient.Name, Unit: ingredient.Unit}
}

func projectIngredients(ingredients []models.Ingredient) []ingredientResponse {
	responses := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, projectIngredient(ingredient))
	}
	return responses
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	lines := make([]recipeLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		entry := recipeLineResponse{ID: line.ID, IngredientID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			entry.Name = line.Ingredient.Name
			entry.Unit = line.Ingredient.Unit
		}
		entry.Display = planner.FormatValue(line.Amount, entry.Unit)
		lines = append(lines, entry)
	}
	return recipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Ingredients: lines,
		UpdatedAt:   recipe.UpdatedAt,
	}
}

func projectMenu(menu models.Menu) menuResponse {
	recipes := make([]menuRecipeResponse, 0, len(menu.Recipes))
	for _, recipe := range menu.Recipes {
		recipes = append(recipes, menuRecipeResponse{ID: recipe.ID, Name: recipe.Name})
	}
	return menuResponse{
		ID:          menu.ID,
		Name:        menu.Name,
		Description: menu.Description,
		Recipes:     recipes,
		UpdatedAt:   menu.UpdatedAt,
	}
}

func projectPurchaseLines(lines []planner.PurchaseLine) []purchaseLineResponse {
	responses := make([]purchaseLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, purchaseLineResponse{
			ID:           line.ID,
			IngredientID: line.Ingredient.ID,
			Name:         line.Ingredient.Name,
			Unit:         line.Ingredient.Unit,
			Bought:       line.Bought,
			Value:        line.Value,
			Display:      planner.FormatValue(line.Value, line.Ingredient.Unit),
		})
	}
	return responses
}

func projectShop(summary store.ShopSummary) shopResponse {
	menus := make([]menuRecipeResponse, 0, len(summary.Shop.Menus))
	for _, menu := range summary.Shop.Menus {
		menus = append(menus, menuRecipeResponse{ID: menu.ID, Name: menu.Name})
	}
	return shopResponse{
		ID:        summary.Shop.ID,
		Version:   summary.Shop.Version,
		Menus:     menus,
		Purchases: projectPurchaseLines(summary.Lines),
	}
}
