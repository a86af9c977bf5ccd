package handlers

import (
	"context"
	"net/http"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/store"
)

// ListRecipes returns the user's recipes with their ingredient lines.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	recipes, err := dataStore().ListRecipes(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, "recipes")
		return
	}
	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, projectRecipe(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ShowRecipe returns one of the user's recipes.
func ShowRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	recipe, err := dataStore().GetRecipe(r.Context(), userID, id)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

// CreateRecipe stores a recipe and its lines.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var form forms.RecipeForm
	if !decodeForm(w, r, &form) {
		return
	}
	input, err := recipeInput(r.Context(), form)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	recipe, err := dataStore().CreateRecipe(r.Context(), userID, input)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	applog.Info(r.Context(), "recipe created", "id", recipe.ID, "lines", len(recipe.Ingredients))
	writeJSON(w, http.StatusCreated, projectRecipe(*recipe))
}

// UpdateRecipe converges a recipe's lines to the submitted ones.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form forms.RecipeForm
	if !decodeForm(w, r, &form) {
		return
	}
	input, err := recipeInput(r.Context(), form)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	recipe, err := dataStore().UpdateRecipe(r.Context(), userID, id, input)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

// DeleteRecipe removes a recipe and detaches it from menus.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := dataStore().DeleteRecipe(r.Context(), userID, id); err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}
	applog.Info(r.Context(), "recipe deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// recipeInput checks portion amounts against the referenced ingredients'
// units and converts the form into store input.
func recipeInput(ctx context.Context, form forms.RecipeForm) (store.RecipeInput, error) {
	ingredients, err := dataStore().IngredientsByID(ctx, form.IngredientIDs())
	if err != nil {
		return store.RecipeInput{}, err
	}
	units := make(map[uint]string, len(ingredients))
	for id, ingredient := range ingredients {
		units[id] = ingredient.Unit
	}
	if err := forms.CheckPortions(form, units); err != nil {
		return store.RecipeInput{}, err
	}
	return store.RecipeInput{
		Name:        form.Name,
		Description: form.Description,
		Lines:       form.Lines(),
	}, nil
}
