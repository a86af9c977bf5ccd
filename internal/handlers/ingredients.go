package handlers

import (
	"net/http"

	"larder/internal/forms"
	applog "larder/internal/log"
)

// ListIngredients returns the shared ingredient catalog ordered by name.
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	ingredients, err := dataStore().ListIngredients(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "ingredients")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredients(ingredients))
}

// ShowIngredient returns a single catalog entry.
func ShowIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ingredient, err := dataStore().GetIngredient(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*ingredient))
}

// CreateIngredient adds an entry to the catalog.
func CreateIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	var form forms.IngredientForm
	if !decodeForm(w, r, &form) {
		return
	}
	ingredient, err := dataStore().CreateIngredient(r.Context(), form.Name, form.Unit)
	if err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	applog.Info(r.Context(), "ingredient created", "id", ingredient.ID, "name", ingredient.Name)
	writeJSON(w, http.StatusCreated, projectIngredient(*ingredient))
}

// UpdateIngredient renames a catalog entry or changes its unit.
func UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form forms.IngredientForm
	if !decodeForm(w, r, &form) {
		return
	}
	ingredient, err := dataStore().UpdateIngredient(r.Context(), id, form.Name, form.Unit)
	if err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*ingredient))
}

// DeleteIngredient removes a catalog entry no recipe references.
func DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := dataStore().DeleteIngredient(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "ingredient")
		return
	}
	applog.Info(r.Context(), "ingredient deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
