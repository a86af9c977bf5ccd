package handlers

import (
	"net/http"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/store"
)

// ListMenus returns the user's menus with their recipes.
func ListMenus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	menus, err := dataStore().ListMenus(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, "menus")
		return
	}
	responses := make([]menuResponse, 0, len(menus))
	for _, menu := range menus {
		responses = append(responses, projectMenu(menu))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ShowMenu returns one of the user's menus.
func ShowMenu(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	menu, err := dataStore().GetMenu(r.Context(), userID, id)
	if err != nil {
		writeStoreError(w, r, err, "menu")
		return
	}
	writeJSON(w, http.StatusOK, projectMenu(*menu))
}

// CreateMenu stores a menu over the selected recipes.
func CreateMenu(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var form forms.MenuForm
	if !decodeForm(w, r, &form) {
		return
	}
	menu, err := dataStore().CreateMenu(r.Context(), userID, menuInput(form))
	if err != nil {
		writeStoreError(w, r, err, "menu")
		return
	}
	applog.Info(r.Context(), "menu created", "id", menu.ID, "recipes", len(menu.Recipes))
	writeJSON(w, http.StatusCreated, projectMenu(*menu))
}

// UpdateMenu converges a menu's recipes to the submitted selection.
func UpdateMenu(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form forms.MenuForm
	if !decodeForm(w, r, &form) {
		return
	}
	menu, err := dataStore().UpdateMenu(r.Context(), userID, id, menuInput(form))
	if err != nil {
		writeStoreError(w, r, err, "menu")
		return
	}
	writeJSON(w, http.StatusOK, projectMenu(*menu))
}

// DeleteMenu removes a menu and detaches it from the shop.
func DeleteMenu(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := dataStore().DeleteMenu(r.Context(), userID, id); err != nil {
		writeStoreError(w, r, err, "menu")
		return
	}
	applog.Info(r.Context(), "menu deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func menuInput(form forms.MenuForm) store.MenuInput {
	return store.MenuInput{Name: form.Name, Description: form.Description, RecipeIDs: form.RecipeIDs}
}
