package handlers

import (
	"net/http"

	"larder/internal/forms"
	applog "larder/internal/log"
)

type boughtRequest struct {
	Purchases []struct {
		IngredientID uint `json:"ingredient_id"`
		Bought       bool `json:"bought"`
	} `json:"purchases"`
}

// ShowShop returns the user's shopping list with computed totals.
func ShowShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	summary, err := dataStore().GetShop(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, "shop")
		return
	}
	writeJSON(w, http.StatusOK, projectShop(*summary))
}

// CreateShop creates the user's shopping list from the selected menus.
func CreateShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var form forms.ShopForm
	if !decodeForm(w, r, &form) {
		return
	}
	summary, err := dataStore().CreateShop(r.Context(), userID, form.MenuIDs)
	if err != nil {
		writeStoreError(w, r, err, "shop")
		return
	}
	applog.Info(r.Context(), "shop created", "id", summary.Shop.ID, "purchases", len(summary.Lines))
	writeJSON(w, http.StatusCreated, projectShop(*summary))
}

// UpdateShop converges the shop's menus and cascades into its purchases.
func UpdateShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var form forms.ShopForm
	if !decodeForm(w, r, &form) {
		return
	}
	summary, err := dataStore().UpdateShop(r.Context(), userID, form.MenuIDs, form.Version)
	if err != nil {
		writeStoreError(w, r, err, "shop")
		return
	}
	writeJSON(w, http.StatusOK, projectShop(*summary))
}

// UpdatePurchases sets bought flags on the shop's purchases.
func UpdatePurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var payload boughtRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid purchases payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	bought := make(map[uint]bool, len(payload.Purchases))
	for _, entry := range payload.Purchases {
		bought[entry.IngredientID] = entry.Bought
	}
	summary, err := dataStore().SetBought(r.Context(), userID, bought)
	if err != nil {
		writeStoreError(w, r, err, "shop")
		return
	}
	writeJSON(w, http.StatusOK, projectShop(*summary))
}

// DeleteShop removes the user's shopping list.
func DeleteShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	if err := dataStore().DeleteShop(r.Context(), userID); err != nil {
		writeStoreError(w, r, err, "shop")
		return
	}
	applog.Info(r.Context(), "shop deleted")
	w.WriteHeader(http.StatusNoContent)
}
