package handlers

import (
	"net/http"
	"testing"

	"larder/internal/planner"
	"larder/models"
)

func TestIngredientLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	w := f.call(t, CreateIngredient, http.MethodPost, "/app/api/ingredients", map[string]any{"name": "  Potato ", "unit": "G"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeResponse[ingredientResponse](t, w)
	if created.Name != "Potato" || created.Unit != models.UnitGram {
		t.Fatalf("expected normalised ingredient, got %+v", created)
	}

	w = f.call(t, CreateIngredient, http.MethodPost, "/app/api/ingredients", map[string]any{"name": "Potato", "unit": "g"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d", w.Code)
	}

	w = f.call(t, UpdateIngredient, http.MethodPut, "/app/api/ingredients/x", map[string]any{"name": "Sweet potato", "unit": "pcs"}, idVars(created.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if updated := decodeResponse[ingredientResponse](t, w); updated.Unit != models.UnitCount {
		t.Fatalf("expected unit change, got %+v", updated)
	}

	w = f.call(t, ShowIngredient, http.MethodGet, "/app/api/ingredients/x", nil, idVars(created.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = f.call(t, ListIngredients, http.MethodGet, "/app/api/ingredients", nil, nil)
	if list := decodeResponse[[]ingredientResponse](t, w); len(list) != 1 {
		t.Fatalf("expected one ingredient, got %+v", list)
	}

	w = f.call(t, DeleteIngredient, http.MethodDelete, "/app/api/ingredients/x", nil, idVars(created.ID))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = f.call(t, ShowIngredient, http.MethodGet, "/app/api/ingredients/x", nil, idVars(created.ID))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateIngredientValidation(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing name", map[string]any{"unit": "g"}, "name"},
		{"unknown unit", map[string]any{"name": "Flour", "unit": "cup"}, "unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(t, CreateIngredient, http.MethodPost, "/app/api/ingredients", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp := decodeResponse[errorResponse](t, w)
			if resp.Fields[tt.field] == "" {
				t.Fatalf("expected error for %s, got %+v", tt.field, resp)
			}
		})
	}

	w := f.call(t, CreateIngredient, http.MethodPost, "/app/api/ingredients", `{"name":"Flour","unit":"g","extra":1}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", w.Code)
	}
}

func TestDeleteIngredientInUse(t *testing.T) {
	f := newAPIFixture(t)
	salt := f.ingredient(t, "Salt", models.UnitGram)
	f.recipe(t, "Salted water", planner.LineInput{IngredientID: salt.ID, Amount: 5})

	w := f.call(t, DeleteIngredient, http.MethodDelete, "/app/api/ingredients/x", nil, idVars(salt.ID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for referenced ingredient, got %d", w.Code)
	}
}

func TestUpdateIngredientUnitInUse(t *testing.T) {
	f := newAPIFixture(t)
	potato := f.ingredient(t, "Potato", models.UnitGram)
	f.recipe(t, "Baked potato", planner.LineInput{IngredientID: potato.ID, Amount: 500})

	w := f.call(t, UpdateIngredient, http.MethodPut, "/app/api/ingredients/x", map[string]any{"name": "Potato", "unit": "portion"}, idVars(potato.ID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unit change on referenced ingredient, got %d: %s", w.Code, w.Body.String())
	}

	w = f.call(t, ShowIngredient, http.MethodGet, "/app/api/ingredients/x", nil, idVars(potato.ID))
	if got := decodeResponse[ingredientResponse](t, w); got.Unit != models.UnitGram {
		t.Fatalf("expected unit to stay grams, got %+v", got)
	}

	w = f.call(t, UpdateIngredient, http.MethodPut, "/app/api/ingredients/x", map[string]any{"name": "Russet potato", "unit": "g"}, idVars(potato.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected rename to succeed, got %d: %s", w.Code, w.Body.String())
	}
}

func TestIngredientRequiresDatabase(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)
	original := database
	database = nil
	t.Cleanup(func() { database = original })

	req := authenticateRequest(t, sm, newJSONRequest(http.MethodGet, "/app/api/ingredients"), 1)
	w := recordHandler(ListIngredients, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without database, got %d", w.Code)
	}
}
