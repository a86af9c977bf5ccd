package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"larder/internal/planner"
	"larder/internal/store"
	"larder/models"
)

type countingRecorder struct {
	mu        sync.Mutex
	relations map[string]int
	lines     int
	purchases int
}

func (c *countingRecorder) RelationReconciled(relation string, connected, disconnected int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.relations == nil {
		c.relations = make(map[string]int)
	}
	c.relations[relation] += connected + disconnected
}

func (c *countingRecorder) LinesReconciled(created, updated, deleted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines += created + updated + deleted
}

func (c *countingRecorder) PurchasesSynced(created, deleted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purchases += created + deleted
}

// apiFixture wires a session manager and a migrated database into the
// handler globals for the duration of a test.
type apiFixture struct {
	sm   *scs.SessionManager
	db   *gorm.DB
	user models.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := models.User{Email: "cook@example.com", Name: "Cook", PasswordHash: "hash"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &apiFixture{sm: sm, db: db, user: user}
}

func (f *apiFixture) store() *store.Store {
	return store.New(f.db)
}

func (f *apiFixture) otherUser(t *testing.T) models.User {
	t.Helper()
	user := models.User{Email: "other@example.com", PasswordHash: "hash"}
	if err := f.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// call runs handler for an authenticated request. body is JSON encoded
// unless it is nil; vars become the route variables.
func (f *apiFixture) call(t *testing.T, handler http.HandlerFunc, method, target string, body any, vars map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, f.sm, req, f.user.ID)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func (f *apiFixture) ingredient(t *testing.T, name, unit string) models.Ingredient {
	t.Helper()
	ingredient, err := f.store().CreateIngredient(context.Background(), name, unit)
	if err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}
	return *ingredient
}

func (f *apiFixture) recipe(t *testing.T, name string, lines ...planner.LineInput) models.Recipe {
	t.Helper()
	recipe, err := f.store().CreateRecipe(context.Background(), f.user.ID, store.RecipeInput{Name: name, Description: "a test recipe", Lines: lines})
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return *recipe
}

func (f *apiFixture) menu(t *testing.T, name string, recipeIDs ...uint) models.Menu {
	t.Helper()
	menu, err := f.store().CreateMenu(context.Background(), f.user.ID, store.MenuInput{Name: name, Description: "a test menu", RecipeIDs: recipeIDs})
	if err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return *menu
}

func (f *apiFixture) shop(t *testing.T, menuIDs ...uint) *store.ShopSummary {
	t.Helper()
	summary, err := f.store().CreateShop(context.Background(), f.user.ID, menuIDs)
	if err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}
	return summary
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(w.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return value
}

func idVars(id uint) map[string]string {
	return map[string]string{"id": uintString(id)}
}

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func newJSONRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

func recordHandler(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func storeRecipe(name string, lines ...planner.LineInput) store.RecipeInput {
	return store.RecipeInput{Name: name, Description: "a test recipe", Lines: lines}
}
