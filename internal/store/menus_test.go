package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/models"
)

func TestUpdateMenuReconcilesRecipes(t *testing.T) {
	t.Parallel()

	s, db, recorder := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, db, "cook@example.com")
	salt := createIngredient(t, s, "salt", models.UnitGram)
	a := createRecipe(t, s, user.ID, "a", lineFor(salt, 1))
	b := createRecipe(t, s, user.ID, "b", lineFor(salt, 2))
	c := createRecipe(t, s, user.ID, "c", lineFor(salt, 3))

	menu := createMenu(t, s, user.ID, "week", a.ID, b.ID)

	updated, err := s.UpdateMenu(ctx, user.ID, menu.ID, MenuInput{Name: "week two", Description: "second week", RecipeIDs: []uint{b.ID, c.ID}})
	require.NoError(t, err)

	ids := []uint{}
	for _, recipe := range updated.Recipes {
		ids = append(ids, recipe.ID)
	}
	assert.ElementsMatch(t, []uint{b.ID, c.ID}, ids)
	assert.Equal(t, "week two", updated.Name)
	assert.Equal(t, recordedRelation{"menu_recipes", 1, 1}, recorder.relations[len(recorder.relations)-1])
}

func TestMenuRejectsForeignRecipes(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	salt := createIngredient(t, s, "salt", models.UnitGram)
	foreign := createRecipe(t, s, other.ID, "theirs", lineFor(salt, 1))

	_, err := s.CreateMenu(ctx, owner.ID, MenuInput{Name: "mine", RecipeIDs: []uint{foreign.ID}})
	require.ErrorIs(t, err, ErrInvalidReference)

	mine := createRecipe(t, s, owner.ID, "mine", lineFor(salt, 1))
	menu := createMenu(t, s, owner.ID, "menu", mine.ID)
	_, err = s.UpdateMenu(ctx, owner.ID, menu.ID, MenuInput{Name: "menu", RecipeIDs: []uint{mine.ID, foreign.ID}})
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = s.UpdateMenu(ctx, other.ID, menu.ID, MenuInput{Name: "menu", RecipeIDs: []uint{foreign.ID}})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMenuResyncsShop(t *testing.T) {
	t.Parallel()

	s, db, recorder := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, db, "cook@example.com")
	salt := createIngredient(t, s, "salt", models.UnitGram)
	sugar := createIngredient(t, s, "sugar", models.UnitGram)
	savory := createRecipe(t, s, user.ID, "savory", lineFor(salt, 4))
	sweet := createRecipe(t, s, user.ID, "sweet", lineFor(sugar, 100))
	menu := createMenu(t, s, user.ID, "menu", savory.ID)

	_, err := s.CreateShop(ctx, user.ID, []uint{menu.ID})
	require.NoError(t, err)
	_, err = s.SetBought(ctx, user.ID, map[uint]bool{salt.ID: true})
	require.NoError(t, err)

	_, err = s.UpdateMenu(ctx, user.ID, menu.ID, MenuInput{Name: "menu", RecipeIDs: []uint{savory.ID, sweet.ID}})
	require.NoError(t, err)

	summary, err := s.GetShop(ctx, user.ID)
	require.NoError(t, err)
	lines := purchaseByIngredient(t, summary)
	require.Len(t, lines, 2)
	assert.True(t, lines[salt.ID].Bought)
	assert.False(t, lines[sugar.ID].Bought)
	assert.Equal(t, 100.0, lines[sugar.ID].Value)
	assert.Equal(t, [2]int{1, 0}, recorder.purchases[len(recorder.purchases)-1])
}

func TestDeleteMenuDetachesFromShop(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, db, "cook@example.com")
	salt := createIngredient(t, s, "salt", models.UnitGram)
	recipe := createRecipe(t, s, user.ID, "r", lineFor(salt, 4))
	menu := createMenu(t, s, user.ID, "m", recipe.ID)
	_, err := s.CreateShop(ctx, user.ID, []uint{menu.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteMenu(ctx, user.ID, menu.ID))

	summary, err := s.GetShop(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Shop.Menus)
	assert.Empty(t, summary.Lines)

	_, err = s.GetMenu(ctx, user.ID, menu.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
