package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/models"
)

func TestComputeShopTotalsSumsAcrossMenus(t *testing.T) {
	t.Parallel()

	flour := ingredient(1, "flour", models.UnitGram)
	first := menu(1, recipe(1, line(1, flour, 200)))
	second := menu(2, recipe(2, line(2, flour, 200)))

	lines := ComputeShopTotals([]models.Purchase{purchase(10, flour, false)}, []models.Menu{first, second})

	require.Len(t, lines, 1)
	assert.Equal(t, uint(10), lines[0].ID)
	assert.Equal(t, 400.0, lines[0].Value)
	assert.Equal(t, "flour", lines[0].Ingredient.Name)
}

func TestComputeShopTotalsSumsWithinMenu(t *testing.T) {
	t.Parallel()

	milk := ingredient(3, "milk", models.UnitMilliliter)
	meal := menu(1,
		recipe(1, line(1, milk, 100)),
		recipe(2, line(2, milk, 250)),
		recipe(3, line(3, milk, 50)),
	)

	lines := ComputeShopTotals([]models.Purchase{purchase(1, milk, true)}, []models.Menu{meal})

	require.Len(t, lines, 1)
	assert.Equal(t, 400.0, lines[0].Value)
	assert.True(t, lines[0].Bought)
}

func TestComputeShopTotalsUnreachableIngredientIsZero(t *testing.T) {
	t.Parallel()

	salt := ingredient(1, "salt", models.UnitGram)
	saffron := ingredient(2, "saffron", models.UnitGram)
	meal := menu(1, recipe(1, line(1, salt, 5)))

	lines := ComputeShopTotals(
		[]models.Purchase{purchase(1, salt, false), purchase(2, saffron, true)},
		[]models.Menu{meal},
	)

	require.Len(t, lines, 2)
	assert.Equal(t, 5.0, lines[0].Value)
	assert.Equal(t, 0.0, lines[1].Value)
	assert.True(t, lines[1].Bought)
}

func TestComputeShopTotalsWithoutMenus(t *testing.T) {
	t.Parallel()

	salt := ingredient(1, "salt", models.UnitGram)
	lines := ComputeShopTotals([]models.Purchase{purchase(1, salt, false)}, nil)

	require.Len(t, lines, 1)
	assert.Zero(t, lines[0].Value)
}

func TestComputeShopTotalsWithoutPurchases(t *testing.T) {
	t.Parallel()

	salt := ingredient(1, "salt", models.UnitGram)
	lines := ComputeShopTotals(nil, []models.Menu{menu(1, recipe(1, line(1, salt, 5)))})

	require.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestComputeShopTotalsPreservesPurchaseOrder(t *testing.T) {
	t.Parallel()

	a := ingredient(1, "a", models.UnitGram)
	b := ingredient(2, "b", models.UnitGram)
	c := ingredient(3, "c", models.UnitGram)
	meal := menu(1, recipe(1, line(1, a, 1), line(2, b, 2), line(3, c, 3)))

	lines := ComputeShopTotals(
		[]models.Purchase{purchase(7, c, false), purchase(5, a, false), purchase(6, b, false)},
		[]models.Menu{meal},
	)

	require.Len(t, lines, 3)
	assert.Equal(t, []uint{7, 5, 6}, []uint{lines[0].ID, lines[1].ID, lines[2].ID})
	assert.Equal(t, []float64{3, 1, 2}, []float64{lines[0].Value, lines[1].Value, lines[2].Value})
}

func TestComputeShopTotalsFallsBackToIngredientID(t *testing.T) {
	t.Parallel()

	salt := ingredient(4, "salt", models.UnitGram)
	entry := models.Purchase{ID: 1, IngredientID: 4}

	lines := ComputeShopTotals([]models.Purchase{entry}, []models.Menu{menu(1, recipe(1, line(1, salt, 2)))})

	require.Len(t, lines, 1)
	assert.Equal(t, uint(4), lines[0].Ingredient.ID)
	assert.Equal(t, 2.0, lines[0].Value)
}

func TestComputeShopTotalsPotatoOnionScenario(t *testing.T) {
	t.Parallel()

	potato := ingredient(1, "potato", models.UnitGram)
	onion := ingredient(2, "onion", models.UnitPortion)
	m1 := menu(1, recipe(1, line(1, potato, 500), line(2, onion, 0.5)))

	lines := ComputeShopTotals(
		[]models.Purchase{purchase(1, potato, false), purchase(2, onion, false)},
		[]models.Menu{m1},
	)

	require.Len(t, lines, 2)
	assert.Equal(t, 500.0, lines[0].Value)
	assert.Equal(t, 0.5, lines[1].Value)
	assert.Equal(t, "500 g", FormatValue(lines[0].Value, lines[0].Ingredient.Unit))
	assert.Equal(t, "1/2", FormatValue(lines[1].Value, lines[1].Ingredient.Unit))
}

func TestReachableIngredients(t *testing.T) {
	t.Parallel()

	a := ingredient(3, "a", models.UnitGram)
	b := ingredient(1, "b", models.UnitGram)
	menus := []models.Menu{
		menu(1, recipe(1, line(1, a, 1))),
		menu(2, recipe(2, line(2, b, 1), line(3, a, 4))),
	}

	assert.Equal(t, []uint{1, 3}, ReachableIngredients(menus))
	assert.Empty(t, ReachableIngredients(nil))
}
