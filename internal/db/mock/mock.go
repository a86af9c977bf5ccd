// Package mock provides an in-memory database seeded with a demo account,
// the ingredient catalog and a small meal plan.
package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"larder/internal/catalog"
	appdb "larder/internal/db"
	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/store"
	"larder/models"
)

const (
	DemoEmail    = "demo@larder.app"
	DemoPassword = "pantry-demo"
)

type demoRecipe struct {
	name        string
	description string
	lines       map[string]float64
}

var demoRecipes = []demoRecipe{
	{
		name:        "Spaghetti bolognese",
		description: "Slow simmered beef and tomato sauce over spaghetti.",
		lines: map[string]float64{
			"Pasta - Spaghetti": 400,
			"Ground beef":       500,
			"Tomato sauce":      300,
			"Onion":             0.5,
			"Carrot":            100,
			"Cheese - Parmesan": 40,
		},
	},
	{
		name:        "Mashed potatoes",
		description: "Buttery mash for the side.",
		lines: map[string]float64{
			"Potato":            800,
			"Milk":              150,
			"Butter - Unsalted": 50,
			"Salt":              5,
		},
	},
	{
		name:        "Banana oat pancakes",
		description: "Quick breakfast pancakes.",
		lines: map[string]float64{
			"Banana":     2,
			"Eggs":       2,
			"Oat flakes": 80,
			"Milk":       100,
		},
	},
}

// New returns an in-memory sqlite database seeded with demo data.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	options := appdb.Options()
	options.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open("file:larder-"+uuid.NewString()+"?mode=memory&cache=shared"), options)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := appdb.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Name:         "Demo Cook",
		Email:        DemoEmail,
		PasswordHash: string(password),
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	entries, err := catalog.Load()
	if err != nil {
		return err
	}
	s := store.New(db)
	if _, err := catalog.Seed(ctx, s, entries); err != nil {
		return err
	}

	ingredients, err := s.ListIngredients(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]models.Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		byName[ingredient.Name] = ingredient
	}

	recipeIDs := make([]uint, 0, len(demoRecipes))
	for _, demo := range demoRecipes {
		input, err := recipeInput(demo, byName)
		if err != nil {
			return fmt.Errorf("demo recipe %q: %w", demo.name, err)
		}
		recipe, err := s.CreateRecipe(ctx, user.ID, input)
		if err != nil {
			return fmt.Errorf("demo recipe %q: %w", demo.name, err)
		}
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	dinners, err := createMenu(ctx, s, user.ID, forms.MenuForm{
		Name:        "Weeknight dinners",
		Description: "Pasta night with mash on the side.",
		RecipeIDs:   recipeIDs[:2],
	})
	if err != nil {
		return err
	}
	breakfast, err := createMenu(ctx, s, user.ID, forms.MenuForm{
		Name:        "Breakfast",
		Description: "Pancakes to start the weekend.",
		RecipeIDs:   recipeIDs[2:],
	})
	if err != nil {
		return err
	}

	if _, err := s.CreateShop(ctx, user.ID, []uint{dinners.ID, breakfast.ID}); err != nil {
		return err
	}
	return nil
}

// recipeInput checks a demo recipe with the same rules the API applies.
func recipeInput(demo demoRecipe, byName map[string]models.Ingredient) (store.RecipeInput, error) {
	form := forms.RecipeForm{Name: demo.name, Description: demo.description}
	units := make(map[uint]string, len(demo.lines))
	for name, amount := range demo.lines {
		ingredient, ok := byName[name]
		if !ok {
			return store.RecipeInput{}, fmt.Errorf("ingredient %q missing from catalog", name)
		}
		units[ingredient.ID] = ingredient.Unit
		form.Ingredients = append(form.Ingredients, forms.LineForm{IngredientID: ingredient.ID, Amount: amount})
	}
	if err := forms.Validate(&form); err != nil {
		return store.RecipeInput{}, err
	}
	if err := forms.CheckPortions(form, units); err != nil {
		return store.RecipeInput{}, err
	}
	return store.RecipeInput{Name: form.Name, Description: form.Description, Lines: form.Lines()}, nil
}

func createMenu(ctx context.Context, s *store.Store, userID uint, form forms.MenuForm) (*models.Menu, error) {
	if err := forms.Validate(&form); err != nil {
		return nil, fmt.Errorf("demo menu %q: %w", form.Name, err)
	}
	return s.CreateMenu(ctx, userID, store.MenuInput{Name: form.Name, Description: form.Description, RecipeIDs: form.RecipeIDs})
}
