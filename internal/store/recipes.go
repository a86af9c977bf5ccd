package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	applog "larder/internal/log"
	"larder/internal/planner"
	"larder/models"
)

// RecipeInput is a validated recipe submission.
type RecipeInput struct {
	Name        string
	Description string
	Lines       []planner.LineInput
}

func (in RecipeInput) ingredientIDs() []uint {
	ids := make([]uint, 0, len(in.Lines))
	for _, line := range in.Lines {
		ids = append(ids, line.IngredientID)
	}
	return ids
}

func recipeQuery(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Where("user_id = ?", userID).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// ListRecipes returns the user's recipes with their lines.
func (s *Store) ListRecipes(ctx context.Context, userID uint) ([]models.Recipe, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var recipes []models.Recipe
	if err := recipeQuery(conn, userID).Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe loads one of the user's recipes.
func (s *Store) GetRecipe(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := recipeQuery(conn, userID).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// CreateRecipe stores a new recipe with its lines.
func (s *Store) CreateRecipe(ctx context.Context, userID uint, input RecipeInput) (*models.Recipe, error) {
	var id uint
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureIngredients(tx, input.ingredientIDs()); err != nil {
			return err
		}
		recipe := models.Recipe{Name: input.Name, Description: input.Description, UserID: userID}
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		id = recipe.ID
		return createLines(tx, recipe.ID, input.Lines)
	})
	if err != nil {
		return nil, err
	}
	s.recorder.LinesReconciled(len(input.Lines), 0, 0)
	return s.GetRecipe(ctx, userID, id)
}

// UpdateRecipe renames the recipe and converges its lines to input.Lines.
// The owner's shop is resynced in the same transaction.
func (s *Store) UpdateRecipe(ctx context.Context, userID, id uint, input RecipeInput) (*models.Recipe, error) {
	var (
		lines     planner.LineDiff
		purchases planner.PurchaseDiff
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := recipeQuery(tx, userID).First(&recipe, id).Error; err != nil {
			return notFound(err)
		}
		if err := ensureIngredients(tx, input.ingredientIDs()); err != nil {
			return err
		}

		lines = planner.ReconcileLines(recipe.Ingredients, input.Lines)
		applog.Debug(ctx, "recipe lines reconciled", "recipe_id", id, "create", len(lines.Create), "update", len(lines.Update), "delete", len(lines.Delete))

		if err := tx.Model(&recipe).Updates(map[string]any{"name": input.Name, "description": input.Description}).Error; err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if len(lines.Delete) > 0 {
			if err := tx.Where("recipe_id = ? AND id IN ?", id, lines.Delete).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("delete recipe lines: %w", err)
			}
		}
		for _, update := range lines.Update {
			if err := tx.Model(&models.RecipeIngredient{}).Where("id = ? AND recipe_id = ?", update.ID, id).Update("amount", update.Amount).Error; err != nil {
				return fmt.Errorf("update recipe line: %w", err)
			}
		}
		if err := createLines(tx, id, lines.Create); err != nil {
			return err
		}

		var err error
		purchases, err = s.resyncShop(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.recorder.LinesReconciled(len(lines.Create), len(lines.Update), len(lines.Delete))
	s.recordPurchases(purchases)
	return s.GetRecipe(ctx, userID, id)
}

// DeleteRecipe removes the recipe, its lines and its menu memberships.
func (s *Store) DeleteRecipe(ctx context.Context, userID, id uint) error {
	var purchases planner.PurchaseDiff
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.MenuRecipe{}).Error; err != nil {
			return fmt.Errorf("delete menu links: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe lines: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		var err error
		purchases, err = s.resyncShop(tx, userID)
		return err
	})
	if err != nil {
		return err
	}
	s.recordPurchases(purchases)
	return nil
}

func createLines(tx *gorm.DB, recipeID uint, lines []planner.LineInput) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("create recipe lines: %w", err)
	}
	return nil
}

func ensureIngredients(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: unknown ingredient", ErrInvalidReference)
	}
	return nil
}

func (s *Store) recordPurchases(diff planner.PurchaseDiff) {
	if diff.Empty() {
		return
	}
	s.recorder.PurchasesSynced(len(diff.Create), len(diff.Delete))
}
