package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	applog "larder/internal/log"
	"larder/internal/planner"
	"larder/models"
)

// MenuInput is a validated menu submission.
type MenuInput struct {
	Name        string
	Description string
	RecipeIDs   []uint
}

func menuQuery(tx *gorm.DB, userID uint) *gorm.DB {
	query := tx.Where("user_id = ?", userID)
	for _, path := range deepMenus("") {
		query = query.Preload(path)
	}
	return query
}

// ListMenus returns the user's menus with their recipes.
func (s *Store) ListMenus(ctx context.Context, userID uint) ([]models.Menu, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var menus []models.Menu
	if err := menuQuery(conn, userID).Order("name").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// GetMenu loads one of the user's menus.
func (s *Store) GetMenu(ctx context.Context, userID, id uint) (*models.Menu, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var menu models.Menu
	if err := menuQuery(conn, userID).First(&menu, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &menu, nil
}

// CreateMenu stores a new menu linked to the given recipes.
func (s *Store) CreateMenu(ctx context.Context, userID uint, input MenuInput) (*models.Menu, error) {
	var id uint
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureOwned(tx, &models.Recipe{}, userID, input.RecipeIDs); err != nil {
			return err
		}
		menu := models.Menu{Name: input.Name, Description: input.Description, UserID: userID}
		if err := tx.Omit("Recipes").Create(&menu).Error; err != nil {
			return fmt.Errorf("create menu: %w", err)
		}
		id = menu.ID
		return connectRecipes(tx, menu.ID, input.RecipeIDs)
	})
	if err != nil {
		return nil, err
	}
	s.recorder.RelationReconciled("menu_recipes", len(input.RecipeIDs), 0)
	return s.GetMenu(ctx, userID, id)
}

// UpdateMenu renames the menu and converges its recipe set to input.RecipeIDs.
func (s *Store) UpdateMenu(ctx context.Context, userID, id uint, input MenuInput) (*models.Menu, error) {
	var (
		diff      planner.Diff
		purchases planner.PurchaseDiff
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.Where("user_id = ?", userID).Preload("Recipes").First(&menu, id).Error; err != nil {
			return notFound(err)
		}
		if err := ensureOwned(tx, &models.Recipe{}, userID, input.RecipeIDs); err != nil {
			return err
		}

		current := make([]uint, 0, len(menu.Recipes))
		for _, recipe := range menu.Recipes {
			current = append(current, recipe.ID)
		}
		diff = planner.Reconcile(current, input.RecipeIDs)
		applog.Debug(ctx, "menu recipes reconciled", "menu_id", id, "connect", diff.Connect, "disconnect", diff.Disconnect)

		if err := tx.Model(&menu).Updates(map[string]any{"name": input.Name, "description": input.Description}).Error; err != nil {
			return fmt.Errorf("update menu: %w", err)
		}
		if len(diff.Disconnect) > 0 {
			if err := tx.Where("menu_id = ? AND recipe_id IN ?", id, diff.Disconnect).Delete(&models.MenuRecipe{}).Error; err != nil {
				return fmt.Errorf("disconnect recipes: %w", err)
			}
		}
		if err := connectRecipes(tx, id, diff.Connect); err != nil {
			return err
		}

		var err error
		purchases, err = s.resyncShop(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.recorder.RelationReconciled("menu_recipes", len(diff.Connect), len(diff.Disconnect))
	s.recordPurchases(purchases)
	return s.GetMenu(ctx, userID, id)
}

// DeleteMenu removes the menu and detaches it from the user's shop.
func (s *Store) DeleteMenu(ctx context.Context, userID, id uint) error {
	var purchases planner.PurchaseDiff
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.Where("user_id = ?", userID).First(&menu, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.ShopMenu{}).Error; err != nil {
			return fmt.Errorf("delete shop links: %w", err)
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.MenuRecipe{}).Error; err != nil {
			return fmt.Errorf("delete recipe links: %w", err)
		}
		if err := tx.Delete(&menu).Error; err != nil {
			return fmt.Errorf("delete menu: %w", err)
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

func connectRecipes(tx *gorm.DB, menuID uint, recipeIDs []uint) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	rows := make([]models.MenuRecipe, 0, len(recipeIDs))
	for _, recipeID := range recipeIDs {
		rows = append(rows, models.MenuRecipe{MenuID: menuID, RecipeID: recipeID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("connect recipes: %w", err)
	}
	return nil
}

func ensureOwned(tx *gorm.DB, model any, userID uint, ids []uint) error {
	count, err := ownedCount(tx, model, userID, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: %T not owned by user", ErrInvalidReference, model)
	}
	return nil
}
