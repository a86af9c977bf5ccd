package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	applog "larder/internal/log"
	"larder/internal/planner"
	"larder/models"
)

// ShopSummary is a shop together with its computed purchase lines.
type ShopSummary struct {
	Shop  models.Shop
	Lines []planner.PurchaseLine
}

func shopQuery(tx *gorm.DB, userID uint) *gorm.DB {
	query := tx.Where("user_id = ?", userID).
		Preload("Purchases", func(db *gorm.DB) *gorm.DB { return db.Order("purchases.id") }).
		Preload("Purchases.Ingredient")
	for _, path := range deepMenus("Menus.") {
		query = query.Preload(path)
	}
	return query
}

func loadShop(tx *gorm.DB, userID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := shopQuery(tx, userID).First(&shop).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// GetShop loads the user's shop and computes its purchase totals.
func (s *Store) GetShop(ctx context.Context, userID uint) (*ShopSummary, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	shop, err := loadShop(conn, userID)
	if err != nil {
		return nil, err
	}
	return &ShopSummary{Shop: *shop, Lines: planner.ComputeShopTotals(shop.Purchases, shop.Menus)}, nil
}

// CreateShop creates the user's shop. A user owns at most one shop.
func (s *Store) CreateShop(ctx context.Context, userID uint, menuIDs []uint) (*ShopSummary, error) {
	var purchases planner.PurchaseDiff
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Shop{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: shop already exists", ErrConflict)
		}
		menus, err := loadOwnedMenus(tx, userID, menuIDs)
		if err != nil {
			return err
		}

		shop := models.Shop{UserID: userID, Version: 1}
		if err := tx.Omit("Menus", "Purchases").Create(&shop).Error; err != nil {
			return fmt.Errorf("create shop: %w", err)
		}
		if err := connectMenus(tx, shop.ID, menuIDs); err != nil {
			return err
		}
		purchases = planner.ReconcileShopPurchases(nil, menus)
		return applyPurchaseDiff(tx, shop.ID, purchases)
	})
	if err != nil {
		return nil, err
	}
	s.recorder.RelationReconciled("shop_menus", len(menuIDs), 0)
	s.recordPurchases(purchases)
	return s.GetShop(ctx, userID)
}

// UpdateShop converges the shop's menus to menuIDs and cascades the change
// into its purchases. Purchases for ingredients reachable before and after
// keep their bought flag. When version is non-zero it must match the stored
// version or ErrConflict is returned.
func (s *Store) UpdateShop(ctx context.Context, userID uint, menuIDs []uint, version int) (*ShopSummary, error) {
	var (
		diff      planner.Diff
		purchases planner.PurchaseDiff
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		shop, err := loadShop(tx, userID)
		if err != nil {
			return err
		}
		if version != 0 && shop.Version != version {
			return fmt.Errorf("%w: shop version %d is stale, current is %d", ErrConflict, version, shop.Version)
		}
		menus, err := loadOwnedMenus(tx, userID, menuIDs)
		if err != nil {
			return err
		}

		current := make([]uint, 0, len(shop.Menus))
		for _, menu := range shop.Menus {
			current = append(current, menu.ID)
		}
		diff = planner.Reconcile(current, menuIDs)
		purchases = planner.ReconcileShopPurchases(shop.Menus, menus)
		applog.Debug(ctx, "shop menus reconciled", "shop_id", shop.ID, "connect", diff.Connect, "disconnect", diff.Disconnect, "purchases_created", len(purchases.Create), "purchases_deleted", len(purchases.Delete))

		bumped := tx.Model(&models.Shop{}).
			Where("id = ? AND version = ?", shop.ID, shop.Version).
			Update("version", gorm.Expr("version + 1"))
		if bumped.Error != nil {
			return fmt.Errorf("bump shop version: %w", bumped.Error)
		}
		if bumped.RowsAffected == 0 {
			return fmt.Errorf("%w: shop was modified concurrently", ErrConflict)
		}

		if len(diff.Disconnect) > 0 {
			if err := tx.Where("shop_id = ? AND menu_id IN ?", shop.ID, diff.Disconnect).Delete(&models.ShopMenu{}).Error; err != nil {
				return fmt.Errorf("disconnect menus: %w", err)
			}
		}
		if err := connectMenus(tx, shop.ID, diff.Connect); err != nil {
			return err
		}
		return applyPurchaseDiff(tx, shop.ID, purchases)
	})
	if err != nil {
		return nil, err
	}
	s.recorder.RelationReconciled("shop_menus", len(diff.Connect), len(diff.Disconnect))
	s.recordPurchases(purchases)
	return s.GetShop(ctx, userID)
}

// SetBought updates the bought flag of the shop's purchases keyed by
// ingredient ID. Ingredients without a purchase entry are rejected.
func (s *Store) SetBought(ctx context.Context, userID uint, bought map[uint]bool) (*ShopSummary, error) {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("user_id = ?", userID).Preload("Purchases").First(&shop).Error; err != nil {
			return notFound(err)
		}
		existing := make(map[uint]models.Purchase, len(shop.Purchases))
		for _, purchase := range shop.Purchases {
			existing[purchase.IngredientID] = purchase
		}
		for ingredientID, value := range bought {
			purchase, ok := existing[ingredientID]
			if !ok {
				return fmt.Errorf("%w: ingredient %d is not on the shopping list", ErrInvalidReference, ingredientID)
			}
			if purchase.Bought == value {
				continue
			}
			if err := tx.Model(&models.Purchase{}).Where("id = ?", purchase.ID).Update("bought", value).Error; err != nil {
				return fmt.Errorf("update purchase: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetShop(ctx, userID)
}

// DeleteShop removes the user's shop and its purchases.
func (s *Store) DeleteShop(ctx context.Context, userID uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("user_id = ?", userID).First(&shop).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.Purchase{}).Error; err != nil {
			return fmt.Errorf("delete purchases: %w", err)
		}
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ShopMenu{}).Error; err != nil {
			return fmt.Errorf("delete shop links: %w", err)
		}
		return tx.Unscoped().Delete(&shop).Error
	})
}

// HasShop reports whether the user already owns a shop.
func (s *Store) HasShop(ctx context.Context, userID uint) (bool, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	var shop models.Shop
	err = conn.Select("id").Where("user_id = ?", userID).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func loadOwnedMenus(tx *gorm.DB, userID uint, ids []uint) ([]models.Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var menus []models.Menu
	if err := menuQuery(tx, userID).Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	if len(menus) != len(ids) {
		return nil, fmt.Errorf("%w: menu not owned by user", ErrInvalidReference)
	}
	return menus, nil
}

func connectMenus(tx *gorm.DB, shopID uint, menuIDs []uint) error {
	if len(menuIDs) == 0 {
		return nil
	}
	rows := make([]models.ShopMenu, 0, len(menuIDs))
	for _, menuID := range menuIDs {
		rows = append(rows, models.ShopMenu{ShopID: shopID, MenuID: menuID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("connect menus: %w", err)
	}
	return nil
}
