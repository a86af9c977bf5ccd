// Package store persists ingredients, recipes, menus and shops, applying
// reconciled relation diffs atomically and scoping every query by owner.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applog "larder/internal/log"
	"larder/internal/planner"
	"larder/models"
)

var (
	// ErrNotFound is returned when the targeted row does not exist or belongs to another user.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a write collides with existing state.
	ErrConflict = errors.New("store: conflict")
	// ErrInUse is returned when deleting an ingredient that recipes still reference.
	ErrInUse = fmt.Errorf("%w: ingredient is referenced by recipes", ErrConflict)
	// ErrInvalidReference is returned when an input references rows that do not exist
	// or are not owned by the caller.
	ErrInvalidReference = errors.New("store: invalid reference")
)

// Recorder observes the diffs the store applies.
type Recorder interface {
	RelationReconciled(relation string, connected, disconnected int)
	LinesReconciled(created, updated, deleted int)
	PurchasesSynced(created, deleted int)
}

type nopRecorder struct{}

func (nopRecorder) RelationReconciled(string, int, int) {}
func (nopRecorder) LinesReconciled(int, int, int) {}
func (nopRecorder) PurchasesSynced(int, int) {}

// Option customises a Store.
type Option func(*Store)

// WithRecorder installs a Recorder that is notified after each committed diff.
func WithRecorder(recorder Recorder) Option {
	return func(s *Store) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// Store is the persistence gateway for the planning entities.
type Store struct {
	db       *gorm.DB
	recorder Recorder
}

// New wraps db. The handle must have had its join tables registered.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return s.db.WithContext(ctx), nil
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Transaction(fn)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func ownedCount(tx *gorm.DB, model any, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := tx.Model(model).Where("user_id = ? AND id IN ?", userID, ids).Count(&count).Error
	return count, err
}

// deepMenus preloads menus down to their recipe lines' ingredients.
func deepMenus(prefix string) []string {
	return []string{prefix + "Recipes.Ingredients.Ingredient"}
}

// resyncShop converges the user's shop purchases with what its menus can
// currently reach. Users without a shop are left alone.
func (s *Store) resyncShop(tx *gorm.DB, userID uint) (planner.PurchaseDiff, error) {
	var shop models.Shop
	query := tx.Where("user_id = ?", userID).Preload("Purchases")
	for _, path := range deepMenus("Menus.") {
		query = query.Preload(path)
	}
	if err := query.First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planner.PurchaseDiff{}, nil
		}
		return planner.PurchaseDiff{}, err
	}

	diff := planner.SyncPurchases(shop.Purchases, shop.Menus)
	if err := applyPurchaseDiff(tx, shop.ID, diff); err != nil {
		return planner.PurchaseDiff{}, err
	}
	if !diff.Empty() {
		applog.Debug(tx.Statement.Context, "shop purchases resynced", "shop_id", shop.ID, "created", len(diff.Create), "deleted", len(diff.Delete))
	}
	return diff, nil
}

func applyPurchaseDiff(tx *gorm.DB, shopID uint, diff planner.PurchaseDiff) error {
	if len(diff.Delete) > 0 {
		if err := tx.Where("shop_id = ? AND ingredient_id IN ?", shopID, diff.Delete).Delete(&models.Purchase{}).Error; err != nil {
			return fmt.Errorf("delete purchases: %w", err)
		}
	}
	if len(diff.Create) > 0 {
		purchases := make([]models.Purchase, 0, len(diff.Create))
		for _, ingredientID := range diff.Create {
			purchases = append(purchases, models.Purchase{ShopID: shopID, IngredientID: ingredientID})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&purchases).Error; err != nil {
			return fmt.Errorf("create purchases: %w", err)
		}
	}
	return nil
}
