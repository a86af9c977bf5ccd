package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"larder/models"
)

// ListIngredients returns the ingredient catalog ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var ingredients []models.Ingredient
	if err := conn.Order("name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// IngredientsByID loads the given ingredients keyed by ID. Missing IDs are
// reported as ErrInvalidReference.
func (s *Store) IngredientsByID(ctx context.Context, ids []uint) (map[uint]models.Ingredient, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]models.Ingredient, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var ingredients []models.Ingredient
	if err := conn.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	for _, ingredient := range ingredients {
		result[ingredient.ID] = ingredient
	}
	for _, id := range ids {
		if _, ok := result[id]; !ok {
			return nil, fmt.Errorf("%w: ingredient %d", ErrInvalidReference, id)
		}
	}
	return result, nil
}

// GetIngredient loads a single ingredient.
func (s *Store) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var ingredient models.Ingredient
	if err := conn.First(&ingredient, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ingredient, nil
}

// CreateIngredient adds an ingredient to the catalog. Names are unique.
func (s *Store) CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{Name: name, Unit: unit}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUniqueIngredientName(tx, name, 0); err != nil {
			return err
		}
		return tx.Create(ingredient).Error
	})
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

// UpdateIngredient renames an ingredient or changes its unit. The unit is
// fixed while recipe lines reference the ingredient.
func (s *Store) UpdateIngredient(ctx context.Context, id uint, name, unit string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&ingredient, id).Error; err != nil {
			return notFound(err)
		}
		if err := ensureUniqueIngredientName(tx, name, id); err != nil {
			return err
		}
		if err := ensureUnitChangeable(tx, ingredient, unit); err != nil {
			return err
		}
		ingredient.Name = name
		ingredient.Unit = unit
		return tx.Save(&ingredient).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient removes an ingredient that no recipe references.
func (s *Store) DeleteIngredient(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, id).Error; err != nil {
			return notFound(err)
		}
		references, err := lineReferences(tx, id)
		if err != nil {
			return err
		}
		if references > 0 {
			return ErrInUse
		}
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.Purchase{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&ingredient).Error
	})
}

// UpsertIngredient creates the ingredient or updates the unit of an existing
// one with the same name. It reports whether a row was created. A referenced
// ingredient keeps its unit and the upsert fails with ErrInUse.
func (s *Store) UpsertIngredient(ctx context.Context, name, unit string) (bool, error) {
	created := false
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var existing models.Ingredient
		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(&models.Ingredient{Name: name, Unit: unit}).Error
		case err != nil:
			return err
		case existing.Unit == unit:
			return nil
		default:
			if err := ensureUnitChangeable(tx, existing, unit); err != nil {
				return err
			}
			return tx.Model(&existing).Update("unit", unit).Error
		}
	})
	return created, err
}

func lineReferences(tx *gorm.DB, ingredientID uint) (int64, error) {
	var references int64
	err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", ingredientID).Count(&references).Error
	return references, err
}

// ensureUnitChangeable rejects unit changes for ingredients that recipe lines
// use, since their amounts were checked against the old unit.
func ensureUnitChangeable(tx *gorm.DB, ingredient models.Ingredient, unit string) error {
	if ingredient.Unit == unit {
		return nil
	}
	references, err := lineReferences(tx, ingredient.ID)
	if err != nil {
		return err
	}
	if references > 0 {
		return fmt.Errorf("%w: %q keeps unit %q", ErrInUse, ingredient.Name, ingredient.Unit)
	}
	return nil
}

func ensureUniqueIngredientName(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	query := tx.Unscoped().Model(&models.Ingredient{}).Where("name = ?", name)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: ingredient %q already exists", ErrConflict, name)
	}
	return nil
}
