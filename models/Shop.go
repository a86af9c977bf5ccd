package models

import "gorm.io/gorm"

// Shop is a user's shopping list. Each user owns at most one.
type Shop struct {
	gorm.Model
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Version   int        `gorm:"not null;default:1" json:"version"`
	Menus     []Menu     `gorm:"many2many:shop_menus;" json:"menus"`
	Purchases []Purchase `gorm:"foreignKey:ShopID" json:"purchases"`
}

// ShopMenu is the join row between shops and menus.
type ShopMenu struct {
	ShopID uint `gorm:"primaryKey"`
	MenuID uint `gorm:"primaryKey"`
}

// Purchase tracks whether an ingredient reachable from the shop's menus was bought.
type Purchase struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ShopID       uint        `gorm:"not null;uniqueIndex:idx_shop_ingredient" json:"shop_id"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_shop_ingredient" json:"ingredient_id"`
	Bought       bool        `gorm:"not null;default:false" json:"bought"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
