package models

import "gorm.io/gorm"

// Menu groups recipes chosen by a user.
type Menu struct {
	gorm.Model
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	UserID      uint     `gorm:"not null;index" json:"user_id"`
	Recipes     []Recipe `gorm:"many2many:menu_recipes;" json:"recipes"`
}

// MenuRecipe is the join row between menus and recipes.
type MenuRecipe struct {
	MenuID   uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"primaryKey"`
}
