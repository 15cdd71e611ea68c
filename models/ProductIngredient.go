package models

import (
	"gorm.io/gorm"
)

type ProductIngredient struct {
	gorm.Model
	ProductID uint `gorm:"not null;index" json:"product_id"`

	// Position keeps the order the ingredient appeared in the scanned text.
	Position int `gorm:"not null" json:"position"`

	IngredientID uint        `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
