package models

import (
	"gorm.io/gorm"
)

// Product is a scanned item the user chose to save. Every save creates a new row.
type Product struct {
	gorm.Model
	Name        string              `gorm:"not null" json:"name"`
	Category    string              `gorm:"not null" json:"category"`
	Barcode     *string             `gorm:"index" json:"barcode,omitempty"`
	OwnerID     uint                `gorm:"index" json:"owner_id"`
	Ingredients []ProductIngredient `gorm:"foreignKey:ProductID" json:"ingredients"`
}
