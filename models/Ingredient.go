package models

import (
	"gorm.io/gorm"
)

// Ingredient is a reference catalog entry. Rows are written by catalog
// tooling only; the API reads them.
type Ingredient struct {
	gorm.Model
	Name         string            `gorm:"uniqueIndex;not null" json:"name"`
	Aliases      []IngredientAlias `gorm:"foreignKey:IngredientID" json:"aliases"`
	Category     string            `json:"category"`
	HealthRating int               `gorm:"not null" json:"health_rating"`
	RiskFactors  []string          `gorm:"serializer:json;type:text" json:"risk_factors"`
	Description  string            `gorm:"type:text" json:"description"`
}

// IngredientAlias holds an alternative name for an Ingredient.
type IngredientAlias struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	IngredientID uint   `gorm:"index"`
}

// AliasNames returns the non-blank alias names in storage order.
func (i Ingredient) AliasNames() []string {
	names := make([]string, 0, len(i.Aliases))
	for _, alias := range i.Aliases {
		if alias.Name == "" {
			continue
		}
		names = append(names, alias.Name)
	}
	return names
}
