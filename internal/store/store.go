// Package store implements the gorm-backed repositories behind the API:
// the ingredient catalog, users and their health profiles, saved products
// and assistant conversations.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/models"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("store: not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("store: email already registered")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func toRecord(model models.Ingredient) ingredient.Record {
	riskFactors := model.RiskFactors
	if riskFactors == nil {
		riskFactors = []string{}
	}
	return ingredient.Record{
		ID:            model.ID,
		CanonicalName: model.Name,
		Aliases:       model.AliasNames(),
		Category:      model.Category,
		HealthRating:  model.HealthRating,
		RiskFactors:   riskFactors,
		Description:   model.Description,
	}
}

func toProfile(user models.User) ingredient.Profile {
	return ingredient.Profile{
		Allergies:          models.NormalizeTerms(user.Allergies),
		DietaryPreferences: models.NormalizeTerms(user.DietaryPreferences),
		SkinConditions:     models.NormalizeTerms(user.SkinConditions),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// orderByID preloads associations in insertion order.
func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
