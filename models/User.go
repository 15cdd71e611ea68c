package models

import (
	"strings"

	"gorm.io/gorm"
)

// Skin conditions offered by the mobile profile screen.
const (
	SkinSensitive = "Sensitive Skin"
	SkinEczema    = "Eczema"
	SkinAcne      = "Acne"
	SkinRosacea   = "Rosacea"
	SkinPsoriasis = "Psoriasis"
)

var knownSkinConditions = []string{SkinSensitive, SkinEczema, SkinAcne, SkinRosacea, SkinPsoriasis}

// User represents an account and its health profile.
type User struct {
	gorm.Model
	Email              string   `gorm:"uniqueIndex;not null"`
	PasswordHash       string   `gorm:"not null"`
	Name               string
	Allergies          []string `gorm:"serializer:json;type:text"`
	DietaryPreferences []string `gorm:"serializer:json;type:text"`
	SkinConditions     []string `gorm:"serializer:json;type:text"`
}

// KnownSkinCondition reports whether value is one of the selectable skin
// conditions, ignoring case and surrounding whitespace.
func KnownSkinCondition(value string) bool {
	value = strings.TrimSpace(value)
	for _, known := range knownSkinConditions {
		if strings.EqualFold(known, value) {
			return true
		}
	}
	return false
}

// NormalizeTerms trims values, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling. The result is never nil.
func NormalizeTerms(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
