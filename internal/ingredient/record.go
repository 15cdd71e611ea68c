// Package ingredient turns raw ingredient text into catalog records and
// annotates them with per-user risk.
package ingredient

import (
	"context"
	"fmt"
)

// Record is an entry of the reference ingredient catalog.
type Record struct {
	ID            uint     `json:"id"`
	CanonicalName string   `json:"name"`
	Aliases       []string `json:"aliases"`
	Category      string   `json:"category"`
	HealthRating  int      `json:"healthRating"`
	RiskFactors   []string `json:"riskFactors"`
	Description   string   `json:"description"`
}

// Health ratings run from MinHealthRating (most hazardous) to
// MaxHealthRating (safest).
const (
	MinHealthRating = 0
	MaxHealthRating = 10
)

// CheckHealthRating rejects ratings outside the catalog scale.
func CheckHealthRating(rating int) error {
	if rating < MinHealthRating || rating > MaxHealthRating {
		return fmt.Errorf("health rating %d is outside %d-%d", rating, MinHealthRating, MaxHealthRating)
	}
	return nil
}

// Profile is the health data a risk evaluation is personalised with.
type Profile struct {
	Allergies          []string `json:"allergies"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	SkinConditions     []string `json:"skinConditions"`
}

// Analyzed pairs a Record with its risk for one profile. It is computed per
// request and never stored.
type Analyzed struct {
	Record
	IsRisky  bool      `json:"isRisky"`
	Findings []Finding `json:"reasons"`
}

// Source provides the full catalog. Implementations are read-only from the
// point of view of this package.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Provider hands out a catalog snapshot that is safe to use for one request.
type Provider interface {
	Snapshot(ctx context.Context) (*Catalog, error)
}
