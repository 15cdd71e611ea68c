package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/models"
)

// Catalog reads and maintains the ingredient catalog.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog returns a Catalog backed by db.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// Records returns the whole catalog ordered by ID.
func (c *Catalog) Records(ctx context.Context) ([]ingredient.Record, error) {
	var rows []models.Ingredient
	if err := c.db.WithContext(ctx).Preload("Aliases", orderByID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	records := make([]ingredient.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

// Get returns the ingredient with the given ID.
func (c *Catalog) Get(ctx context.Context, id uint) (ingredient.Record, error) {
	var row models.Ingredient
	if err := c.db.WithContext(ctx).Preload("Aliases", orderByID).First(&row, id).Error; err != nil {
		return ingredient.Record{}, notFound(err)
	}
	return toRecord(row), nil
}

// FindByName returns the ingredients whose canonical names equal one of
// names, ignoring case. Unknown names are skipped.
func (c *Catalog) FindByName(ctx context.Context, names ...string) ([]ingredient.Record, error) {
	lowered := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			lowered = append(lowered, name)
		}
	}
	if len(lowered) == 0 {
		return []ingredient.Record{}, nil
	}

	var rows []models.Ingredient
	if err := c.db.WithContext(ctx).
		Preload("Aliases", orderByID).
		Where("lower(name) IN ?", lowered).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find ingredients by name: %w", err)
	}
	records := make([]ingredient.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

// Upsert inserts rec, or updates the ingredient with the same canonical name
// (ignoring case). Aliases are merged with the stored ones; duplicates and
// aliases equal to the canonical name are dropped. The stored record is
// returned together with whether it was newly created.
func (c *Catalog) Upsert(ctx context.Context, rec ingredient.Record) (ingredient.Record, bool, error) {
	name := strings.TrimSpace(rec.CanonicalName)
	if name == "" {
		return ingredient.Record{}, false, fmt.Errorf("ingredient name must not be empty")
	}
	if err := ingredient.CheckHealthRating(rec.HealthRating); err != nil {
		return ingredient.Record{}, false, fmt.Errorf("ingredient %q: %w", name, err)
	}

	var (
		saved   ingredient.Record
		created bool
	)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Ingredient
		err := tx.Preload("Aliases", orderByID).Where("lower(name) = ?", strings.ToLower(name)).First(&existing).Error
		switch {
		case err == nil:
			updates := models.Ingredient{
				Category:     rec.Category,
				HealthRating: rec.HealthRating,
				RiskFactors:  models.NormalizeTerms(rec.RiskFactors),
				Description:  rec.Description,
			}
			if err := tx.Model(&existing).Select("Category", "HealthRating", "RiskFactors", "Description").Updates(updates).Error; err != nil {
				return fmt.Errorf("update ingredient %q: %w", name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.Ingredient{
				Name:         name,
				Category:     rec.Category,
				HealthRating: rec.HealthRating,
				RiskFactors:  models.NormalizeTerms(rec.RiskFactors),
				Description:  rec.Description,
			}
			if err := tx.Omit("Aliases").Create(&existing).Error; err != nil {
				return fmt.Errorf("create ingredient %q: %w", name, err)
			}
			created = true
		default:
			return fmt.Errorf("find ingredient %q: %w", name, err)
		}

		aliases := mergeAliases(existing.Name, existing.AliasNames(), rec.Aliases)
		if err := tx.Unscoped().Where("ingredient_id = ?", existing.ID).Delete(&models.IngredientAlias{}).Error; err != nil {
			return fmt.Errorf("clear aliases for %q: %w", name, err)
		}
		rows := make([]models.IngredientAlias, 0, len(aliases))
		for _, alias := range aliases {
			rows = append(rows, models.IngredientAlias{Name: alias, IngredientID: existing.ID})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("store aliases for %q: %w", name, err)
			}
		}

		var reloaded models.Ingredient
		if err := tx.Preload("Aliases", orderByID).First(&reloaded, existing.ID).Error; err != nil {
			return fmt.Errorf("reload ingredient %q: %w", name, err)
		}
		saved = toRecord(reloaded)
		return nil
	})
	if err != nil {
		return ingredient.Record{}, false, err
	}
	return saved, created, nil
}

// Seed upserts the built-in reference catalog and returns how many records
// were newly created.
func (c *Catalog) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, rec := range ingredient.SeedRecords() {
		_, isNew, err := c.Upsert(ctx, rec)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", rec.CanonicalName, err)
		}
		if isNew {
			created++
		}
	}
	return created, nil
}

func mergeAliases(canonical string, groups ...[]string) []string {
	seen := map[string]struct{}{strings.ToLower(strings.TrimSpace(canonical)): {}}
	merged := make([]string, 0)
	for _, group := range groups {
		for _, alias := range group {
			alias = strings.TrimSpace(alias)
			key := strings.ToLower(alias)
			if alias == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, alias)
		}
	}
	return merged
}
