package mock

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ava/internal/auth"
	"ava/internal/db"
	applog "ava/internal/log"
	"ava/internal/scan"
	"ava/internal/store"
	"ava/models"
)

// Demo account credentials seeded into the mock database.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// New returns an in-memory sqlite database seeded with the reference catalog,
// a demo user and one saved product.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:ava-mock?mode=memory&cache=shared"), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	catalog := store.NewCatalog(database)
	if _, err := catalog.Seed(ctx); err != nil {
		return err
	}

	users := store.NewUsers(database)
	user, err := users.FindByEmail(ctx, DemoEmail)
	if err != nil {
		hash, err := auth.HashPassword(DemoPassword)
		if err != nil {
			return err
		}
		user, err = users.Create(ctx, DemoEmail, hash)
		if err != nil {
			return err
		}
	}

	allergies := []string{"Fragrance", "Parabens"}
	diet := []string{"Vegan", "Gluten-Free"}
	conditions := []string{models.SkinSensitive, models.SkinEczema}
	if _, err := users.UpdateProfile(ctx, user.ID, store.ProfileUpdate{
		Allergies:          &allergies,
		DietaryPreferences: &diet,
		SkinConditions:     &conditions,
	}); err != nil {
		return err
	}

	var products int64
	if err := database.WithContext(ctx).Model(&models.Product{}).Count(&products).Error; err != nil {
		return err
	}
	if products == 0 {
		records, err := catalog.FindByName(ctx, "Water", "Glycerin", "Phenoxyethanol", "Fragrance", "Tocopherol")
		if err != nil {
			return err
		}
		if len(records) != 5 {
			return fmt.Errorf("expected 5 sample ingredients, found %d", len(records))
		}
		if _, err := store.NewProducts(database).CreateProduct(ctx, scan.ProductInfo{
			Name:     "Hydrating Face Cream",
			Category: "Skincare",
			Barcode:  "123456789012",
			OwnerID:  user.ID,
		}, records); err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
