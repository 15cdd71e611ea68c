package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ava/internal/db"
	"ava/internal/ingredient"
	"ava/internal/scan"
	"ava/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), db.GormConfig(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func seededCatalog(t *testing.T, database *gorm.DB) *Catalog {
	t.Helper()
	catalog := NewCatalog(database)
	created, err := catalog.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, 15, created)
	return catalog
}

func TestCatalogSeedAndRecords(t *testing.T) {
	ctx := context.Background()
	catalog := seededCatalog(t, openTestDB(t))

	records, err := catalog.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 15)
	assert.Equal(t, "Water", records[0].CanonicalName)
	assert.Equal(t, []string{"Aqua", "H2O"}, records[0].Aliases)
	assert.Equal(t, []string{}, records[0].RiskFactors)
	assert.Equal(t, []string{"Methylparaben", "Propylparaben", "Butylparaben", "Ethylparaben"}, records[6].Aliases)
	assert.Equal(t, []string{"allergic reactions", "skin irritation", "hormone disruption"}, records[5].RiskFactors)

	// Seeding twice creates nothing new.
	created, err := catalog.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestCatalogUpsertMergesAliases(t *testing.T) {
	ctx := context.Background()
	catalog := seededCatalog(t, openTestDB(t))

	rec, created, err := catalog.Upsert(ctx, ingredient.Record{
		CanonicalName: "water",
		Aliases:       []string{"aqua", "Eau", "Water", " "},
		Category:      "Solvent",
		HealthRating:  10,
		Description:   "Updated",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Water", rec.CanonicalName)
	assert.Equal(t, []string{"Aqua", "H2O", "Eau"}, rec.Aliases)
	assert.Equal(t, "Updated", rec.Description)

	rec, created, err = catalog.Upsert(ctx, ingredient.Record{
		CanonicalName: "Squalane",
		Aliases:       []string{"Olive Squalane"},
		Category:      "Emollient",
		HealthRating:  0,
		RiskFactors:   []string{"pore clogging", "Pore Clogging"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 0, rec.HealthRating)
	assert.Equal(t, []string{"pore clogging"}, rec.RiskFactors)

	_, _, err = catalog.Upsert(ctx, ingredient.Record{CanonicalName: "  "})
	assert.Error(t, err)
}

func TestCatalogUpsertRejectsOutOfRangeRating(t *testing.T) {
	ctx := context.Background()
	catalog := seededCatalog(t, openTestDB(t))

	for _, rating := range []int{-1, 11} {
		_, _, err := catalog.Upsert(ctx, ingredient.Record{CanonicalName: "Water", HealthRating: rating})
		assert.ErrorContains(t, err, "outside 0-10")
	}

	rec, err := catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Water", rec.CanonicalName)
	assert.Equal(t, 10, rec.HealthRating)
}

func TestCatalogGetAndFindByName(t *testing.T) {
	ctx := context.Background()
	catalog := seededCatalog(t, openTestDB(t))

	rec, err := catalog.Get(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "Fragrance", rec.CanonicalName)

	_, err = catalog.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := catalog.FindByName(ctx, "retinol", "ZINC OXIDE", "Unobtainium", "")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Retinol", found[0].CanonicalName)
	assert.Equal(t, "Zinc Oxide", found[1].CanonicalName)
}

func TestCatalogFeedsCachedCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := seededCatalog(t, openTestDB(t))

	cached := ingredient.NewCachedCatalog(catalog, 0)
	snapshot, err := cached.Snapshot(ctx)
	require.NoError(t, err)

	matched := snapshot.Match(ingredient.Normalize("Aqua, Parfum, Unobtainium"))
	require.Len(t, matched, 2)
	assert.Equal(t, "Water", matched[0].CanonicalName)
	assert.Equal(t, "Fragrance", matched[1].CanonicalName)
}

func TestProductsCreateAndGet(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	catalog := seededCatalog(t, database)
	products := NewProducts(database)

	records, err := catalog.FindByName(ctx, "Water", "Retinol")
	require.NoError(t, err)
	// Link in scan order, which differs from catalog order.
	ordered := []ingredient.Record{records[1], records[0]}

	product, err := products.CreateProduct(ctx, scan.ProductInfo{Name: "Night Serum", Category: "Skincare", Barcode: "123", OwnerID: 7}, ordered)
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	require.NotNil(t, product.Barcode)
	assert.Equal(t, "123", *product.Barcode)

	detail, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Night Serum", detail.Name)
	assert.Equal(t, uint(7), detail.OwnerID)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, "Retinol", detail.Ingredients[0].CanonicalName)
	assert.Equal(t, "Water", detail.Ingredients[1].CanonicalName)
	assert.Equal(t, []string{"Aqua", "H2O"}, detail.Ingredients[1].Aliases)

	again, err := products.CreateProduct(ctx, scan.ProductInfo{Name: "Night Serum", Category: "Skincare", Barcode: "123"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, product.ID, again.ID)

	soap, err := products.CreateProduct(ctx, scan.ProductInfo{Name: "Soap", Category: "Body"}, nil)
	require.NoError(t, err)
	soapDetail, err := products.Get(ctx, soap.ID)
	require.NoError(t, err)
	assert.Nil(t, soapDetail.Barcode)
	assert.Empty(t, soapDetail.Ingredients)

	_, err = products.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScanServiceWithStores(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	catalog := seededCatalog(t, database)
	svc := scan.New(ingredient.NewCachedCatalog(catalog, 0), NewProducts(database))

	result, err := svc.Scan(ctx, "Water, Glycerin, Phenoxyethanol, Fragrance, Tocopherol", ingredient.Profile{
		Allergies:      []string{"Fragrance"},
		SkinConditions: []string{"Eczema"},
	}, &scan.ProductInfo{Name: "Hydrating Face Cream", Category: "Skincare"})
	require.NoError(t, err)
	require.Len(t, result.Ingredients, 5)
	require.NotNil(t, result.Product)

	var links []models.ProductIngredient
	require.NoError(t, database.Where("product_id = ?", result.Product.ID).Order("position asc").Find(&links).Error)
	require.Len(t, links, 5)
	for i, link := range links {
		assert.Equal(t, result.Ingredients[i].ID, link.IngredientID)
	}
}

func TestUsersCreateAndProfile(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))

	user, err := users.Create(ctx, " Demo@Example.com ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", user.Email)

	_, err = users.Create(ctx, "DEMO@example.com", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := users.FindByEmail(ctx, "demo@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = users.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	profile, err := users.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ingredient.Profile{Allergies: []string{}, DietaryPreferences: []string{}, SkinConditions: []string{}}, profile)
}

func TestUsersCreateReportsLostRegistrationRace(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	users := NewUsers(database)

	// Another registration for the same email lands after the lookup.
	raced := false
	require.NoError(t, database.Callback().Create().Before("gorm:create").Register("test:competing_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		now := time.Now().UTC()
		require.NoError(t, database.Exec(
			"INSERT INTO users (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"race@example.com", "other-hash", now, now,
		).Error)
	}))

	_, err := users.Create(ctx, "Race@example.com", "hash")
	require.True(t, raced)
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, database.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUsersUpdateProfileIsPartial(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))

	user, err := users.Create(ctx, "demo@example.com", "hash")
	require.NoError(t, err)

	allergies := []string{" Fragrance", "fragrance", "", "Parabens"}
	conditions := []string{"Eczema"}
	profile, err := users.UpdateProfile(ctx, user.ID, ProfileUpdate{Allergies: &allergies, SkinConditions: &conditions})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fragrance", "Parabens"}, profile.Allergies)

	diet := []string{"Vegan"}
	profile, err = users.UpdateProfile(ctx, user.ID, ProfileUpdate{DietaryPreferences: &diet})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fragrance", "Parabens"}, profile.Allergies)
	assert.Equal(t, []string{"Vegan"}, profile.DietaryPreferences)
	assert.Equal(t, []string{"Eczema"}, profile.SkinConditions)

	stored, err := users.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile, stored)

	_, err = users.UpdateProfile(ctx, 999, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversations(t *testing.T) {
	ctx := context.Background()
	conversations := NewConversations(openTestDB(t))

	first, err := conversations.Create(ctx, 1, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Conversation", first.Title)

	productID := uint(3)
	second, err := conversations.Create(ctx, 1, "About my cream", &productID, &Exchange{Question: "Any parabens?", Answer: "No."})
	require.NoError(t, err)

	_, err = conversations.Create(ctx, 2, "Someone else", nil, nil)
	require.NoError(t, err)

	require.Len(t, second.Messages, 2)
	assert.Equal(t, "No.", second.Messages[1].Content)

	messages, err := conversations.AddExchange(ctx, first.ID, Exchange{Question: "Is this safe?", Answer: "Mostly."})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	list, err := conversations.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, []uint{list[0].ID, list[1].ID})

	loaded, err := conversations.Get(ctx, 1, first.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.SenderUser, loaded.Messages[0].Sender)
	assert.Equal(t, "Mostly.", loaded.Messages[1].Content)

	_, err = conversations.Get(ctx, 2, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func failMessageInserts(t *testing.T, database *gorm.DB) {
	t.Helper()
	require.NoError(t, database.Callback().Create().Before("gorm:create").Register("test:fail_messages", func(tx *gorm.DB) {
		if tx.Statement.Table == "messages" {
			tx.AddError(errors.New("disk full"))
		}
	}))
}

func TestConversationsCreateRollsBackOnMessageFailure(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	conversations := NewConversations(database)
	failMessageInserts(t, database)

	_, err := conversations.Create(ctx, 1, "Doomed", nil, &Exchange{Question: "Hello?", Answer: "Hi."})
	require.ErrorContains(t, err, "disk full")

	list, err := conversations.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Without an exchange nothing touches the messages table.
	_, err = conversations.Create(ctx, 1, "Quiet", nil, nil)
	require.NoError(t, err)
}

func TestConversationsAddExchangeIsAtomic(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	conversations := NewConversations(database)

	conversation, err := conversations.Create(ctx, 1, "", nil, nil)
	require.NoError(t, err)

	// The user message goes through; the reply insert fails.
	inserts := 0
	require.NoError(t, database.Callback().Create().Before("gorm:create").Register("test:fail_reply", func(tx *gorm.DB) {
		if tx.Statement.Table != "messages" {
			return
		}
		inserts++
		if inserts == 2 {
			tx.AddError(errors.New("disk full"))
		}
	}))

	_, err = conversations.AddExchange(ctx, conversation.ID, Exchange{Question: "Hello?", Answer: "Hi."})
	require.ErrorContains(t, err, "disk full")

	loaded, err := conversations.Get(ctx, 1, conversation.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Messages)
}
