package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/internal/scan"
	"ava/models"
)

// Products persists scanned products and their ingredient links.
type Products struct {
	db *gorm.DB
}

// NewProducts returns a Products store backed by db.
func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

// ProductDetail is a saved product with its ingredients in scan order.
type ProductDetail struct {
	scan.Product
	OwnerID     uint
	Ingredients []ingredient.Record
}

// CreateProduct inserts a new product and links records in order. The
// product and its links are written in one transaction.
func (p *Products) CreateProduct(ctx context.Context, info scan.ProductInfo, records []ingredient.Record) (scan.Product, error) {
	product := models.Product{
		Name:     info.Name,
		Category: info.Category,
		OwnerID:  info.OwnerID,
	}
	if info.Barcode != "" {
		barcode := info.Barcode
		product.Barcode = &barcode
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients").Create(&product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		links := make([]models.ProductIngredient, 0, len(records))
		for idx, rec := range records {
			links = append(links, models.ProductIngredient{
				ProductID:    product.ID,
				Position:     idx,
				IngredientID: rec.ID,
			})
		}
		if err := tx.Omit("Ingredient").Create(&links).Error; err != nil {
			return fmt.Errorf("link product ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		return scan.Product{}, err
	}
	return toScanProduct(product), nil
}

// Get loads a product and its ingredients ordered by scan position.
func (p *Products) Get(ctx context.Context, id uint) (ProductDetail, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.Ingredient.Aliases", orderByID).
		First(&product, id).Error
	if err != nil {
		return ProductDetail{}, notFound(err)
	}

	records := make([]ingredient.Record, 0, len(product.Ingredients))
	for _, link := range product.Ingredients {
		if link.Ingredient == nil {
			continue
		}
		records = append(records, toRecord(*link.Ingredient))
	}
	return ProductDetail{
		Product:     toScanProduct(product),
		OwnerID:     product.OwnerID,
		Ingredients: records,
	}, nil
}

func toScanProduct(product models.Product) scan.Product {
	return scan.Product{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Barcode:   product.Barcode,
		CreatedAt: product.CreatedAt,
	}
}
