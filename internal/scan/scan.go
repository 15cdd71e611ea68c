// Package scan runs the ingredient pipeline for one request: normalize the
// text, match it against the catalog, annotate risk, and optionally save
// the scanned product.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ava/internal/ingredient"
	applog "ava/internal/log"
)

// ErrProcessing wraps every dependency failure raised while scanning.
var ErrProcessing = errors.New("scan: processing failed")

// ProductInfo describes the product a scan should be saved as.
type ProductInfo struct {
	Name     string
	Category string
	Barcode  string
	OwnerID  uint
}

// Complete reports whether info carries enough data to be saved.
func (p *ProductInfo) Complete() bool {
	return p != nil && strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Category) != ""
}

// Product is a saved scan.
type Product struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Barcode   *string   `json:"barcode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductStore persists scanned products. Records are linked in the given
// order.
type ProductStore interface {
	CreateProduct(ctx context.Context, info ProductInfo, records []ingredient.Record) (Product, error)
}

// Result is the outcome of a scan. Ingredients follow the order of the
// source text; Product is nil when nothing was saved.
type Result struct {
	Ingredients []ingredient.Analyzed `json:"ingredients"`
	Product     *Product              `json:"product"`
}

// Service wires the pipeline's collaborators.
type Service struct {
	Catalog  ingredient.Provider
	Products ProductStore
	Policy   ingredient.Policy
}

// New returns a Service using the default risk policy.
func New(catalog ingredient.Provider, products ProductStore) *Service {
	return &Service{
		Catalog:  catalog,
		Products: products,
		Policy:   ingredient.DefaultPolicy(),
	}
}

// Analyze scans text without saving anything.
func (s *Service) Analyze(ctx context.Context, text string, profile ingredient.Profile) (Result, error) {
	return s.Scan(ctx, text, profile, nil)
}

// Scan runs the full pipeline. A product is saved only when info is
// complete; an incomplete info is ignored.
func (s *Service) Scan(ctx context.Context, text string, profile ingredient.Profile, info *ProductInfo) (Result, error) {
	catalog, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	tokens := ingredient.Normalize(text)
	matched := catalog.Match(tokens)
	applog.Debug(ctx, "ingredients matched", "tokens", len(tokens), "matched", len(matched))

	result := Result{Ingredients: s.Policy.Annotate(matched, profile)}

	if !info.Complete() {
		return result, nil
	}
	if s.Products == nil {
		return Result{}, fmt.Errorf("%w: no product store configured", ErrProcessing)
	}

	product, err := s.Products.CreateProduct(ctx, normalizeInfo(*info), matched)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	applog.Info(ctx, "scanned product saved", "product_id", product.ID, "ingredients", len(matched))
	result.Product = &product
	return result, nil
}

func normalizeInfo(info ProductInfo) ProductInfo {
	info.Name = strings.TrimSpace(info.Name)
	info.Category = strings.TrimSpace(info.Category)
	info.Barcode = strings.TrimSpace(info.Barcode)
	return info
}
