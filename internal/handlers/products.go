package handlers

import (
	"errors"
	"net/http"

	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/scan"
	"ava/internal/store"
)

type productResponse struct {
	scan.Product
	Ingredients []ingredient.Analyzed `json:"ingredients"`
}

// GetProduct returns a saved product with its ingredients annotated for the
// viewer's current profile.
func GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if deps.Products == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "products not available")
		return
	}

	_, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	detail, err := deps.Products.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load product", "error", err, "product_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}

	writeJSON(w, r, http.StatusOK, productResponse{
		Product:     detail.Product,
		Ingredients: riskPolicy().Annotate(detail.Ingredients, profile),
	})
}

func riskPolicy() ingredient.Policy {
	if deps.Scanner != nil {
		return deps.Scanner.Policy
	}
	return ingredient.DefaultPolicy()
}
