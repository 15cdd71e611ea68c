package handlers

import (
	"net/http"

	"ava/internal/ingredient"
	applog "ava/internal/log"
)

// ListIngredients returns the catalog, optionally filtered by ?q= against
// names and aliases.
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	catalog, ok := catalogSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, catalog.Search(r.URL.Query().Get("q")))
}

// GetIngredient returns one catalog entry.
func GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid ingredient id")
		return
	}
	catalog, ok := catalogSnapshot(w, r)
	if !ok {
		return
	}
	record, found := catalog.Lookup(id)
	if !found {
		writeJSONError(w, http.StatusNotFound, "Ingredient not found")
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

func catalogSnapshot(w http.ResponseWriter, r *http.Request) (*ingredient.Catalog, bool) {
	if deps.Catalog == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "catalog not available")
		return nil, false
	}
	catalog, err := deps.Catalog.Snapshot(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to load catalog", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load ingredients")
		return nil, false
	}
	return catalog, true
}
