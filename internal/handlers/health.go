package handlers

import (
	"net/http"
	"time"

	applog "ava/internal/log"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Time        time.Time `json:"time"`
	Ingredients *int      `json:"ingredients,omitempty"`
}

// Health is a readiness handler for infrastructure probes. It reports the
// catalog size when the catalog can be loaded.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	}
	if deps.Catalog != nil {
		if catalog, err := deps.Catalog.Snapshot(r.Context()); err == nil {
			size := catalog.Len()
			resp.Ingredients = &size
		} else {
			applog.Error(r.Context(), "health check could not load catalog", "error", err)
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
