package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/store"
	"ava/models"
)

// profileResponse reports, next to the profile, the skin conditions that no
// risk rule covers yet.
type profileResponse struct {
	ingredient.Profile
	UnscreenedSkinConditions []string `json:"unscreenedSkinConditions"`
}

func toProfileResponse(profile ingredient.Profile) profileResponse {
	return profileResponse{
		Profile:                  profile,
		UnscreenedSkinConditions: riskPolicy().Unscreened(profile),
	}
}

// Profile returns the caller's health profile.
func Profile(w http.ResponseWriter, r *http.Request) {
	_, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile applies a partial update to the caller's health profile.
// Omitted fields keep their stored value.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if deps.Users == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "profiles not available")
		return
	}

	var update store.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	if update.SkinConditions != nil {
		for _, condition := range models.NormalizeTerms(*update.SkinConditions) {
			if !models.KnownSkinCondition(condition) {
				writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Unknown skin condition %q", condition))
				return
			}
		}
	}

	profile, err := deps.Users.UpdateProfile(r.Context(), userID, update)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to update profile", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update user profile")
		return
	}
	applog.Info(r.Context(), "profile updated", "user_id", userID)
	writeJSON(w, r, http.StatusOK, toProfileResponse(profile))
}
