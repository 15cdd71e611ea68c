package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"ava/internal/assistant"
	"ava/internal/auth"
	"ava/internal/extract"
	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/scan"
	"ava/internal/store"
	"ava/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
)

// Dependencies are the collaborators shared by the API handlers.
type Dependencies struct {
	Sessions      *scs.SessionManager
	Tokens        *auth.Issuer
	Users         *store.Users
	Catalog       ingredient.Provider
	Products      *store.Products
	Conversations *store.Conversations
	Scanner       *scan.Service
	Extractor     extract.Extractor
	Assistant     assistant.Generator
}

var deps Dependencies

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(d Dependencies) {
	deps = d
}

type userIDKey struct{}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

// Register creates an account and signs the new user in.
func Register(w http.ResponseWriter, r *http.Request) {
	if deps.Users == nil || deps.Tokens == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "registration not available")
		return
	}

	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	email := strings.TrimSpace(body.Email)
	applog.Debug(r.Context(), "handling registration", "email", strings.ToLower(email))

	if email == "" || !strings.Contains(email, "@") {
		writeJSONError(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	if len(body.Password) < auth.MinPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		applog.Error(r.Context(), "failed to hash password", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user, err := deps.Users.Create(r.Context(), email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		writeJSONError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to create user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	applog.Info(r.Context(), "user registered", "user_id", user.ID)
	respondWithToken(w, r, user, http.StatusCreated)
}

// Login verifies credentials and returns a bearer token. A session cookie
// is established as well when sessions are enabled.
func Login(w http.ResponseWriter, r *http.Request) {
	if deps.Users == nil || deps.Tokens == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "authentication not available")
		return
	}

	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := deps.Users.FindByEmail(r.Context(), body.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load user during login", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, body.Password); err != nil {
		applog.Debug(r.Context(), "authentication failed", "email", user.Email)
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
	}
	respondWithToken(w, r, user, http.StatusOK)
}

// Logout destroys the current session. Bearer tokens stay valid until they
// expire.
func Logout(w http.ResponseWriter, r *http.Request) {
	if deps.Sessions != nil {
		if err := deps.Sessions.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondWithToken(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	token, expiresAt, err := deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		applog.Error(r.Context(), "failed to issue token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, r, status, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      userResponse{ID: user.ID, Email: user.Email},
	})
}

func establishSession(r *http.Request, user models.User) error {
	if deps.Sessions == nil {
		return nil
	}
	if err := deps.Sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	deps.Sessions.Put(r.Context(), sessionAuthenticatedKey, true)
	deps.Sessions.Put(r.Context(), sessionUserIDKey, int(user.ID))
	deps.Sessions.Put(r.Context(), sessionUserEmailKey, user.Email)
	return nil
}

// RequireAuthentication admits requests carrying a valid bearer token or an
// authenticated session and stores the user id in the request context.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUser(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticatedUser(r *http.Request) (uint, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || deps.Tokens == nil {
			return 0, false
		}
		claims, err := deps.Tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			applog.Debug(r.Context(), "rejected bearer token", "error", err)
			return 0, false
		}
		return claims.UserID, true
	}
	if ActiveSession(r) {
		return uint(deps.Sessions.GetInt(r.Context(), sessionUserIDKey)), true
	}
	return 0, false
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if deps.Sessions == nil {
		return false
	}
	return deps.Sessions.GetBool(r.Context(), sessionAuthenticatedKey) && deps.Sessions.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentUserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok && id > 0
}

// currentProfile loads the caller's health profile. It writes the error
// response itself and reports whether the handler may continue.
func currentProfile(w http.ResponseWriter, r *http.Request) (uint, ingredient.Profile, bool) {
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return 0, ingredient.Profile{}, false
	}
	if deps.Users == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "profiles not available")
		return 0, ingredient.Profile{}, false
	}
	profile, err := deps.Users.Profile(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "User not found")
		return 0, ingredient.Profile{}, false
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load profile", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load user profile")
		return 0, ingredient.Profile{}, false
	}
	return userID, profile, true
}
