package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ava/internal/ingredient"
	"ava/models"
)

// Users manages accounts and their health profiles.
type Users struct {
	db *gorm.DB
}

// NewUsers returns a Users store backed by db.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// ProfileUpdate changes the fields that are non-nil and leaves the rest.
type ProfileUpdate struct {
	Allergies          *[]string `json:"allergies"`
	DietaryPreferences *[]string `json:"dietaryPreferences"`
	SkinConditions     *[]string `json:"skinConditions"`
}

// Create registers a user with an empty health profile. Emails are stored
// lowercased.
func (u *Users) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	email = normalizeEmail(email)
	if _, err := u.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	user := models.User{
		Email:              email,
		PasswordHash:       passwordHash,
		Allergies:          []string{},
		DietaryPreferences: []string{},
		SkinConditions:     []string{},
	}
	if err := u.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent registration can win between the lookup and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// FindByEmail looks a user up by email, ignoring case.
func (u *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("lower(email) = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// Get returns the user with the given ID.
func (u *Users) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// Profile returns the health profile of user id.
func (u *Users) Profile(ctx context.Context, id uint) (ingredient.Profile, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return ingredient.Profile{}, err
	}
	return toProfile(user), nil
}

// UpdateProfile applies update to user id and returns the stored profile.
// Values are trimmed, blanks dropped and case-insensitive duplicates removed.
func (u *Users) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (ingredient.Profile, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return ingredient.Profile{}, err
	}

	columns := make([]string, 0, 3)
	if update.Allergies != nil {
		user.Allergies = models.NormalizeTerms(*update.Allergies)
		columns = append(columns, "Allergies")
	}
	if update.DietaryPreferences != nil {
		user.DietaryPreferences = models.NormalizeTerms(*update.DietaryPreferences)
		columns = append(columns, "DietaryPreferences")
	}
	if update.SkinConditions != nil {
		user.SkinConditions = models.NormalizeTerms(*update.SkinConditions)
		columns = append(columns, "SkinConditions")
	}
	if len(columns) > 0 {
		if err := u.db.WithContext(ctx).Model(&user).Select(columns).Updates(&user).Error; err != nil {
			return ingredient.Profile{}, fmt.Errorf("update profile: %w", err)
		}
	}
	return toProfile(user), nil
}
