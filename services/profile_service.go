package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileInput struct {
	FullName          string
	Email             string
	Role              string
	Bio               *string
	ProfilePictureURL *string
}

func GetProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &user, nil
}

// UpsertProfile creates or updates the caller's own profile row. The role comes
// from the token, never from the request body.
func UpsertProfile(ctx context.Context, db *gorm.DB, caller Caller, in ProfileInput) (*models.User, error) {
	role := caller.Role
	if role == "" {
		role = models.RoleBooker
	}
	user := models.User{
		ID:                caller.ID,
		FullName:          in.FullName,
		Email:             in.Email,
		Role:              role,
		Bio:               in.Bio,
		ProfilePictureURL: in.ProfilePictureURL,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "role", "bio", "profile_picture_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return GetProfile(ctx, db, caller.ID)
}
