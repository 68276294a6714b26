package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// UserService handles profile reads and updates
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// UpdateAvatar points the user's avatar at imageURL. Recipes and comments
// keep the avatar they were created with.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, imageURL string) (*models.User, error) {
	imageURL = strings.TrimSpace(imageURL)
	if !models.IsImageURL(imageURL) {
		return nil, types.NewValidationError("imageUrl must be an http(s) URL")
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar", imageURL)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, types.NewNotFoundError("user")
	}
	return s.GetProfile(ctx, userID)
}
