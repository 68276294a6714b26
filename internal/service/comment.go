package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// CommentService stores comments as a flat list linked by parent pointers
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// AddComment creates a comment on recipeID. Content is checked before any
// lookup, so empty content is rejected even for a missing recipe.
func (s *CommentService) AddComment(ctx context.Context, author *models.User, recipeID uuid.UUID, req *types.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, types.NewValidationError("comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, types.NewValidationError("comment must be at most %d characters", models.MaxCommentLength)
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureRecipe(db, recipeID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		var parents int64
		if err := db.Model(&models.Comment{}).
			Where("id = ? AND recipe_id = ?", *req.ParentID, recipeID).
			Count(&parents).Error; err != nil {
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parents == 0 {
			return nil, types.NewValidationError("parent comment does not exist on this recipe")
		}
	}

	comment := &models.Comment{
		Content:  content,
		Author:   author.Snapshot(),
		RecipeID: recipeID,
		ParentID: req.ParentID,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns every comment on the recipe, newest first
func (s *CommentService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := s.ensureRecipe(db, recipeID); err != nil {
		return nil, err
	}

	comments := []models.Comment{}
	if err := db.Where("recipe_id = ?", recipeID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) ensureRecipe(db *gorm.DB, recipeID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return database.MapError(err, "recipe")
	}
	if count == 0 {
		return types.NewNotFoundError("recipe")
	}
	return nil
}
