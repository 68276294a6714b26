package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	TokenTTL() time.Duration
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, imageURL string) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, author *models.User, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error
	ListRecipes(ctx context.Context, q types.RecipeListQuery) ([]models.Recipe, int64, error)
	ListCollected(ctx context.Context, userID uuid.UUID, q types.RecipeListQuery) ([]models.Recipe, int64, error)
	SetCoverImage(ctx context.Context, id, userID uuid.UUID, imageURL string) (*models.Recipe, error)
	SetStepImage(ctx context.Context, id, userID uuid.UUID, stepIndex int, imageURL string) (*models.Recipe, error)
}

// IInteractionService defines the interface for likes, collects and ratings
type IInteractionService interface {
	ToggleLike(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error)
	ToggleCollect(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error)
	ToggleCommentLike(ctx context.Context, userID, recipeID, commentID uuid.UUID) (*types.ToggleResult, error)
	Rate(ctx context.Context, userID, recipeID uuid.UUID, value int) (*types.RateResult, error)
	ViewerState(ctx context.Context, userID, recipeID uuid.UUID) (*types.ViewerState, error)
}

// ICommentService defines the interface for comment operations
type ICommentService interface {
	AddComment(ctx context.Context, author *models.User, recipeID uuid.UUID, req *types.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error)
}

// IStorageService defines the interface for image upload URLs
type IStorageService interface {
	PresignImageUpload(ctx context.Context, userID uuid.UUID, purpose, contentType string) (*types.PresignResponse, error)
}

var (
	_ IAuthService        = (*AuthService)(nil)
	_ IUserService        = (*UserService)(nil)
	_ IRecipeService      = (*RecipeService)(nil)
	_ IInteractionService = (*InteractionService)(nil)
	_ ICommentService     = (*CommentService)(nil)
	_ IStorageService     = (*StorageService)(nil)
)
