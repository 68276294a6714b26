package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, author *models.User, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, author, req)
	return recipeOrNil(args)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	return recipeOrNil(args)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, id, userID, req)
	return recipeOrNil(args)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, q types.RecipeListQuery) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) ListCollected(ctx context.Context, userID uuid.UUID, q types.RecipeListQuery) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) SetCoverImage(ctx context.Context, id, userID uuid.UUID, imageURL string) (*models.Recipe, error) {
	args := m.Called(ctx, id, userID, imageURL)
	return recipeOrNil(args)
}

func (m *MockRecipeService) SetStepImage(ctx context.Context, id, userID uuid.UUID, stepIndex int, imageURL string) (*models.Recipe, error) {
	args := m.Called(ctx, id, userID, stepIndex, imageURL)
	return recipeOrNil(args)
}

func recipeOrNil(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}
