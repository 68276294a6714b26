// Package mocks holds testify mocks of the service interfaces for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// MockInteractionService is a mock implementation of the InteractionService interface
type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) ToggleLike(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error) {
	args := m.Called(ctx, userID, recipeID)
	return toggleOrNil(args)
}

func (m *MockInteractionService) ToggleCollect(ctx context.Context, userID, recipeID uuid.UUID) (*types.ToggleResult, error) {
	args := m.Called(ctx, userID, recipeID)
	return toggleOrNil(args)
}

func (m *MockInteractionService) ToggleCommentLike(ctx context.Context, userID, recipeID, commentID uuid.UUID) (*types.ToggleResult, error) {
	args := m.Called(ctx, userID, recipeID, commentID)
	return toggleOrNil(args)
}

func (m *MockInteractionService) Rate(ctx context.Context, userID, recipeID uuid.UUID, value int) (*types.RateResult, error) {
	args := m.Called(ctx, userID, recipeID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RateResult), args.Error(1)
}

func (m *MockInteractionService) ViewerState(ctx context.Context, userID, recipeID uuid.UUID) (*types.ViewerState, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ViewerState), args.Error(1)
}

func toggleOrNil(args mock.Arguments) (*types.ToggleResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ToggleResult), args.Error(1)
}

// MockCommentService is a mock implementation of the CommentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, author *models.User, recipeID uuid.UUID, req *types.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, author, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

// MockStorageService is a mock implementation of the StorageService interface
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) PresignImageUpload(ctx context.Context, userID uuid.UUID, purpose, contentType string) (*types.PresignResponse, error) {
	args := m.Called(ctx, userID, purpose, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PresignResponse), args.Error(1)
}
