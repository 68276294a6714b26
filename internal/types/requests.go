package types

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MaterialInput struct {
	Name   string `json:"name" binding:"required,max=100"`
	Amount string `json:"amount" binding:"max=50"`
}

type StepInput struct {
	Description string  `json:"description" binding:"required"`
	Image       *string `json:"image" binding:"omitempty,url"`
}

type RecipeMetadataInput struct {
	CookingTime *int   `json:"cookingTime" binding:"omitempty,min=0"`
	Difficulty  string `json:"difficulty" binding:"max=20"`
	CostLevel   string `json:"costLevel" binding:"max=20"`
	Servings    string `json:"servings" binding:"max=20"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title       string               `json:"title" binding:"required,max=100"`
	CoverImage  string               `json:"coverImage" binding:"omitempty,url"`
	Metadata    *RecipeMetadataInput `json:"metadata"`
	Tags        []string             `json:"tags" binding:"max=20,dive,required,max=30"`
	SafetyLevel string               `json:"safetyLevel" binding:"max=20"`
	Materials   []MaterialInput      `json:"materials" binding:"dive"`
	Steps       []StepInput          `json:"steps" binding:"dive"`
	Season      string               `json:"season" binding:"omitempty,season"`
}

// UpdateRecipeRequest carries a partial update; nil fields are left untouched.
// Counters, rating and the author snapshot are not updatable.
type UpdateRecipeRequest struct {
	Title       *string              `json:"title" binding:"omitempty,max=100"`
	CoverImage  *string              `json:"coverImage" binding:"omitempty,url"`
	Metadata    *RecipeMetadataInput `json:"metadata"`
	Tags        *[]string            `json:"tags"`
	SafetyLevel *string              `json:"safetyLevel" binding:"omitempty,max=20"`
	Materials   *[]MaterialInput     `json:"materials"`
	Steps       *[]StepInput         `json:"steps"`
	Season      *string              `json:"season" binding:"omitempty,season"`
}

// RecipeListQuery holds the parsed query string of GET /recipes
type RecipeListQuery struct {
	AuthorID *uuid.UUID
	Season   string
	Query    string
	Tag      string
	Sort     string
	Page     int
	Limit    int
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps Offset from overflowing at MaxLimit
	MaxPage = math.MaxInt / MaxLimit
)

// Normalize clamps the page and page size into their allowed ranges
func (q *RecipeListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Offset returns the row offset for the requested page
func (q RecipeListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type CreateCommentRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentId"`
}

type RateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

type ImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

type StepImageRequest struct {
	ImageURL  string `json:"imageUrl" binding:"required,url"`
	StepIndex *int   `json:"stepIndex" binding:"required"`
}

type PresignRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Purpose     string `json:"purpose" binding:"required,oneof=cover step avatar"`
}

// UserResponse is returned by register and login
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Level    string    `json:"level"`
}

// ProfileResponse is returned by GET /users/profile
type ProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Level      string    `json:"level"`
	Experience int       `json:"experience"`
	Avatar     *string   `json:"avatar"`
}

// ToggleResult reports the outcome of a like or collect toggle
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

type RateResult struct {
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}

// ViewerState describes the caller's own reactions to a recipe
type ViewerState struct {
	Liked     bool `json:"liked"`
	Collected bool `json:"collected"`
	Rating    *int `json:"rating"`
}

type PresignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ImageURL  string    `json:"imageUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}
