package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// RecipeListResponse is the data of GET /recipes
type RecipeListResponse struct {
	Recipes    []models.Recipe  `json:"recipes"`
	Pagination types.Pagination `json:"pagination"`
}

// RecipeDetail adds the caller's own reactions to a recipe when known
type RecipeDetail struct {
	*models.Recipe
	Viewer *types.ViewerState `json:"viewer,omitempty"`
}

// ImageResponse is the data of the image update endpoints
type ImageResponse struct {
	ImageURL  string `json:"imageUrl"`
	StepIndex *int   `json:"stepIndex,omitempty"`
}

// bindJSON decodes the body into dst, pushing a validation error on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			_ = c.Error(err)
			return false
		}
		_ = c.Error(types.NewValidationError("%s", describeBindError(err)))
		return false
	}
	return true
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, fe.Param()))
		case seasonTag:
			msgs = append(msgs, field+" must be one of spring, summer, autumn, winter")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathID parses a uuid path parameter. Malformed IDs cannot name an existing
// resource, so they are reported as not found.
func pathID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(types.NewNotFoundError(resource))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the user resolved by the auth middleware
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		_ = c.Error(types.NewAuthError("authentication required"))
		return nil, false
	}
	return user, true
}

// listQuery reads season, q, tag, sort, page and limit. Unparseable numbers
// fall back to their defaults.
func listQuery(c *gin.Context) types.RecipeListQuery {
	q := types.RecipeListQuery{
		Season: c.Query("season"),
		Query:  c.Query("q"),
		Tag:    c.Query("tag"),
		Sort:   c.Query("sort"),
		Page:   atoiDefault(c.Query("page"), types.DefaultPage),
		Limit:  atoiDefault(c.Query("limit"), types.DefaultLimit),
	}
	q.Normalize()
	return q
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func recipePage(recipes []models.Recipe, total int64, q types.RecipeListQuery) types.APIResponse {
	return types.Success(RecipeListResponse{
		Recipes:    recipes,
		Pagination: types.NewPagination(q.Page, q.Limit, total),
	})
}
