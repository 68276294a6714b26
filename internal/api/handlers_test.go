package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zhanma666/evil-cook-project/internal/api"
	"github.com/zhanma666/evil-cook-project/internal/database"
	"github.com/zhanma666/evil-cook-project/internal/mocks"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

func TestRootAndHealth(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var root map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	assert.Equal(t, "Evil Cook Kitchen API", root["message"])

	rr = a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)

	require.NoError(t, database.Close(a.db))
	rr = a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestInternalErrorsAreHiddenInProduction(t *testing.T) {
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, mock.Anything).
		Return(nil, int64(0), errors.New("pq: connection refused"))

	for _, production := range []bool{false, true} {
		router, group := newEngine(production)
		api.NewRecipeHandler(recipes, new(mocks.MockInteractionService), new(mocks.MockAuthService)).RegisterRoutes(group)

		rr := serve(t, router, http.MethodGet, "/api/recipes", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		env := decode(t, rr, nil)
		assert.False(t, env.Success)
		if production {
			assert.Equal(t, "internal server error", env.Error)
		} else {
			assert.Equal(t, "pq: connection refused", env.Error)
		}
	}
}

func TestListQueryIsNormalized(t *testing.T) {
	recipes := new(mocks.MockRecipeService)
	want := types.RecipeListQuery{Season: "summer", Query: "egg", Tag: "quick", Sort: "popular", Page: 1, Limit: 100}
	recipes.On("ListRecipes", mock.Anything, want).Return([]models.Recipe{}, int64(0), nil).Once()

	router, group := newEngine(false)
	api.NewRecipeHandler(recipes, new(mocks.MockInteractionService), new(mocks.MockAuthService)).RegisterRoutes(group)

	rr := serve(t, router, http.MethodGet, "/api/recipes?season=summer&q=egg&tag=quick&sort=popular&page=0&limit=500", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	recipes.AssertExpectations(t)

	var page recipeList
	decode(t, rr, &page)
	assert.NotNil(t, page.Recipes)
	assert.Zero(t, page.Pagination.TotalPages)
}

func TestCreateRecipePassesAuthenticatedAuthor(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "chef", Level: "novice"}
	auth := new(mocks.MockAuthService)
	auth.ExpectUser("token", user)

	recipes := new(mocks.MockRecipeService)
	recipes.On("CreateRecipe", mock.Anything, user, mock.MatchedBy(func(req *types.CreateRecipeRequest) bool {
		return req.Title == "Toast"
	})).Return(&models.Recipe{ID: uuid.New(), Title: "Toast", Author: user.Snapshot()}, nil).Once()

	router, group := newEngine(false)
	api.NewRecipeHandler(recipes, new(mocks.MockInteractionService), auth).RegisterRoutes(group)

	rr := serve(t, router, http.MethodPost, "/api/recipes", "token", map[string]string{"title": "Toast"})
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	recipes.AssertExpectations(t)
}
