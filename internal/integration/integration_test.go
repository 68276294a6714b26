// Package integration runs the HTTP API against a real Postgres container.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/config"
	"github.com/zhanma666/evil-cook-project/internal/api"
	"github.com/zhanma666/evil-cook-project/internal/logging"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/router"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/testdb"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

type PostgresSuite struct {
	suite.Suite
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
}

func TestPostgres(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.db = testdb.NewPostgres(s.T())

	cfg := &config.Config{
		Environment:      config.Test,
		FrontendURL:      "http://localhost:3000",
		JWTSecret:        "integration-secret-with-enough-bytes",
		TokenTTL:         time.Hour,
		RateLimitWindow:  time.Minute,
		RateLimitMax:     10000,
		AuthRateLimitMax: 10000,
	}
	s.auth = service.NewAuthService(s.db, cfg.JWTSecret, cfg.TokenTTL)
	s.router = router.SetupRouter(cfg, s.db, logging.Discard(), api.Services{
		Auth:        s.auth,
		Users:       service.NewUserService(s.db),
		Recipes:     service.NewRecipeService(s.db),
		Interaction: service.NewInteractionService(s.db),
		Comments:    service.NewCommentService(s.db),
	}, nil)
}

func (s *PostgresSuite) SetupTest() {
	all := s.db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []interface{}{&models.Rating{}, &models.Collect{}, &models.Like{}, &models.Comment{}, &models.Recipe{}, &models.User{}} {
		s.Require().NoError(all.Delete(m).Error)
	}
}

func (s *PostgresSuite) user(name string) string {
	_, token, err := s.auth.Register(context.Background(), name, name+"@example.com", "secret123")
	s.Require().NoError(err)
	return token
}

func (s *PostgresSuite) call(method, path, token string, body any, data any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	if data != nil {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
		s.Require().NoError(json.Unmarshal(env.Data, data), rr.Body.String())
	}
	return rr.Code
}

func (s *PostgresSuite) createRecipe(token, title string, tags ...string) models.Recipe {
	var recipe models.Recipe
	code := s.call(http.MethodPost, "/api/recipes", token, map[string]any{"title": title, "tags": tags}, &recipe)
	s.Require().Equal(http.StatusCreated, code)
	return recipe
}

func (s *PostgresSuite) TestConcurrentLikesMatchLikeRows() {
	author := s.user("author")
	recipe := s.createRecipe(author, "Kettle noodles")
	path := "/api/recipes/" + recipe.ID.String() + "/like"

	const users = 8
	tokens := make([]string, users)
	for i := range tokens {
		tokens[i] = s.user(fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	for _, token := range tokens {
		for j := 0; j < 3; j++ {
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				s.call(http.MethodPost, path, token, nil, nil)
			}(token)
		}
	}
	wg.Wait()

	var stored models.Recipe
	s.Require().NoError(s.db.First(&stored, "id = ?", recipe.ID).Error)
	var likes int64
	s.Require().NoError(s.db.Model(&models.Like{}).Where("recipe_id = ?", recipe.ID).Count(&likes).Error)
	s.Equal(likes, stored.Likes)
	s.LessOrEqual(stored.Likes, int64(users))
}

func (s *PostgresSuite) TestRatingAverages() {
	author := s.user("author")
	recipe := s.createRecipe(author, "Toaster grilled cheese")
	path := "/api/recipes/" + recipe.ID.String() + "/rate"

	var res types.RateResult
	s.Equal(http.StatusOK, s.call(http.MethodPost, path, s.user("a"), map[string]int{"rating": 5}, &res))
	b := s.user("b")
	s.Equal(http.StatusOK, s.call(http.MethodPost, path, b, map[string]int{"rating": 4}, &res))
	s.InDelta(4.5, res.Rating, 1e-9)
	s.Equal(2, res.RatingCount)

	s.Equal(http.StatusOK, s.call(http.MethodPost, path, b, map[string]int{"rating": 1}, &res))
	s.InDelta(3.0, res.Rating, 1e-9)
	s.Equal(2, res.RatingCount)
}

func (s *PostgresSuite) TestListingFilters() {
	token := s.user("author")
	s.createRecipe(token, "Dorm room ramen", "quick", "noodles")
	s.createRecipe(token, "Iron steamed dumplings", "dumplings")
	s.createRecipe(token, "Quick pan pizza", "quick")

	var page struct {
		Recipes    []models.Recipe  `json:"recipes"`
		Pagination types.Pagination `json:"pagination"`
	}
	s.Equal(http.StatusOK, s.call(http.MethodGet, "/api/recipes?tag=quick", "", nil, &page))
	s.Len(page.Recipes, 2)
	s.Equal(int64(2), page.Pagination.TotalCount)

	s.Equal(http.StatusOK, s.call(http.MethodGet, "/api/recipes?q=DUMPLING", "", nil, &page))
	s.Require().Len(page.Recipes, 1)
	s.Equal("Iron steamed dumplings", page.Recipes[0].Title)

	s.Equal(http.StatusOK, s.call(http.MethodGet, "/api/recipes?q=auth&limit=2&page=2", "", nil, &page))
	s.Len(page.Recipes, 1)
	s.Equal(2, page.Pagination.TotalPages)
	s.False(page.Pagination.HasNext)
	s.True(page.Pagination.HasPrev)
}

func (s *PostgresSuite) TestCollectedListingAndDeleteCascade() {
	author := s.user("author")
	fan := s.user("fan")
	recipe := s.createRecipe(author, "Waffle iron hash browns")

	s.Equal(http.StatusOK, s.call(http.MethodPost, "/api/recipes/"+recipe.ID.String()+"/collect", fan, nil, nil))
	s.Equal(http.StatusCreated, s.call(http.MethodPost, "/api/recipes/"+recipe.ID.String()+"/comments", fan, map[string]string{"content": "crispy!"}, nil))

	var page struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	s.Equal(http.StatusOK, s.call(http.MethodGet, "/api/users/me/collects", fan, nil, &page))
	s.Require().Len(page.Recipes, 1)
	s.Equal(int64(1), page.Recipes[0].Collects)

	s.Equal(http.StatusOK, s.call(http.MethodDelete, "/api/recipes/"+recipe.ID.String(), author, nil, nil))

	var comments, collects int64
	s.Require().NoError(s.db.Model(&models.Comment{}).Where("recipe_id = ?", recipe.ID).Count(&comments).Error)
	s.Require().NoError(s.db.Model(&models.Collect{}).Where("recipe_id = ?", recipe.ID).Count(&collects).Error)
	s.Zero(comments)
	s.Zero(collects)
}

func (s *PostgresSuite) TestSearchMatchesWildcardsLiterally() {
	token := s.user("author")
	s.createRecipe(token, "Steamed egg")
	s.createRecipe(token, "100% cocoa mug cake")

	var page struct {
		Recipes    []models.Recipe  `json:"recipes"`
		Pagination types.Pagination `json:"pagination"`
	}
	tests := []struct {
		query string
		want  int64
	}{
		{"%25", 1},
		{"_", 0},
		{"%5C", 0},
		{"0%25%20co", 1},
	}
	for _, tt := range tests {
		s.Equal(http.StatusOK, s.call(http.MethodGet, "/api/recipes?q="+tt.query, "", nil, &page), tt.query)
		s.Equal(tt.want, page.Pagination.TotalCount, tt.query)
	}
}

func (s *PostgresSuite) TestTogglesRacingDeleteLeaveNoOrphans() {
	author := s.user("author")
	recipe := s.createRecipe(author, "Rice cooker cake")
	base := "/api/recipes/" + recipe.ID.String()

	const users = 8
	tokens := make([]string, users)
	for i := range tokens {
		tokens[i] = s.user(fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	for _, token := range tokens {
		for _, action := range []string{"/like", "/collect"} {
			wg.Add(1)
			go func(token, path string) {
				defer wg.Done()
				code := s.call(http.MethodPost, path, token, nil, nil)
				s.Contains([]int{http.StatusOK, http.StatusNotFound}, code)
			}(token, base+action)
		}
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Equal(http.StatusOK, s.call(http.MethodDelete, base, author, nil, nil))
	}()
	wg.Wait()

	var likes, collects int64
	s.Require().NoError(s.db.Model(&models.Like{}).Where("recipe_id = ?", recipe.ID).Count(&likes).Error)
	s.Require().NoError(s.db.Model(&models.Collect{}).Where("recipe_id = ?", recipe.ID).Count(&collects).Error)
	s.Zero(likes)
	s.Zero(collects)
}

func TestCheckConstraintsHold(t *testing.T) {
	db := testdb.NewPostgres(t)

	user := models.User{Username: "u", Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	recipe := models.Recipe{Title: "t", Author: user.Snapshot()}
	require.NoError(t, db.Create(&recipe).Error)

	err := db.Model(&recipe).UpdateColumn("likes", -1).Error
	assert.Error(t, err)
	err = db.Model(&recipe).UpdateColumn("rating", 5.5).Error
	assert.Error(t, err)
}
