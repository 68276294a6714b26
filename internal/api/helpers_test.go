package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/api"
	"github.com/zhanma666/evil-cook-project/internal/logging"
	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/testdb"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

const testSecret = "api-test-secret-with-enough-bytes!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newEngine(production bool) (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	router.Use(middleware.ErrorHandler(logging.Discard(), production))
	router.GET("/", api.Root)
	return router, router.Group("/api")
}

// newTestAPI wires the real services over a fresh sqlite database
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testdb.NewSQLite(t)
	authSvc := service.NewAuthService(db, testSecret, time.Hour)

	router, group := newEngine(false)
	router.GET("/health", api.HealthCheck(db))
	api.SetupAPI(group, api.Services{
		Auth:        authSvc,
		Users:       service.NewUserService(db),
		Recipes:     service.NewRecipeService(db),
		Interaction: service.NewInteractionService(db),
		Comments:    service.NewCommentService(db),
	}, false)

	return &testAPI{router: router, db: db, auth: authSvc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, a.router, method, path, token, body)
}

func serve(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// signUp registers a user through the service and returns it with a token
func (a *testAPI) signUp(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user, token, err := a.auth.Register(context.Background(), username, username+"@example.com", "secret123")
	require.NoError(t, err)
	return user, token
}

// envelope decodes the standard response, leaving data raw for the caller
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type recipeList struct {
	Recipes    []models.Recipe  `json:"recipes"`
	Pagination types.Pagination `json:"pagination"`
}
