package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// ProfileHandler serves the authenticated user's own profile and lists
type ProfileHandler struct {
	userService   service.IUserService
	recipeService service.IRecipeService
	auth          middleware.Authenticator
}

func NewProfileHandler(userService service.IUserService, recipeService service.IRecipeService, auth middleware.Authenticator) *ProfileHandler {
	return &ProfileHandler{
		userService:   userService,
		recipeService: recipeService,
		auth:          auth,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.AuthMiddleware(h.auth))
	{
		users.GET("/profile", h.GetProfile)
		users.GET("/me/collects", h.ListCollected)
		users.GET("/me/recipes", h.ListOwnRecipes)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.Success(types.ProfileResponse{
		ID:         profile.ID,
		Username:   profile.Username,
		Email:      profile.Email,
		Level:      profile.Level,
		Experience: profile.Experience,
		Avatar:     profile.Avatar,
	}))
}

func (h *ProfileHandler) ListCollected(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := listQuery(c)
	recipes, total, err := h.recipeService.ListCollected(c.Request.Context(), user.ID, q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipePage(recipes, total, q))
}

func (h *ProfileHandler) ListOwnRecipes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := listQuery(c)
	q.AuthorID = &user.ID
	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipePage(recipes, total, q))
}
