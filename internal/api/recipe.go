package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

type RecipeHandler struct {
	recipeService      service.IRecipeService
	interactionService service.IInteractionService
	auth               middleware.Authenticator
}

func NewRecipeHandler(recipeService service.IRecipeService, interactionService service.IInteractionService, auth middleware.Authenticator) *RecipeHandler {
	RegisterValidators()
	return &RecipeHandler{
		recipeService:      recipeService,
		interactionService: interactionService,
		auth:               auth,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuth(h.auth), h.GetRecipe)
		recipes.POST("", requireAuth, h.CreateRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q := listQuery(c)
	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipePage(recipes, total, q))
}

// GetRecipe returns the recipe; signed-in callers also get their own
// like, collect and rating state.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	detail := RecipeDetail{Recipe: recipe}
	if userID, ok := middleware.GetUserID(c); ok {
		viewer, err := h.interactionService.ViewerState(c.Request.Context(), userID, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		detail.Viewer = viewer
	}

	c.JSON(http.StatusOK, types.Success(detail))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), user, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, user.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, user.ID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessMessage("recipe deleted"))
}
