package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// InteractionHandler serves likes, collects and ratings
type InteractionHandler struct {
	interactionService service.IInteractionService
	auth               middleware.Authenticator
}

func NewInteractionHandler(interactionService service.IInteractionService, auth middleware.Authenticator) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService, auth: auth}
}

func (h *InteractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.auth))
	{
		recipes.POST("/:id/like", h.ToggleLike)
		recipes.POST("/:id/collect", h.ToggleCollect)
		recipes.POST("/:id/rate", h.Rate)
		recipes.POST("/:id/comments/:commentId/like", h.ToggleCommentLike)
	}
}

func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	res, err := h.interactionService.ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse(res, "liked", "un-liked"))
}

func (h *InteractionHandler) ToggleCollect(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	res, err := h.interactionService.ToggleCollect(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse(res, "collected", "un-collected"))
}

func (h *InteractionHandler) ToggleCommentLike(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId", "comment")
	if !ok {
		return
	}

	res, err := h.interactionService.ToggleCommentLike(c.Request.Context(), userID, id, commentID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse(res, "liked", "un-liked"))
}

func (h *InteractionHandler) Rate(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	var req types.RateRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.interactionService.Rate(c.Request.Context(), userID, id, req.Rating)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(res))
}

func (h *InteractionHandler) target(c *gin.Context) (userID, recipeID uuid.UUID, ok bool) {
	user, ok := currentUser(c)
	if !ok {
		return userID, recipeID, false
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return userID, recipeID, false
	}
	return user.ID, id, true
}

func toggleResponse(res *types.ToggleResult, on, off string) types.APIResponse {
	message := off
	if res.Active {
		message = on
	}
	return types.APIResponse{Success: true, Message: message, Data: res}
}
