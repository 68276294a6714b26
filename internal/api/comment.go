package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

type CommentHandler struct {
	commentService service.ICommentService
	auth           middleware.Authenticator
}

func NewCommentHandler(commentService service.ICommentService, auth middleware.Authenticator) *CommentHandler {
	return &CommentHandler{commentService: commentService, auth: auth}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id/comments", h.ListComments)
		recipes.POST("/:id/comments", middleware.AuthMiddleware(h.auth), h.AddComment)
	}
}

// ListComments returns the flat comment list; clients nest replies by parentId
func (h *CommentHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(comments))
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	var req types.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), user, id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(comment))
}
