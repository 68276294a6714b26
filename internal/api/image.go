package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// ImageHandler attaches image URLs to recipes and users, and hands out
// presigned upload URLs when object storage is configured.
type ImageHandler struct {
	recipeService  service.IRecipeService
	userService    service.IUserService
	storageService service.IStorageService
	auth           middleware.Authenticator
}

// NewImageHandler creates a new image handler. storageService may be nil,
// in which case the presign endpoint is not registered.
func NewImageHandler(recipeService service.IRecipeService, userService service.IUserService, storageService service.IStorageService, auth middleware.Authenticator) *ImageHandler {
	return &ImageHandler{
		recipeService:  recipeService,
		userService:    userService,
		storageService: storageService,
		auth:           auth,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	recipes.Use(requireAuth)
	{
		recipes.POST("/avatar", h.UploadAvatar)
		recipes.POST("/:id/cover", h.UploadCover)
		recipes.POST("/:id/step-image", h.UploadStepImage)
	}

	router.POST("/users/avatar", requireAuth, h.UploadAvatar)

	if h.storageService != nil {
		router.POST("/uploads/presign", requireAuth, h.PresignUpload)
	}
}

func (h *ImageHandler) UploadCover(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	var req types.ImageRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.recipeService.SetCoverImage(c.Request.Context(), id, user.ID, req.ImageURL); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "cover image updated",
		Data:    ImageResponse{ImageURL: req.ImageURL},
	})
}

func (h *ImageHandler) UploadStepImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "recipe")
	if !ok {
		return
	}

	var req types.StepImageRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.recipeService.SetStepImage(c.Request.Context(), id, user.ID, *req.StepIndex, req.ImageURL); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "step image updated",
		Data:    ImageResponse{ImageURL: req.ImageURL, StepIndex: req.StepIndex},
	})
}

func (h *ImageHandler) UploadAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ImageRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.userService.UpdateAvatar(c.Request.Context(), user.ID, req.ImageURL); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "avatar updated",
		Data:    ImageResponse{ImageURL: req.ImageURL},
	})
}

func (h *ImageHandler) PresignUpload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.PresignRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.storageService.PresignImageUpload(c.Request.Context(), user.ID, req.Purpose, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(res))
}
