package api

import (
	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/service"
)

// Services bundles what the handlers depend on. Storage is optional.
type Services struct {
	Auth        service.IAuthService
	Users       service.IUserService
	Recipes     service.IRecipeService
	Interaction service.IInteractionService
	Comments    service.ICommentService
	Storage     service.IStorageService
}

// SetupAPI registers every handler on router. authLimit guards register and
// login; secureCookie marks the session cookie Secure.
func SetupAPI(router *gin.RouterGroup, svc Services, secureCookie bool, authLimit ...gin.HandlerFunc) {
	NewAuthHandler(svc.Auth, secureCookie).RegisterRoutes(router, authLimit...)
	NewProfileHandler(svc.Users, svc.Recipes, svc.Auth).RegisterRoutes(router)
	NewRecipeHandler(svc.Recipes, svc.Interaction, svc.Auth).RegisterRoutes(router)
	NewInteractionHandler(svc.Interaction, svc.Auth).RegisterRoutes(router)
	NewCommentHandler(svc.Comments, svc.Auth).RegisterRoutes(router)
	NewImageHandler(svc.Recipes, svc.Users, svc.Storage, svc.Auth).RegisterRoutes(router)
}
