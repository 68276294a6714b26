package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhanma666/evil-cook-project/internal/middleware"
	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/service"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

// AuthHandler serves registration, login and logout. The session token is
// delivered as an HTTP-only cookie.
type AuthHandler struct {
	authService  service.IAuthService
	secureCookie bool
}

func NewAuthHandler(authService service.IAuthService, secureCookie bool) *AuthHandler {
	RegisterValidators()
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// RegisterRoutes mounts the handlers under /users. limit, when given, guards
// register and login.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limit ...gin.HandlerFunc) {
	users := router.Group("/users")
	limited := users.Group("", limit...)
	{
		limited.POST("/register", h.Register)
		limited.POST("/login", h.Login)
		users.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token, h.authService.TokenTTL())
	c.JSON(http.StatusCreated, types.Success(userResponse(user)))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setTokenCookie(c, token, h.authService.TokenTTL())
	c.JSON(http.StatusOK, types.Success(userResponse(user)))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -time.Second)
	c.JSON(http.StatusOK, types.SuccessMessage("logged out"))
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Level:    user.Level,
	}
}
