package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zhanma666/evil-cook-project/internal/models"
	"github.com/zhanma666/evil-cook-project/internal/types"
)

const (
	// TokenCookie is the session cookie set by register and login
	TokenCookie = "token"

	ContextUserID = "user_id"
	ContextUser   = "user"
)

// Authenticator validates tokens and resolves the user they were issued to
type Authenticator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid token for an existing user.
// The token is read from the Authorization header first, then the cookie.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, auth)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through either way.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := authenticate(c, auth); err == nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUser returns the authenticated user as loaded by the middleware
func GetUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func authenticate(c *gin.Context, auth Authenticator) (*models.User, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := auth.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return nil, types.NewAuthError("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", types.NewAuthError("invalid authorization header format")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", types.NewAuthError("authentication required")
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	if appErr, ok := types.AsAppError(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, types.Failure(message))
}
