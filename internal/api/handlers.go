package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/database"
)

const healthTimeout = 2 * time.Second

// Root answers GET /
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Evil Cook Kitchen API"})
}

// HealthCheck reports whether the database answers a ping
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
				"time":     time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "ok",
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
