package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/model"
)

// AdminOnly rejects callers whose token does not carry the admin role. It must
// run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(UserRoleKey)
		if !exists || role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
