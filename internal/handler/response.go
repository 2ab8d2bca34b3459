package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskmanager/internal/middleware"
)

// All endpoints answer with the same envelope so clients can branch on
// "status" alone.

func respondSuccess(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, gin.H{
		"status":  true,
		"data":    data,
		"message": message,
	})
}

func respondError(c *gin.Context, code int, messages ...string) {
	if len(messages) == 0 {
		messages = []string{"Internal Server Error"}
	}
	c.JSON(code, gin.H{
		"status":   false,
		"messages": messages,
	})
}

func respondInternal(c *gin.Context) {
	respondError(c, http.StatusInternalServerError)
}

// currentUser pulls the authenticated caller's id and role out of the request
// context populated by the JWT middleware.
func currentUser(c *gin.Context) (uuid.UUID, string, bool) {
	rawID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, "", false
	}
	userID, ok := rawID.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := c.Get(middleware.UserRoleKey)
	roleStr, _ := role.(string)
	return userID, roleStr, true
}
