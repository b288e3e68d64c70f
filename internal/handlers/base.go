package handlers

import (
	"pulse/internal/middleware"
	"pulse/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the session user set by middleware.LoadUser, or nil
// for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(middleware.CheckUserKey); exists {
		return v.(*models.User)
	}
	return nil
}

// jsonError writes a stable error payload. Internal store error text must
// never end up here.
func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
