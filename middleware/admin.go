package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const roleHeader = "X-User-Role"

// AdminOnly restricts access to requests carrying the admin role header
// injected by the API gateway.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(roleHeader) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}
