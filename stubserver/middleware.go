package stubserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authRequired handles the authentication check
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		splitToken := strings.Split(authHeader, "Bearer ")
		if len(splitToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			c.Abort()
			return
		}

		claims, err := s.validateToken(splitToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// requireRole ensures the authenticated user holds the given role.
func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if current != role {
			c.JSON(http.StatusForbidden, gin.H{"error": role + " access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// userID returns the authenticated user id set by authRequired.
func userID(c *gin.Context) string {
	id, _ := c.Get("userID")
	str, _ := id.(string)
	return str
}
