package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studentious/studentious/internal/auth"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyName   = "user_name"
	ContextKeyEmail  = "email"
)

// AuthMiddleware validates the Bearer token on every request in the group
// and stores the caller's identity in the gin context. Requests without a
// valid token are rejected with 401 before any handler runs.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID())
		c.Set(ContextKeyName, claims.Name)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

// GetUserID returns the authenticated caller's identity-provider id, or ""
// when the request did not pass through AuthMiddleware.
func GetUserID(c *gin.Context) string {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

func GetEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}
