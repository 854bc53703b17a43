package middleware

import (
	"net/http"
	"strings"

	"ventura-backend/models"
	"ventura-backend/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// JWTAuth validates the bearer token and stores the caller's identity
// and role on the request context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ContextRole); role != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Caller extracts the identity JWTAuth stored on the context.
func Caller(c *gin.Context) (uint, string) {
	userID, _ := c.Get(ContextUserID)
	role, _ := c.Get(ContextRole)
	id, _ := userID.(uint)
	r, _ := role.(string)
	return id, r
}
