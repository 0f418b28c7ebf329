package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil || claims.Type != string(utils.AccessToken) {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		role, ok := models.ParseRole(claims.Role)
		if !ok || claims.UserID == 0 {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, role)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.SendUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			utils.SendForbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller resolved by AuthMiddleware.
func GetPrincipal(c *gin.Context) (types.Principal, bool) {
	id := c.GetUint(userIDKey)
	v, exists := c.Get(userRoleKey)
	role, ok := v.(models.Role)
	if !exists || !ok || id == 0 {
		return types.Principal{}, false
	}
	return types.Principal{ID: id, Role: role}, true
}
