package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Error(c, apperror.ErrMissingToken)
			return
		}

		tokenString := handler.BearerToken(c)
		if tokenString == "" {
			response.Error(c, apperror.ErrInvalidToken)
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken)
			return
		}

		perms := claims.Permissions
		if perms == nil {
			perms = []string{}
		}
		c.Set(handler.UserIDKey, claims.UserID)
		c.Set(handler.UsernameKey, claims.Username)
		c.Set(handler.UserPermissionsKey, perms)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range handler.GetUserPermissions(c) {
			if p == permission {
				c.Next()
				return
			}
		}
		response.Error(c, apperror.ErrForbidden)
	}
}

// Deprecated marks every response of a route as deprecated
func Deprecated() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Deprecation", "true")
		c.Next()
	}
}
