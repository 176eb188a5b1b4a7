package middleware

import (
	"net/http"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after JWTAuth.
func RequireRole(required domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}
		if r, _ := role.(string); r != string(required) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
