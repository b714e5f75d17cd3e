package middleware

import (
	"net/http"
	"strings"

	"omnisnt_backend/internal/auth"
	"omnisnt_backend/internal/logger"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Auth validates the bearer token and then re-loads the user record, so
// role and blocked state are always the current ones rather than whatever
// the token was minted with. A user deleted or blocked after login is
// rejected on their next request.
func Auth(tokens *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.FindByEmail(claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if user.Blocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			return
		}

		c.Set(currentUserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserEmail(c.Request.Context(), user.Email))
		c.Next()
	}
}

// Admin requires the freshly loaded user to carry the admin role.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentEmail returns the authenticated user's email, or "".
func CurrentEmail(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.Email
	}
	return ""
}
