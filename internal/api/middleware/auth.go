package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextUserID = "userID"
	ContextClaims = "claims"
)

// RequireAuth extracts the session token from the auth cookie (or a Bearer
// header) and verifies it. A missing token and an invalid token collapse to
// the same 401; the client never learns which check failed.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromCookieHeader(c.GetHeader("Cookie"))
		if token == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if token == "" {
			abortUnauthorized(c)
			return
		}

		claims, ok := tokens.Verify(token)
		if !ok {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. The role is re-read from the
// users table rather than taken from the token claim, so a role change after
// issuance takes effect immediately. The loaded user is stored in context for
// the handler.
func RequireRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			abortUnauthorized(c)
			return
		}

		var user models.User
		if err := db.First(&user, userID.(uint)).Error; err != nil {
			abortUnauthorized(c)
			return
		}
		if !user.IsActive {
			abortUnauthorized(c)
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden",
			})
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireRole, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("currentUser"); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Unauthorized",
	})
}
