package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"weightloss_backend/internal/domain" // Importing domain models
	"weightloss_backend/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// unauthorized aborts the request with a uniform 401 and a Bearer challenge.
// The same response is used for every failure mode so a client cannot tell
// which check rejected the token.
func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// JWTAuthMiddleware validates the bearer token and resolves the current user
func JWTAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		username, err := utils.ParseJWT(tokenStr, secret)     // Parse the JWT token
		if err != nil {
			// Bad signature, malformed or expired token
			unauthorized(c)
			return
		}
		var user domain.User // Resolve the subject to an active user
		if err := db.Where("username = ? AND is_active = ?", username, true).First(&user).Error; err != nil {
			unauthorized(c)
			return
		}
		c.Set("currentUser", user) // Store the resolved user in context
		c.Next()                   // Proceed to the next handler
	}
}

// CurrentUser returns the user resolved by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get("currentUser") // Get resolved user from context
	if !exists {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
