package middleware

import (
	"strings" // String manipulation

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/service"     // Access guard

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookie is the cookie login sets and logout clears
const SessionCookie = "session"

// SessionToken extracts the session credential from the Authorization header or the session cookie
func SessionToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionMiddleware validates the session and stores the caller in the context
func SessionMiddleware(guard *service.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := guard.RequireAuthenticated(c.Request.Context(), SessionToken(c))
		if err != nil {
			respond.Abort(c, err) // Missing, invalid, expired or revoked session
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("email", claims.Email)   // Store session email in context
		c.Set("claims", claims)        // Store claims for logout
		c.Next()                       // Proceed to the next handler
	}
}
