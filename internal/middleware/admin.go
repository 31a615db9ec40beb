package middleware

import (
	"storefront/internal/api/respond" // Error responses
	"storefront/internal/domain"      // Error kinds
	"storefront/internal/service"     // Access guard

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the admin flag from the database on each request
func AdminOnlyMiddleware(guard *service.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email") // Get session email from context
		if email == "" {
			respond.Abort(c, domain.NewError(domain.KindUnauthorized, "Unauthorized"))
			return
		}
		adminID, err := guard.RequireAdmin(c.Request.Context(), email)
		if err != nil {
			respond.Abort(c, err) // Not an admin, or the lookup failed
			return
		}
		c.Set("adminID", adminID) // Store the resolved admin id
		c.Next()
	}
}
