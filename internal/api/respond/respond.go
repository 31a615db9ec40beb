// Package respond writes error bodies for domain failures.
package respond

import (
	"net/http" // HTTP status codes

	"storefront/internal/domain" // Error kinds

	"github.com/gin-gonic/gin" // Gin web framework
)

// Status maps an error kind to its HTTP status
func Status(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateEmail:
		return http.StatusConflict
	case domain.KindInvalidCredential, domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindEmptyCart:
		return http.StatusUnprocessableEntity
	case domain.KindGatewayFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes {"error": message, "kind": kind} with the matching status
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	c.JSON(Status(kind), gin.H{"error": domain.MessageOf(err), "kind": kind})
}

// Abort is Error for middleware, stopping the handler chain
func Abort(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	c.AbortWithStatusJSON(Status(kind), gin.H{"error": domain.MessageOf(err), "kind": kind})
}

// Invalid writes an invalid input error
func Invalid(c *gin.Context, message string) {
	Error(c, domain.NewError(domain.KindInvalidInput, message))
}
