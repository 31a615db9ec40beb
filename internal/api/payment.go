package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/service"     // Payment session

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// VerifyPaymentRequest carries the gateway's checkout callback values
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`   // Gateway order id
	PaymentID string `json:"payment_id" binding:"required"` // Gateway payment id
	Signature string `json:"signature" binding:"required"`  // Hex HMAC-SHA256
}

// CreatePaymentIntentHandler opens a gateway order for the caller's cart total
func CreatePaymentIntentHandler(identity *service.IdentityResolver, payments *service.PaymentSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		intent, err := payments.CreateIntent(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err) // Empty cart or gateway failure
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

// VerifyPaymentHandler checks a gateway signature without changing any state
func VerifyPaymentHandler(payments *service.PaymentSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyPaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "order_id, payment_id and signature are required")
			return
		}
		if !payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
			logrus.WithFields(logrus.Fields{"order_id": req.OrderID}).Warn("Payment signature rejected")
			respond.Invalid(c, "Invalid payment signature")
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": true})
	}
}
