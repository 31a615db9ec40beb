package api

import (
	"net/http" // HTTP status codes
	"strings"  // Header trimming

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/domain"      // Importing domain models
	"storefront/internal/service"     // Order ledger and payment session

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// PaymentProof is the gateway callback attached to a paid order
type PaymentProof struct {
	OrderID   string `json:"order_id" binding:"required"`   // Gateway order id
	PaymentID string `json:"payment_id" binding:"required"` // Gateway payment id
	Signature string `json:"signature" binding:"required"`  // Hex HMAC-SHA256
}

// PlaceOrderRequest places an order from the caller's cart. Without payment it is a manual order.
type PlaceOrderRequest struct {
	Address domain.Address `json:"address" binding:"required"` // Shipping address
	Payment *PaymentProof  `json:"payment"`                    // Verified gateway payment, optional
}

// PlaceOrderHandler turns the caller's cart into an order
func PlaceOrderHandler(identity *service.IdentityResolver, payments *service.PaymentSession, ledger *service.OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		var req PlaceOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "Shipping address requires street, city, state and zip")
			return
		}
		outcome := service.Manual()
		if req.Payment != nil {
			// The signature is checked here, the ledger trusts a Paid outcome
			if !payments.VerifySignature(req.Payment.OrderID, req.Payment.PaymentID, req.Payment.Signature) {
				logrus.WithFields(logrus.Fields{"user_id": userID, "order_id": req.Payment.OrderID}).Warn("Order rejected, bad payment signature")
				respond.Invalid(c, "Invalid payment signature")
				return
			}
			outcome = service.Paid(req.Payment.OrderID, req.Payment.PaymentID)
		}
		placed, err := ledger.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
			UserID:         userID,
			Address:        req.Address,
			Outcome:        outcome,
			IdempotencyKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		status := http.StatusCreated
		if placed.Replayed {
			status = http.StatusOK // Same order as an earlier request
		}
		c.JSON(status, placed)
	}
}

// ListOrdersHandler returns the caller's orders, newest first, with tracking history
func ListOrdersHandler(identity *service.IdentityResolver, ledger *service.OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		orders, err := ledger.ListOrders(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if orders == nil {
			orders = []service.OrderView{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
