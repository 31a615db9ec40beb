package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/domain"      // Importing domain models
	"storefront/internal/service"     // Cart store and identity resolver

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// AddToCartRequest represents one add-to-cart call
type AddToCartRequest struct {
	Name     string          `json:"name" binding:"required"` // Item name, the cart key
	Price    decimal.Decimal `json:"price"`                   // Unit price
	Image    string          `json:"image"`                   // Image URL
	Quantity int             `json:"quantity"`                // Defaults to 1
}

// CartResponse is the cart contents with its total
type CartResponse struct {
	Items []domain.CartItem `json:"items"` // Cart rows
	Total decimal.Decimal   `json:"total"` // Sum of price times quantity
}

// callerID resolves the session email to the user id, writing the error response on failure
func callerID(c *gin.Context, identity *service.IdentityResolver) (uint, bool) {
	userID, err := identity.Resolve(c.Request.Context(), c.GetString("email"))
	if err != nil {
		respond.Error(c, err)
		return 0, false
	}
	return userID, true
}

// AddToCartHandler adds an item or increases the quantity of an existing one
func AddToCartHandler(identity *service.IdentityResolver, cart *service.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "Invalid request")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1 // Default quantity
		}
		if err := cart.AddItem(c.Request.Context(), userID, req.Name, req.Price, req.Image, req.Quantity); err != nil {
			respond.Error(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "item": req.Name, "quantity": req.Quantity}).Info("Cart item added")
		writeCart(c, cart, userID, http.StatusOK)
	}
}

// DecrementCartHandler removes one unit of an item, dropping the row at zero
func DecrementCartHandler(identity *service.IdentityResolver, cart *service.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		if err := cart.RemoveOne(c.Request.Context(), userID, c.Param("name")); err != nil {
			respond.Error(c, err)
			return
		}
		writeCart(c, cart, userID, http.StatusOK)
	}
}

// RemoveFromCartHandler removes an item regardless of quantity
func RemoveFromCartHandler(identity *service.IdentityResolver, cart *service.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		if err := cart.RemoveAll(c.Request.Context(), userID, c.Param("name")); err != nil {
			respond.Error(c, err)
			return
		}
		writeCart(c, cart, userID, http.StatusOK)
	}
}

// GetCartHandler returns the caller's cart
func GetCartHandler(identity *service.IdentityResolver, cart *service.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c, identity)
		if !ok {
			return
		}
		writeCart(c, cart, userID, http.StatusOK)
	}
}

func writeCart(c *gin.Context, cart *service.CartStore, userID uint, status int) {
	items, err := cart.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(status, CartResponse{Items: items, Total: total})
}
