package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/service"     // Order ledger

	"github.com/gin-gonic/gin" // Gin web framework
)

// UpdateTrackingRequest sets the tracking status of an order
type UpdateTrackingRequest struct {
	Status string `json:"status" binding:"required"` // New tracking status
}

// UpdateTrackingHandler lets an admin move an order to a new tracking status
func UpdateTrackingHandler(ledger *service.OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.GetUint("adminID") // Set by AdminOnlyMiddleware
		var req UpdateTrackingRequest   // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "Status is required")
			return
		}
		event, err := ledger.UpdateTracking(c.Request.Context(), adminID, c.Param("orderId"), req.Status)
		if err != nil {
			respond.Error(c, err) // Permission, validation, unknown order or storage failure
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":        c.Param("orderId"), // Order reference
			"tracking_status": event.Status,       // Latest status
			"timestamp":       event.CreatedAt,    // When it was recorded
		})
	}
}

// ListAllOrdersHandler returns every order, paginated and optionally filtered by tracking status
func ListAllOrdersHandler(ledger *service.OrderLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.OrderFilter{TrackingStatus: c.Query("tracking_status")}
		if p, err := strconv.Atoi(c.Query("page")); err == nil {
			filter.Page = p // Ledger applies defaults and limits
		}
		if ps, err := strconv.Atoi(c.Query("page_size")); err == nil {
			filter.PageSize = ps
		}
		page, err := ledger.ListAllOrders(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
