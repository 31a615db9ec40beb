package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS max age

	"storefront/internal/metrics"    // Prometheus collectors
	"storefront/internal/middleware" // Session and admin middleware
	"storefront/internal/service"    // Domain services

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are everything the HTTP surface needs
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Identity    *service.IdentityResolver
	Cart        *service.CartStore
	Payments    *service.PaymentSession
	Ledger      *service.OrderLedger
	Guard       *service.AccessGuard
	Metrics     *metrics.Metrics
	Session     SessionSettings
	CORSOrigins []string // Allowed browser origins, empty allows none cross-origin
	LogRequests bool     // Log every request through logrus
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.LogRequests {
		r.Use(middleware.RequestLogger())
	}
	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			AllowCredentials: true, // Session cookie
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", HealthHandler(d.DB, d.Redis))

	// Auth routes
	r.POST("/register", RegisterHandler(d.Identity))      // Registration endpoint
	r.POST("/login", LoginHandler(d.Identity, d.Session)) // Login endpoint

	// Everything below needs a session
	authed := r.Group("")
	authed.Use(middleware.SessionMiddleware(d.Guard))
	authed.POST("/logout", LogoutHandler(d.Redis, d.Session))

	cartGroup := authed.Group("/cart")
	cartGroup.GET("", GetCartHandler(d.Identity, d.Cart))                              // Cart contents
	cartGroup.POST("", AddToCartHandler(d.Identity, d.Cart))                           // Add or merge an item
	cartGroup.POST("/:name/decrement", DecrementCartHandler(d.Identity, d.Cart))       // Remove one unit
	cartGroup.DELETE("/:name", RemoveFromCartHandler(d.Identity, d.Cart))              // Remove an item
	authed.POST("/payment/intent", CreatePaymentIntentHandler(d.Identity, d.Payments)) // Open a gateway order
	authed.POST("/payment/verify", VerifyPaymentHandler(d.Payments))                   // Check a signature
	authed.POST("/orders", PlaceOrderHandler(d.Identity, d.Payments, d.Ledger))        // Place an order
	authed.GET("/orders", ListOrdersHandler(d.Identity, d.Ledger))                     // Order history

	// Admin routes (session plus admin flag)
	adminGroup := authed.Group("/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(d.Guard))
	adminGroup.GET("/orders", ListAllOrdersHandler(d.Ledger))                      // All orders
	adminGroup.PATCH("/orders/:orderId/tracking", UpdateTrackingHandler(d.Ledger)) // Tracking update

	return r
}

// HealthHandler reports whether the database and redis are reachable
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := gin.H{"database": "ok", "redis": "ok"}
		healthy := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "unreachable"
			healthy = false
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = "unreachable"
				healthy = false
			}
		} else {
			status["redis"] = "disabled"
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
