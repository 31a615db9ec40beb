package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Shutdown timeout

	"storefront/internal/api"     // Custom package for API handlers
	"storefront/internal/config"  // Custom package for configuration
	"storefront/internal/db"      // Database connection
	"storefront/internal/events"  // Order event publishing
	"storefront/internal/gateway" // Payment gateway client
	"storefront/internal/metrics" // Prometheus collectors
	"storefront/internal/service" // Domain services

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.JWTSecret == "" || cfg.RazorpayKeySecret == "" {
		logrus.Fatal("JWT_SECRET and RAZORPAY_KEY_SECRET must be set")
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logrus.Errorf("failed to close DB: %v", err)
		}
	}()

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Order events go to Kafka when brokers are configured
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logrus.WithFields(logrus.Fields{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic}).Info("Publishing order events")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logrus.Errorf("failed to close event publisher: %v", err)
		}
	}()

	m := metrics.New()
	gw := gateway.New(gateway.Config{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.PaymentTimeout,
		Retries:   cfg.PaymentRetries,
	})

	identity := service.NewIdentityResolver(gdb)
	cart := service.NewCartStore(gdb)
	payments := service.NewPaymentSession(cart, gw, cfg.RazorpayKeySecret, cfg.PaymentCurrency, m)
	ledger := service.NewOrderLedger(gdb, service.LedgerDeps{
		Identity:  identity,
		Cache:     redisClient,
		CacheTTL:  cfg.OrderCacheTTL,
		Publisher: publisher,
		Metrics:   m,
	})
	guard := service.NewAccessGuard(identity, cfg.JWTSecret, redisClient)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		DB:       gdb,
		Redis:    redisClient,
		Identity: identity,
		Cart:     cart,
		Payments: payments,
		Ledger:   ledger,
		Guard:    guard,
		Metrics:  m,
		Session: api.SessionSettings{
			JWTSecret:    cfg.JWTSecret,
			TTL:          cfg.SessionTTL,
			SecureCookie: cfg.IsProd,
		},
		CORSOrigins: cfg.CORSOrigins,
		LogRequests: true,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}
