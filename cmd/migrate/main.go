package main

import (
	"context" // Admin promotion

	"storefront/internal/config"  // Custom import path (Config)
	"storefront/internal/db"      // Custom import path (Database)
	"storefront/internal/service" // Admin promotion

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// Promote the users listed in ADMIN_EMAILS
	if len(cfg.AdminEmails) > 0 {
		n, err := service.NewIdentityResolver(gdb).PromoteAdmins(context.Background(), cfg.AdminEmails)
		if err != nil {
			logrus.Fatalf("admin promotion failed: %v", err)
		}
		logrus.WithFields(logrus.Fields{"promoted": n}).Info("Admin users updated")
	}
}
