package db

import (
	"storefront/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table owned by the storefront
func Models() []any {
	return []any{&domain.User{}, &domain.CartItem{}, &domain.GatewayIntent{}, &domain.Order{}, &domain.TrackingEvent{}}
}

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing constraints, columns and indexes
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
