package db

import (
	"fmt"  // Error wrapping
	"time" // Pool lifetimes

	"storefront/internal/config" // Application configuration

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // Postgres driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM query logging
)

// Dialector picks the GORM dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "", "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open acquires the shared connection pool. Release it with Close on shutdown.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return OpenWith(dialector)
}

// OpenWith opens a pool over an explicit dialector
func OpenWith(dialector gorm.Dialector) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true, Logger: NewLogger(logrus.StandardLogger())})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)                  // Upper bound on concurrent statements
	sqlDB.SetMaxIdleConns(5)                   // Idle connections kept warm
	sqlDB.SetConnMaxLifetime(30 * time.Minute) // Recycle long lived connections
	return gdb, nil
}

// NewLogger sends slow queries and real errors to w. Lookups that find nothing are expected and stay quiet.
func NewLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
		LogLevel:                  logger.Warn,            // Slow queries and errors only
		IgnoreRecordNotFoundError: true,                   // First() misses are normal control flow
	})
}

// Close releases the pool
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
