// Package testutil builds throwaway databases and redis servers for package tests.
package testutil

import (
	"testing"

	"storefront/internal/db"
	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenWith(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// NewRedis starts a miniredis server and a client connected to it
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// CreateUser inserts a user with the given password
func CreateUser(t testing.TB, gdb *gorm.DB, email, password string, admin bool) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := domain.User{Name: "Test User", Mobile: "9999999999", Email: email, Password: string(hash), IsAdmin: admin}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
