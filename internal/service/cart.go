package service

import (
	"context" // Request scoping
	"strings" // Input trimming
	"time"    // Timestamps

	"storefront/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Upsert clause
)

// removeOneAttempts bounds the retries when a concurrent writer moves a row between statements
const removeOneAttempts = 3

// CartStore keeps each user's cart rows, one per item name
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// AddItem inserts the item or adds quantity to the existing row for the same name.
// The stored price and image of an existing row are kept.
func (s *CartStore) AddItem(ctx context.Context, userID uint, name string, price decimal.Decimal, image string, quantity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewError(domain.KindInvalidInput, "Item name is required")
	}
	if quantity <= 0 {
		return domain.NewError(domain.KindInvalidInput, "Quantity must be positive")
	}
	if !price.IsPositive() {
		return domain.NewError(domain.KindInvalidInput, "Price must be positive")
	}
	now := time.Now()
	item := domain.CartItem{UserID: userID, Name: name, Price: price, Image: image, Quantity: quantity, CreatedAt: now, UpdatedAt: now}
	// One statement, so concurrent adds cannot lose an increment
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(&item).Error
	if err != nil {
		return domain.StorageError("Failed to add cart item", err)
	}
	return nil
}

// RemoveOne decrements the item, deleting the row when its quantity would reach zero
func (s *CartStore) RemoveOne(ctx context.Context, userID uint, name string) error {
	name = strings.TrimSpace(name) // Stored names are trimmed by AddItem
	db := s.db.WithContext(ctx)
	for attempt := 0; attempt < removeOneAttempts; attempt++ {
		res := db.Model(&domain.CartItem{}).
			Where("user_id = ? AND name = ? AND quantity > 1", userID, name).
			Updates(map[string]any{"quantity": gorm.Expr("quantity - 1"), "updated_at": time.Now()})
		if res.Error != nil {
			return domain.StorageError("Failed to update cart item", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		res = db.Where("user_id = ? AND name = ? AND quantity <= 1", userID, name).Delete(&domain.CartItem{})
		if res.Error != nil {
			return domain.StorageError("Failed to delete cart item", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// Neither matched: the row is gone, or an add raised it above one in between
		var count int64
		if err := db.Model(&domain.CartItem{}).Where("user_id = ? AND name = ?", userID, name).Count(&count).Error; err != nil {
			return domain.StorageError("Failed to fetch cart item", err)
		}
		if count == 0 {
			break
		}
	}
	return domain.NewError(domain.KindNotFound, "Item not in cart")
}

// RemoveAll deletes the item whatever its quantity
func (s *CartStore) RemoveAll(ctx context.Context, userID uint, name string) error {
	name = strings.TrimSpace(name)
	res := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Delete(&domain.CartItem{})
	if res.Error != nil {
		return domain.StorageError("Failed to delete cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "Item not in cart")
	}
	return nil
}

// List returns the user's cart rows
func (s *CartStore) List(ctx context.Context, userID uint) ([]domain.CartItem, error) {
	return listCart(s.db.WithContext(ctx), userID)
}

// Clear deletes every row of the user's cart. Clearing an empty cart is not an error.
func (s *CartStore) Clear(ctx context.Context, userID uint) error {
	return clearCart(s.db.WithContext(ctx), userID)
}

// TotalValue is the sum of price times quantity over the cart
func (s *CartStore) TotalValue(ctx context.Context, userID uint) (decimal.Decimal, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return cartTotal(items), nil
}

// listCart and clearCart take a handle so the ledger can run them inside its transaction
func listCart(db *gorm.DB, userID uint) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, domain.StorageError("Failed to fetch cart", err)
	}
	return items, nil
}

func clearCart(db *gorm.DB, userID uint) error {
	if err := db.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
		return domain.StorageError("Failed to clear cart", err)
	}
	return nil
}

func cartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
