package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// CartItem Model, at most one row per (user, item name)
type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                                         // Primary key
	UserID    uint            `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"user_id"`       // Owning user
	Name      string          `gorm:"size:191;not null;uniqueIndex:idx_cart_user_item" json:"name"` // Item identity within the cart
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`                     // Unit price
	Image     string          `gorm:"size:512" json:"image"`                                        // Image reference
	Quantity  int             `gorm:"not null" json:"quantity"`                                     // Positive quantity
	CreatedAt time.Time       `json:"created_at"`                                                   // First add
	UpdatedAt time.Time       `json:"updated_at"`                                                   // Last quantity change
}

// LineTotal is price times quantity
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
