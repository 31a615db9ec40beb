package domain

import (
	"encoding/json" // Snapshot encoding
	"strings"       // Address validation
	"time"          // Timestamps

	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/datatypes"             // JSON column type
)

// PaymentStatus is set once when the order is created
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"    // Gateway payment verified
	PaymentStatusPending PaymentStatus = "pending" // Manual order, payment not yet collected
)

// TrackingStatusPending is the tracking status every order starts with
const TrackingStatusPending = "pending"

// Address is the shipping address of an order
type Address struct {
	Street string `gorm:"size:255" json:"street" binding:"required"` // Street line
	City   string `gorm:"size:128" json:"city" binding:"required"`   // City
	State  string `gorm:"size:128" json:"state" binding:"required"`  // State or region
	Zip    string `gorm:"size:32" json:"zip" binding:"required"`     // Postal code
}

// Valid reports whether every address field is present
func (a Address) Valid() bool {
	for _, v := range []string{a.Street, a.City, a.State, a.Zip} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// LineItem is one entry of the cart snapshot frozen into an order
type LineItem struct {
	Name     string          `json:"name"`     // Item name
	Price    decimal.Decimal `json:"price"`    // Unit price at order time
	Image    string          `json:"image"`    // Image reference
	Quantity int             `json:"quantity"` // Quantity at order time
}

// Order Model
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`                                          // Primary key
	UserID         uint            `gorm:"not null;index;uniqueIndex:idx_order_user_idem" json:"user_id"` // Owning user
	OrderRef       string          `gorm:"size:191;not null;uniqueIndex" json:"order_id"`                 // Gateway or locally generated order id
	PaymentRef     string          `gorm:"size:191;not null" json:"payment_id"`                           // Gateway or locally generated payment id
	IdempotencyKey *string         `gorm:"size:191;uniqueIndex:idx_order_user_idem" json:"-"`             // Client supplied retry key
	Items          datatypes.JSON  `json:"items"`                                                         // Cart snapshot
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`                      // Order total
	PaymentStatus  PaymentStatus   `gorm:"size:20;not null" json:"payment_status"`                        // paid or pending
	TrackingStatus string          `gorm:"size:64;not null;default:pending" json:"tracking_status"`       // Current tracking label
	Address        Address         `gorm:"embedded;embeddedPrefix:ship_" json:"address"`                  // Shipping address
	CreatedAt      time.Time       `json:"created_at"`                                                    // Placement time
	UpdatedAt      time.Time       `json:"updated_at"`                                                    // Last tracking change
}

// SnapshotCart freezes cart rows into line items and their total
func SnapshotCart(items []CartItem) (datatypes.JSON, decimal.Decimal, error) {
	lines := make([]LineItem, len(items))
	total := decimal.Zero
	for i, it := range items {
		lines[i] = LineItem{Name: it.Name, Price: it.Price, Image: it.Image, Quantity: it.Quantity}
		total = total.Add(it.LineTotal())
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return datatypes.JSON(b), total, nil
}

// LineItems decodes the cart snapshot
func (o Order) LineItems() ([]LineItem, error) {
	var lines []LineItem
	if len(o.Items) == 0 {
		return lines, nil
	}
	err := json.Unmarshal(o.Items, &lines)
	return lines, err
}
