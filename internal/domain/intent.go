package domain

import "time" // Timestamps

// GatewayIntent records a payment order opened at the gateway and the cart amount it was sized for
type GatewayIntent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`                           // Primary key
	OrderRef  string    `gorm:"size:191;not null;uniqueIndex" json:"order_id"` // Gateway order id
	UserID    uint      `gorm:"not null;index" json:"user_id"`                 // User the intent was opened for
	Amount    int64     `gorm:"not null" json:"amount"`                        // Minor currency units
	Currency  string    `gorm:"size:8;not null" json:"currency"`               // ISO currency code
	CreatedAt time.Time `json:"created_at"`                                    // Creation time
}
