package domain

import "time" // Timestamps

// TrackingEvent Model, append-only history of tracking status changes
type TrackingEvent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`              // Primary key
	OrderRef  string    `gorm:"size:191;not null;index" json:"-"` // Order.OrderRef, not a foreign key
	Status    string    `gorm:"size:64;not null" json:"status"`   // Tracking status value
	CreatedAt time.Time `gorm:"index" json:"timestamp"`           // Time of the change
}
