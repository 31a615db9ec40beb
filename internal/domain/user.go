package domain

import "time" // Timestamps

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name      string    `gorm:"size:255;not null" json:"name"`              // Display name
	Mobile    string    `gorm:"size:32;not null" json:"mobile"`             // Mobile number
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique, lowercased email
	Password  string    `gorm:"not null" json:"-"`                          // Bcrypt hash
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`     // Admin flag
	CreatedAt time.Time `json:"created_at"`                                 // Registration time
}
