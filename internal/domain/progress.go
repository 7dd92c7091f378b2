package domain

import "time"

// Progress Model
type Progress struct {
	ID       uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID   uint      `gorm:"index;not null" json:"user_id"` // Foreign key to User
	Weight   float64   `json:"weight"`                        // Measured weight in kg
	Date     time.Time `gorm:"autoCreateTime" json:"date"`    // Timestamp of the measurement
	Notes    *string   `json:"notes,omitempty"`               // Optional notes
	ImageURL *string   `json:"image_url,omitempty"`           // Optional progress photo
}

// TableName keeps the table singular
func (Progress) TableName() string {
	return "progress"
}
