package domain

import "time"

// Biotype values stored on the user profile
const (
	BiotypeEctomorph = "ectomorph"
	BiotypeMesomorph = "mesomorph"
	BiotypeEndomorph = "endomorph"
)

// Device types for push notifications
const (
	DeviceIOS     = "ios"
	DeviceAndroid = "android"
)

// User Model
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`                 // Primary key
	Username       string    `gorm:"uniqueIndex;not null" json:"username"` // Unique username
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`    // Unique email
	Password       string    `gorm:"not null" json:"-"`                    // Hashed password, never serialized
	Biotype        string    `json:"biotype"`                              // ectomorph, mesomorph or endomorph
	CurrentWeight  float64   `json:"current_weight"`                       // Current weight in kg
	TargetWeight   float64   `json:"target_weight"`                        // Target weight in kg
	Height         float64   `json:"height"`                               // Height in cm
	Age            int       `json:"age"`                                  // Age in years
	Gender         string    `json:"gender"`                               // Gender
	DeviceToken    *string   `json:"device_token,omitempty"`               // Push device token, set via /users/device-token
	DeviceType     *string   `json:"device_type,omitempty"`                // ios or android
	DeviceEndpoint *string   `json:"-"`                                    // SNS platform endpoint ARN for the device token
	IsActive       bool      `gorm:"default:true" json:"is_active"`        // Active flag checked on token resolution
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`     // Timestamp of creation

	DietPlans  []DietPlan             `gorm:"foreignKey:UserID" json:"-"`    // Plans owned by the user
	Progress   []Progress             `gorm:"foreignKey:UserID" json:"-"`    // Progress entries owned by the user
	Created    []Challenge            `gorm:"foreignKey:CreatedBy" json:"-"` // Challenges created by the user
	Challenges []ChallengeParticipant `gorm:"foreignKey:UserID" json:"-"`    // Challenge memberships
}
