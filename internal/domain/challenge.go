package domain

import "time"

// Challenge Model
type Challenge struct {
	ID               uint      `gorm:"primaryKey" json:"id"`             // Primary key
	Name             string    `gorm:"not null" json:"name"`             // Challenge name
	Description      string    `json:"description"`                      // Challenge description
	StartDate        time.Time `json:"start_date"`                       // Start of the challenge window
	EndDate          time.Time `json:"end_date"`                         // End of the challenge window
	TargetWeightLoss float64   `json:"target_weight_loss"`               // Group weight-loss goal in kg
	CreatedBy        uint      `gorm:"index;not null" json:"created_by"` // Foreign key to the creating User
	ImageURL         *string   `json:"image_url,omitempty"`              // Optional challenge image
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"` // Timestamp of creation

	Participants []ChallengeParticipant `gorm:"foreignKey:ChallengeID" json:"-"` // Membership rows
}

// ChallengeParticipant Model
// The composite unique index makes repeat joins idempotent even under
// concurrent requests.
type ChallengeParticipant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                        // Primary key
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"challenge_id"` // Foreign key to Challenge
	UserID      uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"user_id"`      // Foreign key to User
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`                             // Timestamp of joining
}
