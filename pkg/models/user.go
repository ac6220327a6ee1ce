package models

import (
	"time"

	"github.com/google/uuid"
)

type UserPreferences struct {
	Categories     []string  `json:"categories,omitempty"`
	PriceRange     []float64 `json:"price_range,omitempty"`
	EmotionProfile []string  `json:"emotion_profile,omitempty"`
}

type UserRecord struct {
	UserID       string            `json:"user_id" db:"user_id"`
	Name         string            `json:"name,omitempty" db:"name"`
	Email        string            `json:"email,omitempty" db:"email"`
	Preferences  UserPreferences   `json:"preferences" db:"preferences"`
	Demographics map[string]string `json:"demographics,omitempty" db:"demographics"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

type UserInteraction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id" validate:"required"`
	ProductID string    `json:"product_id" db:"product_id" validate:"required"`
	Action    string    `json:"action" db:"action" validate:"required,oneof=view like purchase add_to_cart"`
	Emotion   string    `json:"emotion,omitempty" db:"emotion"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

type InteractionRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=view like purchase add_to_cart"`
	Emotion   string `json:"emotion,omitempty"`
}

type InteractionResponse struct {
	Success       bool      `json:"success"`
	InteractionID uuid.UUID `json:"interaction_id"`
}

// UserProfile is the transient per-request summary of a user's recent behavior.
// It is rebuilt from the interaction log on every recommendation request and
// never persisted or cached.
type UserProfile struct {
	UserID              string            `json:"user_id"`
	Preferences         UserPreferences   `json:"preferences"`
	Demographics        map[string]string `json:"demographics,omitempty"`
	RecentEmotions      []string          `json:"recent_emotions"`
	CategoryPreferences map[string]int    `json:"category_preferences"`
	PreferredPriceRange [2]float64        `json:"preferred_price_range"`
	InteractionCount    int               `json:"interaction_count"`
}
