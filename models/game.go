// models/game.go
package models

import "time"

type Game struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Category    string `json:"category" gorm:"size:50;index;not null"`
	Description string `json:"description" gorm:"size:500"`
	OwnerID     uint   `json:"owner_id" gorm:"index;not null"`

	// Domain the game is hosted on; the discovery widget identifies games by it.
	Domain string `json:"domain" gorm:"size:255;uniqueIndex;not null"`

	// 🖼️ Media (public CDN URLs)
	LogoURL       string `json:"logo_url"`
	CoverImageURL string `json:"cover_image_url"`
	CoverVideoURL string `json:"cover_video_url"`

	// Promotional multiplier applied to the final ranking score.
	BoostFactor float64 `json:"boost_factor" gorm:"default:1.0"`

	// Denormalized like counter, kept in sync transactionally with Like rows.
	Likes int64 `json:"likes" gorm:"default:0"`

	// Optional promotional cross-reference to another game, with expiry.
	FeaturedGameID   *uint      `json:"featured_game_id,omitempty"`
	FeatureExpiresAt *time.Time `json:"feature_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
