// models/statistic.go
package models

import "time"

// Statistic holds one day's worth of counters for a game.
// One row per (game, calendar day) — upserted, never duplicated.
type Statistic struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	GameID         uint      `json:"game_id" gorm:"uniqueIndex:idx_game_date;not null"`
	Date           time.Time `json:"date" gorm:"uniqueIndex:idx_game_date;not null"` // UTC midnight
	Clicks         int64     `json:"clicks" gorm:"default:0"`
	PlaylightOpens int64     `json:"playlight_opens" gorm:"default:0"`
	Referrals      int64     `json:"referrals" gorm:"default:0"`
}

// Like records at most one like per (game, client IP) pair.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"uniqueIndex:idx_game_ip;not null"`
	ClientIP  string    `json:"client_ip" gorm:"size:45;uniqueIndex:idx_game_ip;not null"`
	CreatedAt time.Time `json:"created_at"`
}
