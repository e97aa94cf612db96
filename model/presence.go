package model

import "time"

// PresenceRecord is upserted by heartbeats, keyed per user so multiple
// tabs for the same user collapse into one row.
type PresenceRecord struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	IsOnline    bool      `json:"is_online" gorm:"default:false"`
	LastSeenAt  time.Time `json:"last_seen_at" gorm:"index"`
	CurrentPage string    `json:"current_page"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
