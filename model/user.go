package model

import "time"

type User struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"unique;not null"`
	Username     string `json:"username" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"default:student;index"` // student, teacher, admin
	GradeLevel   int    `json:"grade_level" gorm:"default:0"`      // 0 for non-students
	SchoolID     string `json:"school_id" gorm:"index"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type UserSession struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"not null;index"`
	RefreshToken string     `json:"-" gorm:"uniqueIndex"`
	ClientIP     string     `json:"client_ip"`
	UserAgent    string     `json:"user_agent"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RevokedAt    *time.Time `json:"revoked_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SecurityEvent is the sink for security-relevant anomalies (role mismatch
// on a privileged route, tokens for deleted users). Rows are append-only.
type SecurityEvent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	EventType string    `json:"event_type" gorm:"not null"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail" gorm:"type:text"`
	ClientIP  string    `json:"client_ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
