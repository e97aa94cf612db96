package dto

import "time"

type HeartbeatRequest struct {
	CurrentPage string `json:"current_page" validate:"max=500"`
}

func (r HeartbeatRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PresenceResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	IsOnline    bool      `json:"is_online"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	CurrentPage string    `json:"current_page,omitempty"`
}

type PresenceCollectionResponse struct {
	Users       []PresenceResponse `json:"users"`
	OnlineCount int                `json:"online_count"`
}

// ==================== NOTIFICATION DTOs ====================

type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}
