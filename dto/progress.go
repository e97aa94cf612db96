package dto

import "time"

// ==================== PROGRESS DTOs ====================

type UpdateProgressRequest struct {
	ContentID          string `json:"content_id" validate:"required"`
	ContentType        string `json:"content_type" validate:"required,oneof=video document lesson project game"`
	ProgressPercentage int    `json:"progress_percentage"`
	TimeSpentMinutes   int    `json:"time_spent_minutes" validate:"gte=0"`
	PointsEarned       int    `json:"points_earned" validate:"gte=0"`
}

func (r UpdateProgressRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ProgressResponse struct {
	StudentID          string     `json:"student_id"`
	ContentID          string     `json:"content_id"`
	ContentType        string     `json:"content_type"`
	ProgressPercentage int        `json:"progress_percentage"`
	PointsEarned       int        `json:"points_earned"`
	TimeSpentMinutes   int        `json:"time_spent_minutes"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// ==================== ACHIEVEMENT DTOs ====================

type AchievementStatus struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PointsValue int        `json:"points_value"`
	MaxProgress int        `json:"max_progress"`
	Progress    int        `json:"progress"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

type AchievementCollectionResponse struct {
	Achievements []AchievementStatus `json:"achievements"`
	EarnedCount  int                 `json:"earned_count"`
	TotalPoints  int                 `json:"total_points"`
}

// ==================== PROJECT DTOs ====================

type CreateProjectRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	DueDate     *time.Time `json:"due_date"`
	Tasks       []string   `json:"tasks" validate:"dive,min=1,max=200"`
}

func (r CreateProjectRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateProjectRequest struct {
	Title       string     `json:"title" validate:"omitempty,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft in_progress completed reviewed"`
	DueDate     *time.Time `json:"due_date"`
}

func (r UpdateProjectRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ProjectTaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	OrderIndex  int    `json:"order_index"`
}

type ProjectResponse struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	Description        string                `json:"description,omitempty"`
	Status             string                `json:"status"`
	ProgressPercentage int                   `json:"progress_percentage"`
	DueDate            *time.Time            `json:"due_date,omitempty"`
	Tasks              []ProjectTaskResponse `json:"tasks"`
}

// ==================== DASHBOARD / LEADERBOARD DTOs ====================

type DashboardStatsResponse struct {
	TotalLessons       int `json:"total_lessons"`
	CompletedLessons   int `json:"completed_lessons"`
	ProgressPercentage int `json:"progress_percentage"`
	TotalPoints        int `json:"total_points"`
	TimeSpentMinutes   int `json:"time_spent_minutes"`
	CurrentStreak      int `json:"current_streak"`
	Rank               int `json:"rank"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	IsViewer bool   `json:"is_viewer,omitempty"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int                `json:"total"`
}
