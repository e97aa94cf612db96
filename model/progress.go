// model/progress.go
package model

import "time"

// StudentProgress is the per-student, per-content completion record.
// Unique on (student_id, content_id, content_type); writes are upserts so a
// lesson's progress is never duplicated.
type StudentProgress struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	StudentID          string     `json:"student_id" gorm:"not null;uniqueIndex:idx_student_content"`
	ContentID          string     `json:"content_id" gorm:"not null;uniqueIndex:idx_student_content"`
	ContentType        string     `json:"content_type" gorm:"not null;uniqueIndex:idx_student_content"` // video, document, lesson, project, game
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"`
	PointsEarned       int        `json:"points_earned" gorm:"default:0"`
	TimeSpentMinutes   int        `json:"time_spent_minutes" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ActivityLog is best-effort telemetry written after a progress upsert.
// A failed log write never rolls back the progress row.
type ActivityLog struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	StudentID       string    `json:"student_id" gorm:"not null;index"`
	ActivityType    string    `json:"activity_type" gorm:"not null"` // video_watch, project_submit, game_play, document_read
	ContentID       string    `json:"content_id"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:0"`
	Points          int       `json:"points" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// StudentAchievement records an earned achievement. The unique index makes
// re-triggering an already-earned achievement a no-op.
type StudentAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	StudentID     string    `json:"student_id" gorm:"not null;uniqueIndex:idx_student_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"not null;uniqueIndex:idx_student_achievement"`
	PointsValue   int       `json:"points_value" gorm:"default:0"`
	EarnedAt      time.Time `json:"earned_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type MiniProject struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	StudentID          string     `json:"student_id" gorm:"not null;index"`
	Title              string     `json:"title" gorm:"not null"`
	Description        string     `json:"description" gorm:"type:text"`
	Status             string     `json:"status" gorm:"default:draft"` // draft, in_progress, completed, reviewed
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"`
	DueDate            *time.Time `json:"due_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Tasks []ProjectTask `json:"tasks" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

type ProjectTask struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ProjectID   string    `json:"project_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	IsCompleted bool      `json:"is_completed" gorm:"default:false"`
	OrderIndex  int       `json:"order_index" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
