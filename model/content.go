// model/content.go
package model

import (
	"encoding/json"
	"time"
)

// Section is the ordered top-level grouping of curriculum content for a
// grade. Deleting a section cascades to its topics and below.
type Section struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	GradeLevel  int       `json:"grade_level" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	OrderIndex  int       `json:"order_index" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Topics []Topic `json:"topics" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type Topic struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	SectionID  string    `json:"section_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Lessons []Lesson `json:"lessons" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
}

// Lesson belongs to exactly one topic. Inactive lessons stay out of the
// student-facing tree but remain visible to management views.
type Lesson struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TopicID    string    `json:"topic_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Media []LessonMedia `json:"media" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

// LessonMedia is an attached asset. Metadata is a type-dependent bag:
// speed/loop for lottie, autoRotate for 3d_model, code content/language
// for code embeds.
type LessonMedia struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	LessonID   string          `json:"lesson_id" gorm:"not null;index"`
	MediaType  string          `json:"media_type" gorm:"not null"` // video, image, lottie, code, 3d_model
	FilePath   string          `json:"file_path" gorm:"not null"`
	FileName   string          `json:"file_name" gorm:"not null"`
	Metadata   json.RawMessage `json:"metadata" gorm:"type:jsonb"`
	OrderIndex int             `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
