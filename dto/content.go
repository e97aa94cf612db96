package dto

import (
	"encoding/json"
	"time"
)

// ==================== CONTENT TREE RESPONSES ====================

// SectionTreeResponse is one assembled Section→Topic→Lesson→Media branch,
// annotated with the requesting student's progress.
type SectionTreeResponse struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	OrderIndex         int                 `json:"order_index"`
	Topics             []TopicTreeResponse `json:"topics"`
	TotalLessons       int                 `json:"total_lessons"`
	CompletedLessons   int                 `json:"completed_lessons"`
	ProgressPercentage int                 `json:"progress_percentage"`
}

type TopicTreeResponse struct {
	ID                 string               `json:"id"`
	SectionID          string               `json:"section_id"`
	Title              string               `json:"title"`
	Content            string               `json:"content,omitempty"`
	OrderIndex         int                  `json:"order_index"`
	Lessons            []LessonTreeResponse `json:"lessons"`
	TotalLessons       int                  `json:"total_lessons"`
	CompletedLessons   int                  `json:"completed_lessons"`
	ProgressPercentage int                  `json:"progress_percentage"`
}

type LessonTreeResponse struct {
	ID         string                  `json:"id"`
	TopicID    string                  `json:"topic_id"`
	Title      string                  `json:"title"`
	Content    string                  `json:"content,omitempty"`
	OrderIndex int                     `json:"order_index"`
	IsActive   bool                    `json:"is_active"`
	Media      []LessonMediaResponse   `json:"media"`
	Progress   *LessonProgressSnapshot `json:"progress,omitempty"`
}

type LessonMediaResponse struct {
	ID         string          `json:"id"`
	LessonID   string          `json:"lesson_id"`
	MediaType  string          `json:"media_type"`
	FilePath   string          `json:"file_path"`
	FileName   string          `json:"file_name"`
	URL        string          `json:"url,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OrderIndex int             `json:"order_index"`
}

type LessonProgressSnapshot struct {
	ProgressPercentage int        `json:"progress_percentage"`
	PointsEarned       int        `json:"points_earned"`
	TimeSpentMinutes   int        `json:"time_spent_minutes"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type ContentTreeResponse struct {
	Sections []SectionTreeResponse `json:"sections"`
}

// ==================== CONTENT CRUD REQUESTS ====================

type CreateSectionRequest struct {
	GradeLevel  int    `json:"grade_level" validate:"required,gte=1,lte=12"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func (r CreateSectionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateSectionRequest struct {
	Title       string `json:"title" validate:"omitempty,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,gte=0"`
}

func (r UpdateSectionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateTopicRequest struct {
	SectionID  string `json:"section_id" validate:"required"`
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

func (r CreateTopicRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateTopicRequest struct {
	Title      string `json:"title" validate:"omitempty,min=1,max=200"`
	Content    string `json:"content"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
}

func (r UpdateTopicRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateLessonRequest struct {
	TopicID    string `json:"topic_id" validate:"required"`
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
	IsActive   *bool  `json:"is_active"`
}

func (r CreateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateLessonRequest struct {
	Title      string `json:"title" validate:"omitempty,min=1,max=200"`
	Content    string `json:"content"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
	IsActive   *bool  `json:"is_active"`
}

func (r UpdateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}
