// model/exam.go
package model

import (
	"encoding/json"
	"time"
)

// BankQuestion is the teacher question pool exams draw from.
type BankQuestion struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	TopicID    string          `json:"topic_id" gorm:"not null;index"`
	Question   string          `json:"question" gorm:"type:text;not null"`
	Type       string          `json:"type" gorm:"not null"` // multiple_choice, fill_blank
	Difficulty string          `json:"difficulty" gorm:"not null;index"` // easy, medium, hard
	Options    json.RawMessage `json:"options" gorm:"type:jsonb"`
	Answer     string          `json:"-" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ExamDraft carries the multi-step builder state for one teacher. Step
// fields are filled as the teacher advances; CurrentStep only moves
// forward once the step's validator passes.
type ExamDraft struct {
	ID          string `json:"id" gorm:"primaryKey"`
	TeacherID   string `json:"teacher_id" gorm:"not null;index"`
	CurrentStep int    `json:"current_step" gorm:"default:1"`

	// Step 1: basics
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	GradeLevel  int    `json:"grade_level"`

	// Step 2: content scope
	TopicIDs json.RawMessage `json:"topic_ids" gorm:"type:jsonb"`

	// Step 3: format
	DurationMinutes  int  `json:"duration_minutes"`
	ShuffleQuestions bool `json:"shuffle_questions"`
	ShowResults      bool `json:"show_results"`

	// Step 4: question count (gated on the available pool)
	QuestionsCount    int `json:"questions_count"`
	PointsPerQuestion int `json:"points_per_question"`

	// Step 5: difficulty split, percentages summing to 100
	DifficultyMode string `json:"difficulty_mode"` // balanced, custom
	EasyPercent    int    `json:"easy_percent"`
	MediumPercent  int    `json:"medium_percent"`
	HardPercent    int    `json:"hard_percent"`

	// Step 6: schedule
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    string     `json:"status" gorm:"default:draft"` // draft, published

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Exam is the submitted result of a draft, with the derived counts frozen
// at submission time.
type Exam struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	TeacherID        string          `json:"teacher_id" gorm:"not null;index"`
	Title            string          `json:"title" gorm:"not null"`
	Description      string          `json:"description" gorm:"type:text"`
	GradeLevel       int             `json:"grade_level" gorm:"index"`
	TopicIDs         json.RawMessage `json:"topic_ids" gorm:"type:jsonb"`
	QuestionsCount   int             `json:"questions_count"`
	DurationMinutes  int             `json:"duration_minutes"`
	EasyCount        int             `json:"easy_count"`
	MediumCount      int             `json:"medium_count"`
	HardCount        int             `json:"hard_count"`
	TotalPoints      int             `json:"total_points"`
	ShuffleQuestions bool            `json:"shuffle_questions"`
	ShowResults      bool            `json:"show_results"`
	StartTime        *time.Time      `json:"start_time"`
	EndTime          *time.Time      `json:"end_time"`
	Status           string          `json:"status" gorm:"default:draft"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
